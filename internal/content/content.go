// Package content reads the bundled content repository: instruction
// documents organized in category folders, and a flat directory of prompt
// files that may carry a YAML front-matter block.
//
// Nothing here is cached. Every call re-reads the tree so callers always see
// the current filesystem state.
package content

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/projex-snippets/projex/internal/fsys"
	"github.com/projex-snippets/projex/internal/ignore"
)

// Kind classifies a content document.
type Kind int

const (
	// KindInstruction is a category instruction document.
	KindInstruction Kind = iota
	// KindPrompt is a prompt file.
	KindPrompt
)

// String returns a human-readable label for the kind.
func (k Kind) String() string {
	switch k {
	case KindInstruction:
		return "category-instruction"
	case KindPrompt:
		return "prompt"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// DefaultInstructionSuffixes are the file name endings recognized as
// instruction documents.
var DefaultInstructionSuffixes = []string{".instruction.md", ".instructions.md"}

// instructionsFileName is the exact name also recognized as an instruction document.
const instructionsFileName = "instructions.md"

// Entry is a single leaf file under the content root.
type Entry struct {
	// RelPath is slash-separated and relative to the content root
	// (e.g. "doc/vtex/doc.instructions.md").
	RelPath string
	// Path is the absolute (or caller-rooted) path on disk.
	Path string
	// Category is the top-level folder name, or "" for root-level files.
	Category string
	// Alias is derived from the folder path, see AliasFor.
	Alias string
	Kind  Kind
	Data  []byte
}

// FileName returns the base name of the entry.
func (e Entry) FileName() string { return filepath.Base(e.Path) }

// Reader enumerates content documents.
type Reader struct {
	fs       fsys.FS
	log      *slog.Logger
	skip     *ignore.Set
	suffixes []string
}

// Option configures a Reader.
type Option func(*Reader)

// WithSuffixes replaces the recognized instruction suffixes.
func WithSuffixes(suffixes ...string) Option {
	return func(r *Reader) { r.suffixes = suffixes }
}

// NewReader returns a Reader over fs. A nil logger falls back to slog.Default().
func NewReader(fs fsys.FS, log *slog.Logger, opts ...Option) *Reader {
	if fs == nil {
		panic("content.NewReader: fs must not be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	r := &Reader{
		fs:       fs,
		log:      log,
		skip:     ignore.MustNew(ignore.ScanDefaults...),
		suffixes: DefaultInstructionSuffixes,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IsInstruction reports whether name follows the instruction document
// naming convention.
func (r *Reader) IsInstruction(name string) bool {
	if name == instructionsFileName {
		return true
	}
	for _, s := range r.suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// Instructions walks root recursively and returns every instruction document
// beneath it. Relative paths and aliases are computed against base, which is
// normally the content root (root may be one of its category folders).
//
// A missing or unreadable root is an error. Unreadable subdirectories and
// files are logged and skipped so one bad branch never aborts the scan.
func (r *Reader) Instructions(root, base string) ([]Entry, error) {
	if _, err := r.fs.ReadDir(root); err != nil {
		return nil, fmt.Errorf("reading content directory %s: %w", root, err)
	}
	var entries []Entry
	r.walk(root, base, &entries)
	return entries, nil
}

func (r *Reader) walk(dir, base string, out *[]Entry) {
	items, err := r.fs.ReadDir(dir)
	if err != nil {
		r.log.Warn("skipping unreadable directory", "dir", dir, "err", err)
		return
	}

	// Files before subfolders, matching the order aliases are listed in
	// the generated document.
	var subdirs []string
	for _, item := range items {
		path := filepath.Join(dir, item.Name())
		if item.IsDir() {
			if r.skip.Match(item.Name()) {
				r.log.Debug("skip folder", "dir", path)
				continue
			}
			subdirs = append(subdirs, path)
			continue
		}
		if !r.IsInstruction(item.Name()) {
			continue
		}

		data, readErr := r.fs.ReadFile(path)
		if readErr != nil {
			r.log.Warn("skipping unreadable instruction", "path", path, "err", readErr)
			continue
		}

		rel := relSlash(base, path)
		relDir := relSlash(base, dir)
		*out = append(*out, Entry{
			RelPath:  rel,
			Path:     path,
			Category: categoryOf(relDir),
			Alias:    AliasFor(relDir, item.Name()),
			Kind:     KindInstruction,
			Data:     data,
		})
	}

	for _, sub := range subdirs {
		r.walk(sub, base, out)
	}
}

// AliasFor derives the alias of a document from its slash-separated folder
// path relative to the content root: the first segment, joined with the
// second by a hyphen when one exists. Documents at the content root use
// their own file name without extension or instruction suffix.
func AliasFor(relDir, fileName string) string {
	relDir = strings.Trim(relDir, "/")
	if relDir == "" || relDir == "." {
		return StripInstructionSuffix(fileName)
	}
	parts := strings.Split(relDir, "/")
	if len(parts) >= 2 {
		return parts[0] + "-" + parts[1]
	}
	return parts[0]
}

// StripInstructionSuffix removes the extension and a trailing
// ".instruction" or ".instructions" from a file name.
func StripInstructionSuffix(fileName string) string {
	name := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	name = strings.TrimSuffix(name, ".instructions")
	return strings.TrimSuffix(name, ".instruction")
}

func categoryOf(relDir string) string {
	relDir = strings.Trim(relDir, "/")
	if relDir == "" || relDir == "." {
		return ""
	}
	first, _, _ := strings.Cut(relDir, "/")
	return first
}

// relSlash returns target relative to base with forward slashes. Paths that
// cannot be made relative are returned as-is.
func relSlash(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}
