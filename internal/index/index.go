// Package index aggregates the instruction documents of a content root into
// an ordered index (alias, category, keywords, description, activation path)
// and renders the managed section of the main instructions document from it.
package index

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/projex-snippets/projex/internal/content"
	"github.com/projex-snippets/projex/internal/fsys"
	"github.com/projex-snippets/projex/internal/ignore"
)

// ActivationPrefix is prepended to an entry's relative path to link it from
// the main document, which sits next to the instructions folder.
const ActivationPrefix = "./instructions/"

// Entry is one indexed instruction document.
type Entry struct {
	Alias          string   `json:"alias"`
	Category       string   `json:"category"`
	Title          string   `json:"title"`
	Emoji          string   `json:"emoji"`
	Keywords       []string `json:"keywords"`
	Description    string   `json:"description"`
	ActivationPath string   `json:"activation_path"`
	FileName       string   `json:"file_name"`
}

// Index is the ordered result of Build.
type Index struct {
	// Root is the content root the index was built from.
	Root string `json:"root"`
	// Folders lists the alias folders visited, in directory order.
	Folders []string `json:"folders"`
	Entries []Entry  `json:"entries"`
}

// Empty reports whether the index holds no entries.
func (idx *Index) Empty() bool { return idx == nil || len(idx.Entries) == 0 }

// Group is the entries sharing one alias.
type Group struct {
	Alias   string
	Entries []Entry
}

// ByAlias groups entries by alias, in first-seen order.
func (idx *Index) ByAlias() []Group {
	if idx == nil {
		return nil
	}
	pos := map[string]int{}
	var groups []Group
	for _, e := range idx.Entries {
		i, ok := pos[e.Alias]
		if !ok {
			i = len(groups)
			pos[e.Alias] = i
			groups = append(groups, Group{Alias: e.Alias})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups
}

// Builder walks content roots. It holds configuration only; every Build
// re-reads the filesystem.
type Builder struct {
	fs       fsys.FS
	log      *slog.Logger
	reader   *content.Reader
	catalog  Catalog
	nonAlias *ignore.Set
}

// NewBuilder returns a Builder. A nil catalog uses DefaultCatalog.
func NewBuilder(fs fsys.FS, log *slog.Logger, reader *content.Reader, catalog Catalog) *Builder {
	if fs == nil || reader == nil {
		panic("index.NewBuilder: fs and reader must not be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Builder{
		fs:       fs,
		log:      log,
		reader:   reader,
		catalog:  catalog,
		nonAlias: ignore.MustNew(ignore.NonAliasFolders...),
	}
}

// Build indexes every alias folder directly under contentRoot. Folders with
// no instruction documents and a content root with no alias folders both
// yield an empty index, not an error; only an unreadable contentRoot fails.
func (b *Builder) Build(contentRoot string) (*Index, error) {
	items, err := b.fs.ReadDir(contentRoot)
	if err != nil {
		return nil, fmt.Errorf("reading content root %s: %w", contentRoot, err)
	}

	idx := &Index{Root: contentRoot}
	for _, item := range items {
		if !item.IsDir() || b.nonAlias.Match(item.Name()) {
			continue
		}
		idx.Folders = append(idx.Folders, item.Name())

		docs, docErr := b.reader.Instructions(filepath.Join(contentRoot, item.Name()), contentRoot)
		if docErr != nil {
			b.log.Warn("skipping alias folder", "folder", item.Name(), "err", docErr)
			continue
		}
		for _, doc := range docs {
			idx.Entries = append(idx.Entries, b.entry(doc))
		}
	}

	switch {
	case len(idx.Folders) == 0:
		b.log.Warn("no alias folders found", "root", contentRoot)
	case len(idx.Entries) == 0:
		b.log.Warn("no instruction documents found", "root", contentRoot, "folders", len(idx.Folders))
	default:
		b.log.Debug("index built", "root", contentRoot, "folders", len(idx.Folders), "entries", len(idx.Entries))
	}
	return idx, nil
}

func (b *Builder) entry(doc content.Entry) Entry {
	r := b.catalog.resolve(doc.Alias)
	return Entry{
		Alias:          doc.Alias,
		Category:       doc.Category,
		Title:          r.title,
		Emoji:          r.emoji,
		Keywords:       r.keywords,
		Description:    r.description,
		ActivationPath: ActivationPrefix + doc.RelPath,
		FileName:       doc.FileName(),
	}
}
