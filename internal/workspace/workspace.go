// Package workspace synchronizes bundled instructions and prompts into a
// project workspace, and serves the read-only index and prompt listings.
//
// Service is the single entry point hosts call. It holds configuration only;
// all state lives on the filesystem, so any host (CLI, watch loop, editor
// bridge) can drive it without coordination.
package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/projex-snippets/projex/internal/content"
	"github.com/projex-snippets/projex/internal/fsys"
	"github.com/projex-snippets/projex/internal/ignore"
	"github.com/projex-snippets/projex/internal/index"
	"github.com/projex-snippets/projex/internal/syncer"
)

// Layout of a content root and of the destination root.
const (
	InstructionsDir = "instructions"
	PromptsDir      = "prompts"
	MainDocSource   = "main-copilot-instructions.md"
	MainDocDest     = "copilot-instructions.md"
	CatalogFile     = "catalog.yaml"
)

// ErrNoWorkspace is returned when no workspace root is configured.
var ErrNoWorkspace = errors.New("no workspace open")

// ErrNoInstructions is returned by GenerateMain when the instructions tree
// holds no indexable documents.
var ErrNoInstructions = errors.New("no alias folders with instruction documents found")

// API is what a host needs from the sync service.
type API interface {
	HasInstructions() bool
	SyncInstructions(sourceRoot string, silent bool) (*Report, error)
	BuildIndex(contentRoot string) (*index.Index, error)
	ListPrompts(promptsRoot string) ([]content.Prompt, error)
}

var _ API = (*Service)(nil)

// Notifier surfaces user-facing messages. Silent runs never call it.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

type nopNotifier struct{}

func (nopNotifier) Info(string)  {}
func (nopNotifier) Error(string) {}

// Options configures a Service.
type Options struct {
	// FS is the filesystem. Defaults to fsys.OS.
	FS fsys.FS
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Notifier receives user-facing messages. Defaults to a no-op.
	Notifier Notifier
	// Workspace is the project root. Empty means no workspace is open.
	Workspace string
	// DestDir is the destination root relative to Workspace.
	DestDir string
	// Ignore adds glob patterns to ignore.SyncDefaults.
	Ignore []string
	// Catalog overrides index.DefaultCatalog.
	Catalog index.Catalog
}

// Service implements API over a workspace.
type Service struct {
	fs        fsys.FS
	log       *slog.Logger
	notify    Notifier
	workspace string
	destDir   string
	catalog   index.Catalog
	syncer    *syncer.Syncer
	reader    *content.Reader
}

// New returns a Service. It fails only on invalid ignore patterns.
func New(opts Options) (*Service, error) {
	if opts.FS == nil {
		opts.FS = fsys.OS{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}
	if opts.DestDir == "" {
		opts.DestDir = ".github"
	}

	set, err := ignore.New(append(append([]string(nil), ignore.SyncDefaults...), opts.Ignore...)...)
	if err != nil {
		return nil, fmt.Errorf("ignore patterns: %w", err)
	}

	return &Service{
		fs:        opts.FS,
		log:       opts.Logger,
		notify:    opts.Notifier,
		workspace: opts.Workspace,
		destDir:   opts.DestDir,
		catalog:   opts.Catalog,
		syncer:    syncer.New(opts.FS, opts.Logger, set),
		reader:    content.NewReader(opts.FS, opts.Logger),
	}, nil
}

// DestRoot returns the destination root, or "" without a workspace.
func (s *Service) DestRoot() string {
	if s.workspace == "" {
		return ""
	}
	return filepath.Join(s.workspace, s.destDir)
}

// MainDocPath returns the destination main document path, or "" without a
// workspace.
func (s *Service) MainDocPath() string {
	root := s.DestRoot()
	if root == "" {
		return ""
	}
	return filepath.Join(root, MainDocDest)
}

// HasInstructions reports whether the destination main document exists. It
// never fails: a missing workspace or a stat error both report false.
func (s *Service) HasInstructions() bool {
	path := s.MainDocPath()
	if path == "" {
		return false
	}
	_, err := s.fs.Stat(path)
	return err == nil
}

// BuildIndex indexes the alias folders under contentRoot. The catalog is the
// configured one, or else catalog.yaml beside the alias folders overlaid on
// the defaults.
func (s *Service) BuildIndex(contentRoot string) (*index.Index, error) {
	catalog := s.catalog
	if catalog == nil {
		loaded, err := index.LoadCatalog(s.fs, filepath.Join(contentRoot, CatalogFile), index.DefaultCatalog())
		if err != nil {
			s.log.Warn("ignoring catalog", "err", err)
			loaded = index.DefaultCatalog()
		}
		catalog = loaded
	}
	return index.NewBuilder(s.fs, s.log, s.reader, catalog).Build(contentRoot)
}

// ListPrompts lists the prompt files directly inside promptsRoot.
func (s *Service) ListPrompts(promptsRoot string) ([]content.Prompt, error) {
	return s.reader.Prompts(promptsRoot)
}

// GenerateMain renders the main document from the index of
// <sourceRoot>/instructions. An empty index returns ErrNoInstructions.
func (s *Service) GenerateMain(sourceRoot string) (string, *index.Index, error) {
	idx, err := s.BuildIndex(filepath.Join(sourceRoot, InstructionsDir))
	if err != nil {
		return "", nil, err
	}
	if idx.Empty() {
		return "", idx, ErrNoInstructions
	}
	return index.Render(idx), idx, nil
}

// WriteMain renders the main document and stores it as the prebuilt source
// under sourceRoot. Nothing is written when GenerateMain fails, so an
// existing prebuilt document survives an empty or unreadable tree.
func (s *Service) WriteMain(sourceRoot string) (string, *index.Index, error) {
	doc, idx, err := s.GenerateMain(sourceRoot)
	if err != nil {
		return "", idx, err
	}
	path := filepath.Join(sourceRoot, InstructionsDir, MainDocSource)
	if err := s.fs.WriteFile(path, []byte(doc), fsys.FilePerm); err != nil {
		return "", idx, fmt.Errorf("writing %s: %w", path, err)
	}
	s.log.Info("main document generated", "path", path, "documents", len(idx.Entries))
	return path, idx, nil
}
