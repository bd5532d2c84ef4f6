// Package syncer mirrors a source tree into a destination tree without ever
// deleting destination content. Every file write is gated by a content
// comparison, so a second run over unchanged inputs writes nothing.
//
// Work is split in two phases like a package installer: Plan walks the
// source and decides what to do with each entry; Execute applies the plan.
package syncer

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/projex-snippets/projex/internal/fsys"
	"github.com/projex-snippets/projex/internal/ignore"
)

// ErrSourceMissing is returned by Plan when the source root does not exist.
var ErrSourceMissing = errors.New("source directory does not exist")

// Action describes what will happen (or did happen) to a single entry.
type Action int

const (
	// ActionCreate means the destination file does not exist yet.
	ActionCreate Action = iota
	// ActionOverwrite means the destination file exists with different content.
	ActionOverwrite
	// ActionSkip means the destination file already matches the source.
	ActionSkip
	// ActionIgnore means the entry name is in the ignore set.
	ActionIgnore
	// ActionMkdir means a destination directory must be created.
	ActionMkdir
	// ActionNone is a directory that already exists in the destination.
	ActionNone
)

// String returns a human-readable label for the action.
func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionOverwrite:
		return "overwrite"
	case ActionSkip:
		return "skip"
	case ActionIgnore:
		return "ignore"
	case ActionMkdir:
		return "mkdir"
	case ActionNone:
		return "exists"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Writes reports whether the action writes a file.
func (a Action) Writes() bool { return a == ActionCreate || a == ActionOverwrite }

// FileAction describes a planned or completed operation on a single entry.
type FileAction struct {
	// RelPath is slash-separated and relative to the source root.
	RelPath string
	// SourcePath is the path of the entry in the source tree.
	SourcePath string
	// TargetPath is where the entry lands in the destination tree.
	TargetPath string
	// Dir is true for directory entries.
	Dir bool
	// Action is what will happen (or did happen).
	Action Action
	// Err is non-nil if planning or applying this entry failed.
	Err error

	// srcData holds the source bytes read by Plan and consumed by Execute.
	srcData []byte
}

// Result summarizes the outcome of Execute.
type Result struct {
	Created     int
	Overwritten int
	Skipped     int
	Ignored     int
	Dirs        int
	Errors      int
}

// Written returns the number of files written.
func (r *Result) Written() int { return r.Created + r.Overwritten }

// Plan is an ordered list of actions for one source/destination pair.
type Plan struct {
	Source  string
	Target  string
	Actions []FileAction
}

// Pending returns how many entries Execute would write or create.
func (p *Plan) Pending() int {
	var n int
	for _, a := range p.Actions {
		if a.Err == nil && (a.Action.Writes() || a.Action == ActionMkdir) {
			n++
		}
	}
	return n
}

// Syncer copies trees through an injected filesystem.
type Syncer struct {
	fs     fsys.FS
	log    *slog.Logger
	ignore *ignore.Set
}

// New returns a Syncer. ignoreSet applies at every level of every tree; a
// nil set falls back to ignore.SyncDefaults.
func New(fs fsys.FS, log *slog.Logger, ignoreSet *ignore.Set) *Syncer {
	if fs == nil {
		panic("syncer.New: fs must not be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	if ignoreSet == nil {
		ignoreSet = ignore.MustNew(ignore.SyncDefaults...)
	}
	return &Syncer{fs: fs, log: log, ignore: ignoreSet}
}

// Decide compares src against dst and returns the write decision along with
// the source bytes. A missing destination means create; identical bytes
// mean skip; anything else means overwrite.
func Decide(files fsys.FS, src, dst string) (Action, []byte, error) {
	srcData, err := files.ReadFile(src)
	if err != nil {
		return ActionSkip, nil, fmt.Errorf("reading %s: %w", src, err)
	}
	existing, err := files.ReadFile(dst)
	if errors.Is(err, fs.ErrNotExist) {
		return ActionCreate, srcData, nil
	}
	if err != nil {
		return ActionSkip, srcData, fmt.Errorf("reading %s: %w", dst, err)
	}
	if bytes.Equal(existing, srcData) {
		return ActionSkip, srcData, nil
	}
	return ActionOverwrite, srcData, nil
}

// Plan walks src and determines what actions would be taken against dst. It
// does not write anything. extraIgnore adds names ignored for this tree
// only, on top of the Syncer's set.
func (s *Syncer) Plan(src, dst string, extraIgnore ...string) (*Plan, error) {
	if src == "" || dst == "" {
		panic(fmt.Sprintf("syncer.Plan: empty path (src=%q, dst=%q)", src, dst))
	}
	if !fsys.IsDir(s.fs, src) {
		return nil, fmt.Errorf("%w: %s", ErrSourceMissing, src)
	}
	skip, err := s.ignore.With(extraIgnore...)
	if err != nil {
		return nil, err
	}

	p := &Plan{Source: src, Target: dst}
	s.planDir(p, skip, src, dst, "")

	s.log.Debug("plan complete", "source", src, "target", dst, "total", len(p.Actions))
	return p, nil
}

func (s *Syncer) planDir(p *Plan, skip *ignore.Set, srcDir, dstDir, rel string) {
	entries, err := s.fs.ReadDir(srcDir)
	if err != nil {
		s.log.Error("reading source directory failed", "dir", srcDir, "err", err)
		p.Actions = append(p.Actions, FileAction{
			RelPath:    relOrDot(rel),
			SourcePath: srcDir,
			TargetPath: dstDir,
			Dir:        true,
			Action:     ActionSkip,
			Err:        fmt.Errorf("reading %s: %w", srcDir, err),
		})
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		fa := FileAction{
			RelPath:    path.Join(rel, name),
			SourcePath: filepath.Join(srcDir, name),
			TargetPath: filepath.Join(dstDir, name),
			Dir:        entry.IsDir(),
		}

		if skip.Match(name) {
			fa.Action = ActionIgnore
			s.log.Debug("ignore", "path", fa.RelPath)
			p.Actions = append(p.Actions, fa)
			continue
		}

		if entry.IsDir() {
			fa.Action = ActionNone
			if !fsys.IsDir(s.fs, fa.TargetPath) {
				fa.Action = ActionMkdir
			}
			p.Actions = append(p.Actions, fa)
			s.planDir(p, skip, fa.SourcePath, fa.TargetPath, fa.RelPath)
			continue
		}

		action, data, decideErr := Decide(s.fs, fa.SourcePath, fa.TargetPath)
		fa.Action = action
		fa.srcData = data
		if decideErr != nil {
			fa.Err = decideErr
			s.log.Error("inspecting entry failed", "path", fa.RelPath, "err", decideErr)
		}
		p.Actions = append(p.Actions, fa)
	}
}

// Execute applies p. It creates the destination root when needed, then
// attempts every entry even if some fail, recording per-entry errors on the
// FileAction and in the Result. Nothing under the destination is removed.
func (s *Syncer) Execute(p *Plan) *Result {
	if p == nil {
		panic("syncer.Execute: plan must not be nil")
	}
	result := &Result{}

	if !fsys.IsDir(s.fs, p.Target) {
		if err := s.fs.MkdirAll(p.Target, fsys.DirPerm); err != nil {
			// Every entry would fail the same way; mark them all.
			s.log.Error("creating destination failed", "dir", p.Target, "err", err)
			for i := range p.Actions {
				fa := &p.Actions[i]
				if fa.Err == nil && (fa.Action.Writes() || fa.Action == ActionMkdir) {
					fa.Err = fmt.Errorf("creating directory %s: %w", p.Target, err)
				}
			}
		} else {
			result.Dirs++
		}
	}

	for i := range p.Actions {
		fa := &p.Actions[i]
		if fa.RelPath == "" || fa.TargetPath == "" {
			panic(fmt.Sprintf("syncer.Execute: action[%d] has empty path (rel=%q, target=%q)", i, fa.RelPath, fa.TargetPath))
		}

		if fa.Err != nil {
			result.Errors++
			continue
		}

		switch fa.Action {
		case ActionIgnore:
			result.Ignored++
		case ActionSkip:
			result.Skipped++
			s.log.Debug("skip (identical)", "path", fa.RelPath)
		case ActionNone:
			// Existing directory; its children carry their own actions.
		case ActionMkdir:
			if err := s.fs.MkdirAll(fa.TargetPath, fsys.DirPerm); err != nil {
				fa.Err = fmt.Errorf("creating directory %s: %w", fa.TargetPath, err)
				result.Errors++
				s.log.Error("mkdir failed", "dir", fa.TargetPath, "err", err)
				continue
			}
			result.Dirs++
			s.log.Debug("created directory", "path", fa.RelPath)
		case ActionCreate, ActionOverwrite:
			if err := s.write(fa); err != nil {
				fa.Err = err
				result.Errors++
				s.log.Error("write failed", "path", fa.RelPath, "target", fa.TargetPath, "err", err)
				continue
			}
			if fa.Action == ActionCreate {
				result.Created++
			} else {
				result.Overwritten++
			}
			s.log.Debug("wrote", "action", fa.Action, "path", fa.RelPath, "bytes", len(fa.srcData))
		default:
			panic(fmt.Sprintf("syncer.Execute: unknown action %s for %s", fa.Action, fa.RelPath))
		}
	}

	return result
}

// write copies the planned bytes to the target path and verifies them.
func (s *Syncer) write(fa *FileAction) error {
	dir := filepath.Dir(fa.TargetPath)
	if err := s.fs.MkdirAll(dir, fsys.DirPerm); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := s.fs.WriteFile(fa.TargetPath, fa.srcData, fsys.FilePerm); err != nil {
		return err
	}

	written, err := s.fs.ReadFile(fa.TargetPath)
	if err != nil {
		return fmt.Errorf("read-back verification failed for %s: %w", fa.TargetPath, err)
	}
	if !bytes.Equal(written, fa.srcData) {
		return fmt.Errorf("write verification failed for %s: content mismatch after write", fa.TargetPath)
	}
	return nil
}

// Sync plans and executes in one call.
func (s *Syncer) Sync(src, dst string, extraIgnore ...string) (*Plan, *Result, error) {
	p, err := s.Plan(src, dst, extraIgnore...)
	if err != nil {
		return nil, nil, err
	}
	return p, s.Execute(p), nil
}

func relOrDot(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}
