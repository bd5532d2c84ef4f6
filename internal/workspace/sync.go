package workspace

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/projex-snippets/projex/internal/fsys"
	"github.com/projex-snippets/projex/internal/index"
	"github.com/projex-snippets/projex/internal/merge"
	"github.com/projex-snippets/projex/internal/syncer"
)

// User-facing notifications.
const (
	msgNoWorkspace  = "No se ha encontrado un workspace abierto"
	msgSynced       = "💡 Instrucciones sincronizadas correctamente para Projex Snippets"
	msgSyncFailed   = "Error al sincronizar instrucciones: %v"
	msgFirstInstall = "📝 Instrucciones Projex Snippets instaladas correctamente"
)

// Origin says where the main document text came from.
type Origin int

const (
	// OriginSource is the prebuilt main document in the content root.
	OriginSource Origin = iota
	// OriginIndex is a document rendered from the category index.
	OriginIndex
	// OriginDefault is index.DefaultTemplate.
	OriginDefault
)

func (o Origin) String() string {
	switch o {
	case OriginSource:
		return "source"
	case OriginIndex:
		return "index"
	case OriginDefault:
		return "default"
	default:
		return fmt.Sprintf("Origin(%d)", int(o))
	}
}

// MainDoc is the planned or completed update of the main document.
type MainDoc struct {
	// SourcePath is set when Origin is OriginSource.
	SourcePath string
	TargetPath string
	Origin     Origin
	// Action is ActionCreate, ActionOverwrite or ActionSkip.
	Action syncer.Action
	// Merged is true when an existing destination was merged, not replaced.
	Merged bool
	Err    error

	data []byte
}

// Plan is the dry-run result of all three sync steps.
type Plan struct {
	Source       string
	Target       string
	MainDoc      MainDoc
	Instructions *syncer.Plan
	Prompts      *syncer.Plan
	// Missing lists source trees that do not exist. They are skipped.
	Missing []string
	// Errors holds step-level planning failures.
	Errors []error
}

// Pending returns how many writes and directory creations Apply would do.
func (p *Plan) Pending() int {
	var n int
	if p.MainDoc.Err == nil && p.MainDoc.Action.Writes() {
		n++
	}
	for _, sp := range []*syncer.Plan{p.Instructions, p.Prompts} {
		if sp != nil {
			n += sp.Pending()
		}
	}
	return n
}

// Report is the outcome of one synchronization run.
type Report struct {
	Workspace    string
	Target       string
	MainDoc      MainDoc
	Instructions *syncer.Result
	Prompts      *syncer.Result
	Missing      []string
	Errors       []error
	// FirstInstall is set by AutoSync when the main document appeared.
	FirstInstall bool
	// Plan is the executed plan; its actions carry per-entry errors.
	Plan *Plan
}

// Written returns the number of files written, main document included.
func (r *Report) Written() int {
	var n int
	if r.MainDoc.Err == nil && r.MainDoc.Action.Writes() {
		n++
	}
	for _, res := range []*syncer.Result{r.Instructions, r.Prompts} {
		if res != nil {
			n += res.Written()
		}
	}
	return n
}

// Failed returns the number of failed steps and entries.
func (r *Report) Failed() int {
	n := len(r.Errors)
	for _, res := range []*syncer.Result{r.Instructions, r.Prompts} {
		if res != nil {
			n += res.Errors
		}
	}
	return n
}

// Err summarizes the failures of the run, or returns nil.
func (r *Report) Err() error {
	if r == nil {
		return nil
	}
	n := r.Failed()
	if n == 0 {
		return nil
	}
	if len(r.Errors) == n {
		return errors.Join(r.Errors...)
	}
	return fmt.Errorf("%d sync operations failed", n)
}

// Plan decides every action of a sync from sourceRoot without writing.
func (s *Service) Plan(sourceRoot string) (*Plan, error) {
	if s.workspace == "" {
		return nil, ErrNoWorkspace
	}
	dest := s.DestRoot()
	p := &Plan{Source: sourceRoot, Target: dest}

	p.MainDoc = s.planMainDoc(sourceRoot)
	if p.MainDoc.Err != nil {
		p.Errors = append(p.Errors, p.MainDoc.Err)
	}

	p.Instructions = s.planTree(p, filepath.Join(sourceRoot, InstructionsDir), filepath.Join(dest, InstructionsDir), MainDocSource, CatalogFile)
	p.Prompts = s.planTree(p, filepath.Join(sourceRoot, PromptsDir), filepath.Join(dest, PromptsDir))
	return p, nil
}

func (s *Service) planTree(p *Plan, src, dst string, extraIgnore ...string) *syncer.Plan {
	sp, err := s.syncer.Plan(src, dst, extraIgnore...)
	switch {
	case errors.Is(err, syncer.ErrSourceMissing):
		s.log.Warn("source tree not found, skipping", "source", src)
		p.Missing = append(p.Missing, src)
		return nil
	case err != nil:
		s.log.Error("planning tree failed", "source", src, "err", err)
		p.Errors = append(p.Errors, err)
		return nil
	}
	return sp
}

func (s *Service) planMainDoc(sourceRoot string) MainDoc {
	md := MainDoc{TargetPath: s.MainDocPath(), Action: syncer.ActionSkip}

	generated, err := s.mainText(sourceRoot, &md)
	if err != nil {
		md.Err = err
		return md
	}

	existing, err := s.fs.ReadFile(md.TargetPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		md.Action = syncer.ActionCreate
		md.data = []byte(generated)
	case err != nil:
		md.Err = fmt.Errorf("reading %s: %w", md.TargetPath, err)
	default:
		merged := merge.Merge(generated, string(existing))
		if merged != string(existing) {
			md.Action = syncer.ActionOverwrite
			md.Merged = true
			md.data = []byte(merged)
		}
	}
	return md
}

// mainText returns the main document text: the prebuilt source when
// present, else the rendered index, else the default template.
func (s *Service) mainText(sourceRoot string, md *MainDoc) (string, error) {
	src := filepath.Join(sourceRoot, InstructionsDir, MainDocSource)
	data, err := s.fs.ReadFile(src)
	if err == nil {
		md.SourcePath = src
		md.Origin = OriginSource
		return string(data), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("reading %s: %w", src, err)
	}

	text, _, genErr := s.GenerateMain(sourceRoot)
	switch {
	case errors.Is(genErr, ErrNoInstructions):
		md.Origin = OriginDefault
		return index.DefaultTemplate, nil
	case genErr != nil:
		s.log.Warn("main document not generated, using default template", "err", genErr)
		md.Origin = OriginDefault
		return index.DefaultTemplate, nil
	}
	md.Origin = OriginIndex
	return text, nil
}

// Apply executes p. Each step runs regardless of failures in the others.
func (s *Service) Apply(p *Plan) *Report {
	if p == nil {
		panic("workspace.Apply: plan must not be nil")
	}
	r := &Report{
		Workspace: s.workspace,
		Target:    p.Target,
		Missing:   p.Missing,
		Errors:    append([]error(nil), p.Errors...),
		Plan:      p,
	}

	r.MainDoc = p.MainDoc
	if r.MainDoc.Err == nil && r.MainDoc.Action.Writes() {
		if err := s.writeMainDoc(&r.MainDoc); err != nil {
			r.MainDoc.Err = err
			r.Errors = append(r.Errors, err)
			s.log.Error("writing main document failed", "path", r.MainDoc.TargetPath, "err", err)
		} else {
			s.log.Info("main document updated",
				"path", r.MainDoc.TargetPath,
				"action", r.MainDoc.Action,
				"origin", r.MainDoc.Origin,
				"merged", r.MainDoc.Merged,
			)
		}
	}

	if p.Instructions != nil {
		r.Instructions = s.syncer.Execute(p.Instructions)
	}
	if p.Prompts != nil {
		r.Prompts = s.syncer.Execute(p.Prompts)
	}

	s.log.Info("sync complete",
		"target", r.Target,
		"written", r.Written(),
		"failed", r.Failed(),
		"missing", len(r.Missing),
	)
	return r
}

func (s *Service) writeMainDoc(md *MainDoc) error {
	dir := filepath.Dir(md.TargetPath)
	if err := s.fs.MkdirAll(dir, fsys.DirPerm); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := s.fs.WriteFile(md.TargetPath, md.data, fsys.FilePerm); err != nil {
		return fmt.Errorf("writing %s: %w", md.TargetPath, err)
	}

	written, err := s.fs.ReadFile(md.TargetPath)
	if err != nil {
		return fmt.Errorf("read-back verification failed for %s: %w", md.TargetPath, err)
	}
	if !bytes.Equal(written, md.data) {
		return fmt.Errorf("write verification failed for %s: content mismatch after write", md.TargetPath)
	}
	return nil
}

// SyncInstructions runs a full synchronization from sourceRoot. silent
// suppresses notifications only; logging is unaffected.
//
// Without a workspace nothing is written: silent runs return (nil, nil),
// others notify and return ErrNoWorkspace. Per-entry failures never abort
// the run; they are counted on the Report and surfaced through Report.Err.
func (s *Service) SyncInstructions(sourceRoot string, silent bool) (*Report, error) {
	if s.workspace == "" {
		s.log.Warn("no workspace open, skipping sync", "silent", silent)
		if silent {
			return nil, nil
		}
		s.notify.Error(msgNoWorkspace)
		return nil, ErrNoWorkspace
	}

	s.log.Info("starting sync", "source", sourceRoot, "target", s.DestRoot())
	p, err := s.Plan(sourceRoot)
	if err != nil {
		return nil, err
	}
	r := s.Apply(p)

	if !silent {
		if err := r.Err(); err != nil {
			s.notify.Error(fmt.Sprintf(msgSyncFailed, err))
		} else {
			s.notify.Info(msgSynced)
		}
	}
	return r, nil
}

// AutoSync runs a silent sync and reports whether it installed the main
// document for the first time, which is the only case it notifies about.
func (s *Service) AutoSync(sourceRoot string) (*Report, error) {
	had := s.HasInstructions()
	r, err := s.SyncInstructions(sourceRoot, true)
	if r == nil {
		return nil, err
	}
	r.FirstInstall = !had && s.HasInstructions()
	if r.FirstInstall {
		s.notify.Info(msgFirstInstall)
	}
	s.log.Info("auto sync finished", "first_install", r.FirstInstall)
	return r, nil
}
