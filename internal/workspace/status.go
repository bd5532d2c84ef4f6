package workspace

import (
	"path/filepath"
	"strings"

	"github.com/projex-snippets/projex/internal/content"
	"github.com/projex-snippets/projex/internal/fsys"
	"github.com/projex-snippets/projex/internal/merge"
)

// CategoryStatus describes one synchronized category folder.
type CategoryStatus struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	FileCount int    `json:"file_count"`
}

// Status is a snapshot of the destination root.
type Status struct {
	Workspace         string           `json:"workspace"`
	MainDocPath       string           `json:"main_doc_path"`
	MainDocExists     bool             `json:"main_doc_exists"`
	MainDocHasMarker  bool             `json:"main_doc_has_marker"`
	InstructionsPath  string           `json:"instructions_path"`
	InstructionsExist bool             `json:"instructions_exist"`
	Categories        []CategoryStatus `json:"categories"`
	PromptsPath       string           `json:"prompts_path"`
	PromptsExist      bool             `json:"prompts_exist"`
	PromptCount       int              `json:"prompt_count"`
}

// Status inspects the destination root. Unreadable folders are logged and
// reported as empty.
func (s *Service) Status() (*Status, error) {
	if s.workspace == "" {
		return nil, ErrNoWorkspace
	}
	dest := s.DestRoot()
	st := &Status{
		Workspace:        s.workspace,
		MainDocPath:      s.MainDocPath(),
		MainDocExists:    s.HasInstructions(),
		InstructionsPath: filepath.Join(dest, InstructionsDir),
		PromptsPath:      filepath.Join(dest, PromptsDir),
	}

	if st.MainDocExists {
		if data, err := s.fs.ReadFile(st.MainDocPath); err == nil {
			st.MainDocHasMarker = merge.HasMarker(string(data))
		} else {
			s.log.Warn("reading main document failed", "path", st.MainDocPath, "err", err)
		}
	}

	st.InstructionsExist = fsys.IsDir(s.fs, st.InstructionsPath)
	if st.InstructionsExist {
		st.Categories = s.categories(st.InstructionsPath)
	}

	st.PromptsExist = fsys.IsDir(s.fs, st.PromptsPath)
	if st.PromptsExist {
		items, err := s.fs.ReadDir(st.PromptsPath)
		if err != nil {
			s.log.Warn("reading prompts folder failed", "path", st.PromptsPath, "err", err)
		}
		for _, item := range items {
			if !item.IsDir() && content.IsPrompt(item.Name()) {
				st.PromptCount++
			}
		}
	}
	return st, nil
}

// categories counts the markdown files directly inside each category folder.
func (s *Service) categories(root string) []CategoryStatus {
	items, err := s.fs.ReadDir(root)
	if err != nil {
		s.log.Warn("reading instructions folder failed", "path", root, "err", err)
		return nil
	}
	var out []CategoryStatus
	for _, item := range items {
		if !item.IsDir() {
			continue
		}
		dir := filepath.Join(root, item.Name())
		files, err := s.fs.ReadDir(dir)
		if err != nil {
			s.log.Warn("reading category failed", "category", item.Name(), "err", err)
			continue
		}
		cs := CategoryStatus{Name: item.Name(), Path: dir}
		for _, f := range files {
			if !f.IsDir() && strings.HasSuffix(f.Name(), ".md") {
				cs.FileCount++
			}
		}
		out = append(out, cs)
	}
	return out
}
