package content

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// descriptionFallbackLen bounds the body excerpt used when a prompt has no
// description in its front matter.
const descriptionFallbackLen = 120

// Prompt describes one prompt file.
type Prompt struct {
	Name        string   `json:"name"`
	Path        string   `json:"path"`
	Description string   `json:"description"`
	Mode        string   `json:"mode,omitempty"`
	Model       string   `json:"model,omitempty"`
	Tools       []string `json:"tools,omitempty"`
	// Body is the content after the front-matter block.
	Body string `json:"-"`
}

// FrontMatter is the metadata block at the top of a prompt file.
type FrontMatter struct {
	Description string   `yaml:"description"`
	Mode        string   `yaml:"mode"`
	Model       string   `yaml:"model"`
	Tools       []string `yaml:"tools"`
}

// IsPrompt reports whether name has a prompt file extension.
func IsPrompt(name string) bool {
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".prompt")
}

// Prompts lists prompt files directly inside root (no recursion), in
// directory order. A missing root is an error; unreadable files are logged
// and skipped.
func (r *Reader) Prompts(root string) ([]Prompt, error) {
	items, err := r.fs.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading prompts directory %s: %w", root, err)
	}

	var prompts []Prompt
	for _, item := range items {
		if item.IsDir() || !IsPrompt(item.Name()) {
			continue
		}
		path := filepath.Join(root, item.Name())
		data, readErr := r.fs.ReadFile(path)
		if readErr != nil {
			r.log.Warn("skipping unreadable prompt", "path", path, "err", readErr)
			continue
		}

		fm, body, fmErr := ParseFrontMatter(data)
		if fmErr != nil {
			r.log.Warn("invalid prompt front matter", "path", path, "err", fmErr)
		}

		p := Prompt{
			Name:        item.Name(),
			Path:        path,
			Description: fm.Description,
			Mode:        fm.Mode,
			Model:       fm.Model,
			Tools:       fm.Tools,
			Body:        body,
		}
		if p.Description == "" {
			p.Description = excerpt(body, descriptionFallbackLen)
		}
		prompts = append(prompts, p)
	}
	return prompts, nil
}

// ParseFrontMatter splits data into its front-matter block and body. The
// block must start on the first line with "---" and end with a line holding
// only "---". Without a block the whole input is the body.
//
// On a YAML error the zero FrontMatter is returned together with the body
// and the error, so callers can still list the file.
func ParseFrontMatter(data []byte) (FrontMatter, string, error) {
	var fm FrontMatter

	text := string(bytes.TrimPrefix(data, []byte("\uFEFF")))
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if !strings.HasPrefix(text, "---\n") {
		return fm, text, nil
	}

	rest := text[len("---\n"):]
	var block, body string
	switch {
	case strings.HasPrefix(rest, "---\n"):
		body = rest[len("---\n"):]
	case rest == "---":
	default:
		end := strings.Index(rest, "\n---\n")
		if end < 0 {
			if !strings.HasSuffix(rest, "\n---") {
				return fm, text, nil
			}
			end = len(rest) - len("\n---")
			block = rest[:end]
		} else {
			block = rest[:end]
			body = rest[end+len("\n---\n"):]
		}
	}

	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return FrontMatter{}, body, fmt.Errorf("parsing front matter: %w", err)
	}
	return fm, body, nil
}

// excerpt returns at most n bytes of s, on a rune boundary, with newlines
// flattened to spaces.
func excerpt(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		cut := n
		for cut > 0 && !isRuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return strings.ReplaceAll(s, "\n", " ")
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
