package content

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/projex-snippets/projex/internal/fsys"
	"github.com/projex-snippets/projex/internal/fsys/fsystest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrontMatter(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantFM   FrontMatter
		wantBody string
		wantErr  bool
	}{
		{
			name: "full block",
			in: "---\ndescription: 'Create a PR'\nmode: agent\nmodel: GPT-4.1\n" +
				"tools: ['codebase', 'githubRepo']\n---\n# PR\nbody\n",
			wantFM: FrontMatter{
				Description: "Create a PR",
				Mode:        "agent",
				Model:       "GPT-4.1",
				Tools:       []string{"codebase", "githubRepo"},
			},
			wantBody: "# PR\nbody\n",
		},
		{
			name:     "no block",
			in:       "# Title\ntext",
			wantBody: "# Title\ntext",
		},
		{
			name:     "crlf line endings",
			in:       "---\r\nmode: ask\r\n---\r\nbody",
			wantFM:   FrontMatter{Mode: "ask"},
			wantBody: "body",
		},
		{
			name:     "block at end of file",
			in:       "---\nmode: edit\n---",
			wantFM:   FrontMatter{Mode: "edit"},
			wantBody: "",
		},
		{
			name:     "empty block",
			in:       "---\n---\nbody",
			wantBody: "body",
		},
		{
			name:     "unterminated block is body",
			in:       "---\nmode: edit\nno end",
			wantBody: "---\nmode: edit\nno end",
		},
		{
			name:     "invalid yaml",
			in:       "---\ntools: [unclosed\n---\nbody",
			wantBody: "body",
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, err := ParseFrontMatter([]byte(tt.in))
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantFM, fm)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestPromptsListsFlatPromptFiles(t *testing.T) {
	long := strings.Repeat("word ", 40)
	root := writeTree(t, map[string]string{
		"create-pr.prompt.md":  "---\ndescription: Create a PR\nmode: agent\ntools: [changes]\n---\nBody",
		"plain.md":             "First line\nsecond line " + long,
		"legacy.prompt":        "legacy",
		"notes.txt":            "ignored",
		"nested/deep.md":       "not listed",
		"broken.prompt.md":     "---\nmode: [\n---\nstill listed",
		"unreadable.prompt.md": "x",
	})
	ffs := fsystest.New()
	ffs.FailRead(filepath.Join(root, "unreadable.prompt.md"))

	r := NewReader(ffs, nil)
	prompts, err := r.Prompts(root)
	require.NoError(t, err)

	byName := map[string]Prompt{}
	for _, p := range prompts {
		byName[p.Name] = p
	}
	require.Len(t, byName, 4)

	pr := byName["create-pr.prompt.md"]
	assert.Equal(t, "Create a PR", pr.Description)
	assert.Equal(t, "agent", pr.Mode)
	assert.Equal(t, []string{"changes"}, pr.Tools)
	assert.Equal(t, "Body", pr.Body)

	plain := byName["plain.md"]
	assert.LessOrEqual(t, len(plain.Description), descriptionFallbackLen)
	assert.True(t, strings.HasPrefix(plain.Description, "First line second line"))
	assert.NotContains(t, plain.Description, "\n")

	assert.Equal(t, "legacy", byName["legacy.prompt"].Description)
	assert.Equal(t, "still listed", byName["broken.prompt.md"].Description)
}

func TestPromptsMissingRoot(t *testing.T) {
	r := NewReader(fsys.OS{}, nil)
	_, err := r.Prompts(filepath.Join(t.TempDir(), "prompts"))
	assert.Error(t, err)
}

func TestExcerptRespectsRuneBoundary(t *testing.T) {
	s := strings.Repeat("é", 100) // 200 bytes
	got := excerpt(s, 121)
	assert.LessOrEqual(t, len(got), 121)
	assert.True(t, strings.HasPrefix(s, got))
	assert.Equal(t, 0, len(got)%2)
}
