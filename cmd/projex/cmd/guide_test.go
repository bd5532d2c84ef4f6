package cmd

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/projex-snippets/projex/internal/content"
	"github.com/projex-snippets/projex/internal/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuideMarkdown(t *testing.T) {
	idx := &index.Index{Entries: []index.Entry{{
		Alias:          "pr",
		Title:          "Pull Request",
		Emoji:          "📋",
		Keywords:       []string{"pr", "crear pr"},
		Description:    "Genera el PR",
		ActivationPath: "./instructions/pr/pr.instructions.md",
	}}}
	prompts := []content.Prompt{{Name: "review.prompt.md", Description: "a | b"}}

	md := guideMarkdown(idx, prompts)
	assert.True(t, strings.HasPrefix(md, "# Projex Snippets\n"))
	assert.Contains(t, md, "### 📋 Pull Request\n\nGenera el PR\n")
	assert.Contains(t, md, "- **Palabras clave:** `pr`, `crear pr`\n")
	assert.Contains(t, md, "- **Archivo:** `./instructions/pr/pr.instructions.md`\n")
	assert.Contains(t, md, "| `review.prompt.md` | a \\| b |\n")
}

func TestGuideMarkdownEmpty(t *testing.T) {
	md := guideMarkdown(nil, nil)
	assert.Contains(t, md, "_No hay instrucciones disponibles._")
	assert.Contains(t, md, "_No hay prompts disponibles._")
}

func TestRenderMarkdownKeepsText(t *testing.T) {
	out := renderMarkdown("# Title\n\nSome body text.\n", 80)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "Some body text.")
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("debug", "json")
	require.NoError(t, err)
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))

	logger, err = newLogger("warn", "")
	require.NoError(t, err)
	assert.False(t, logger.Enabled(t.Context(), slog.LevelInfo))

	_, err = newLogger("info", "xml")
	assert.Error(t, err)
	_, err = newLogger("loud", "text")
	assert.Error(t, err)
}
