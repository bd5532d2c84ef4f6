package content

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/projex-snippets/projex/internal/fsys"
	"github.com/projex-snippets/projex/internal/fsys/fsystest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, fsystest.WriteTree(root, files))
	return root
}

func TestAliasFor(t *testing.T) {
	tests := []struct {
		relDir, file, want string
	}{
		{"catA", "file.instructions.md", "catA"},
		{"catA/catB", "file.instructions.md", "catA-catB"},
		{"catA/catB/catC", "file.instructions.md", "catA-catB"},
		{".", "pr.instructions.md", "pr"},
		{"", "commit.instruction.md", "commit"},
		{"doc/", "x.md", "doc"},
	}
	for _, tt := range tests {
		t.Run(tt.relDir+"/"+tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, AliasFor(tt.relDir, tt.file))
		})
	}
}

func TestIsInstruction(t *testing.T) {
	r := NewReader(fsys.OS{}, nil)

	assert.True(t, r.IsInstruction("pr.instructions.md"))
	assert.True(t, r.IsInstruction("pr.instruction.md"))
	assert.True(t, r.IsInstruction("instructions.md"))
	assert.False(t, r.IsInstruction("README.md"))
	assert.False(t, r.IsInstruction("pr.instructions.md.bak"))

	custom := NewReader(fsys.OS{}, nil, WithSuffixes(".rules.md"))
	assert.True(t, custom.IsInstruction("go.rules.md"))
	assert.False(t, custom.IsInstruction("pr.instructions.md"))
}

func TestInstructionsCollectsAndDerivesAliases(t *testing.T) {
	root := writeTree(t, map[string]string{
		"pr/pr.instructions.md":                  "pr body",
		"pr/README.md":                           "not an instruction",
		"doc/doc.instructions.md":                "doc body",
		"doc/vtex/vtex.instructions.md":          "vtex body",
		"doc/templates/tpl.instructions.md":      "template",
		"doc/node_modules/x/dep.instructions.md": "dep",
	})
	r := NewReader(fsys.OS{}, nil)

	var all []Entry
	for _, folder := range []string{"doc", "pr"} {
		entries, err := r.Instructions(filepath.Join(root, folder), root)
		require.NoError(t, err)
		all = append(all, entries...)
	}

	require.Len(t, all, 3)
	assert.Equal(t, "doc/doc.instructions.md", all[0].RelPath)
	assert.Equal(t, "doc", all[0].Alias)
	assert.Equal(t, "doc/vtex/vtex.instructions.md", all[1].RelPath)
	assert.Equal(t, "doc-vtex", all[1].Alias)
	assert.Equal(t, "doc", all[1].Category)
	assert.Equal(t, "pr", all[2].Alias)
	assert.Equal(t, "pr body", string(all[2].Data))
	assert.Equal(t, KindInstruction, all[2].Kind)
	assert.Equal(t, "pr.instructions.md", all[2].FileName())
}

func TestInstructionsMissingRoot(t *testing.T) {
	r := NewReader(fsys.OS{}, nil)
	_, err := r.Instructions(filepath.Join(t.TempDir(), "missing"), t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestInstructionsUnreadableSubtreeIsSkipped(t *testing.T) {
	root := writeTree(t, map[string]string{
		"qa/qa.instructions.md":          "qa",
		"qa/broken/x.instructions.md":    "unreachable",
		"qa/fine/fine.instructions.md":   "fine",
		"qa/fine/locked.instructions.md": "locked",
	})
	ffs := fsystest.New()
	ffs.FailRead(filepath.Join(root, "qa", "broken"))
	ffs.FailRead(filepath.Join(root, "qa", "fine", "locked.instructions.md"))

	r := NewReader(ffs, nil)
	entries, err := r.Instructions(filepath.Join(root, "qa"), root)
	require.NoError(t, err)

	var rels []string
	for _, e := range entries {
		rels = append(rels, e.RelPath)
	}
	assert.Equal(t, []string{"qa/qa.instructions.md", "qa/fine/fine.instructions.md"}, rels)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "category-instruction", KindInstruction.String())
	assert.Equal(t, "prompt", KindPrompt.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}
