package index

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/projex-snippets/projex/internal/content"
	"github.com/projex-snippets/projex/internal/fsys"
	"github.com/projex-snippets/projex/internal/fsys/fsystest"
	"github.com/projex-snippets/projex/internal/merge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder(catalog Catalog) *Builder {
	var fs fsys.OS
	return NewBuilder(fs, nil, content.NewReader(fs, nil), catalog)
}

func contentRoot(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, fsystest.WriteTree(root, files))
	return root
}

func TestBuildOrdersAndResolvesEntries(t *testing.T) {
	root := contentRoot(t, map[string]string{
		"commit/commit.instructions.md":     "c",
		"doc/doc.instructions.md":           "d",
		"doc/vtex/doc-vtex.instructions.md": "dv",
		"qa/qa-hu/qa.instructions.md":       "q",
		"my-team/team.instructions.md":      "t",
		"templates/tpl.instructions.md":     "excluded",
		"pull-request/pr.instructions.md":   "excluded",
		"main-copilot-instructions.md":      "root file",
		"empty-folder/readme.md":            "no instructions",
	})

	idx, err := newBuilder(nil).Build(root)
	require.NoError(t, err)

	var aliases []string
	for _, e := range idx.Entries {
		aliases = append(aliases, e.Alias)
	}
	assert.Equal(t, []string{"commit", "doc", "doc-vtex", "my-team", "qa-qa-hu"}, aliases)
	assert.Equal(t, []string{"commit", "doc", "empty-folder", "my-team", "qa"}, idx.Folders)

	commit := idx.Entries[0]
	assert.Equal(t, "Conventional Commits", commit.Title)
	assert.Equal(t, "📋", commit.Emoji)
	assert.Equal(t, "./instructions/commit/commit.instructions.md", commit.ActivationPath)
	assert.Equal(t, "commit.instructions.md", commit.FileName)

	docVtex := idx.Entries[2]
	assert.Equal(t, "doc", docVtex.Category)
	assert.Equal(t, "Documentación VTEX IO", docVtex.Title)
	assert.Equal(t, "📚", docVtex.Emoji)
	assert.Equal(t, []string{"doc vtex", "vtex documentation", "documentación vtex", "vtex io"}, docVtex.Keywords)

	team := idx.Entries[3]
	assert.Equal(t, "My team", team.Title)
	assert.Equal(t, "🔹", team.Emoji)
	assert.Equal(t, []string{"my team"}, team.Keywords)
	assert.Equal(t, "Ejecuta instrucciones específicas para my team", team.Description)

	qa := idx.Entries[4]
	assert.Equal(t, "QA y Testing", qa.Title, "compound alias falls back to base title")
	assert.Equal(t, []string{"qa qa hu"}, qa.Keywords, "compound alias never inherits base keywords")
	assert.True(t, strings.HasPrefix(qa.Description, "Genera resumen estructurado"))
}

func TestBuildEmpty(t *testing.T) {
	t.Run("no alias folders", func(t *testing.T) {
		root := contentRoot(t, map[string]string{"readme.md": "x", "templates/a.instructions.md": "x"})
		idx, err := newBuilder(nil).Build(root)
		require.NoError(t, err)
		assert.True(t, idx.Empty())
		assert.Empty(t, idx.Folders)
	})

	t.Run("folders without instructions", func(t *testing.T) {
		root := contentRoot(t, map[string]string{"pr/notes.md": "x"})
		idx, err := newBuilder(nil).Build(root)
		require.NoError(t, err)
		assert.True(t, idx.Empty())
		assert.Equal(t, []string{"pr"}, idx.Folders)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := newBuilder(nil).Build(filepath.Join(t.TempDir(), "missing"))
		assert.Error(t, err)
	})
}

func TestBuildIsReproducible(t *testing.T) {
	root := contentRoot(t, map[string]string{
		"b/b.instructions.md":   "b",
		"a/x/a.instructions.md": "a",
		"a/a.instructions.md":   "a",
		"c/c.instruction.md":    "c",
	})
	b := newBuilder(nil)
	first, err := b.Build(root)
	require.NoError(t, err)
	second, err := b.Build(root)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestByAlias(t *testing.T) {
	idx := &Index{Entries: []Entry{
		{Alias: "doc", FileName: "1"},
		{Alias: "pr", FileName: "2"},
		{Alias: "doc", FileName: "3"},
	}}
	groups := idx.ByAlias()
	require.Len(t, groups, 2)
	assert.Equal(t, "doc", groups[0].Alias)
	assert.Len(t, groups[0].Entries, 2)
	assert.Equal(t, "pr", groups[1].Alias)

	var nilIdx *Index
	assert.Nil(t, nilIdx.ByAlias())
	assert.True(t, nilIdx.Empty())
}

func TestLoadCatalogOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	body := `pr:
  title: PRs
my:
  emoji: "🚀"
  keywords: [mine, custom]
  description: Custom category
`
	require.NoError(t, os.WriteFile(path, []byte(body), fsys.FilePerm))

	cat, err := LoadCatalog(fsys.OS{}, path, DefaultCatalog())
	require.NoError(t, err)

	assert.Equal(t, "PRs", cat["pr"].Title)
	assert.Equal(t, DefaultCatalog()["pr"].Keywords, cat["pr"].Keywords, "unset fields keep defaults")
	assert.Equal(t, "🚀", cat["my"].Emoji)

	r := cat.resolve("my")
	assert.Equal(t, "My", r.title)
	assert.Equal(t, []string{"mine", "custom"}, r.keywords)
	assert.Equal(t, "Custom category", r.description)
}

func TestLoadCatalogMissingAndInvalid(t *testing.T) {
	cat, err := LoadCatalog(fsys.OS{}, filepath.Join(t.TempDir(), "none.yaml"), DefaultCatalog())
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog(), cat)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("pr: [unclosed"), fsys.FilePerm))
	_, err = LoadCatalog(fsys.OS{}, bad, nil)
	assert.Error(t, err)
}

func TestLoadCatalogReadsThroughFS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pr:\n  title: PRs\n"), fsys.FilePerm))

	fake := fsystest.New()
	fake.FailRead(path)
	_, err := LoadCatalog(fake, path, DefaultCatalog())
	require.Error(t, err)
	assert.ErrorIs(t, err, fsystest.ErrInjected)
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Doc vtex", Humanize("doc-vtex"))
	assert.Equal(t, "Unit testing", Humanize("unit_testing"))
	assert.Equal(t, "Ñandu", Humanize("ñandu"))
	assert.Equal(t, "", Humanize(""))
}

func TestRender(t *testing.T) {
	idx := &Index{Entries: []Entry{{
		Alias:          "pr",
		Title:          "Pull Request",
		Emoji:          "📋",
		Keywords:       []string{"pr", "pull request"},
		Description:    "Creates PRs",
		ActivationPath: "./instructions/pr/pr.instructions.md",
		FileName:       "pr.instructions.md",
	}}}

	doc := Render(idx)
	assert.True(t, strings.HasPrefix(doc, merge.Marker))
	assert.Equal(t, 1, strings.Count(doc, merge.Marker))
	assert.Contains(t, doc, "### 📋 Pull Request\n\n")
	assert.Contains(t, doc, "**Palabras clave:** `\"pr\"` | `\"pull request\"`  \n")
	assert.Contains(t, doc, "**→ ACTIVAR:** [pr.instructions.md](./instructions/pr/pr.instructions.md)  \n")
	assert.Contains(t, doc, "**Acción:** Creates PRs\n\n")
	assert.True(t, strings.HasSuffix(doc, "en las instrucciones específicas\n"))

	assert.Equal(t, merge.Section(doc), doc, "rendered document is entirely managed")
	assert.True(t, strings.HasPrefix(DefaultTemplate, merge.Marker))
}
