package ignore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetMatch(t *testing.T) {
	s, err := New(SyncDefaults...)
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"node_modules", true},
		{"a/b/node_modules", true},
		{".git", true},
		{".DS_Store", true},
		{"docs", false},
		{"pr.instructions.md", false},
		{".gitignore", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Match(tt.path))
		})
	}
}

func TestSetGlobPatterns(t *testing.T) {
	s, err := New("*.swp", "~*")
	require.NoError(t, err)

	assert.True(t, s.Match("notes.md.swp"))
	assert.True(t, s.Match("dir/~lock"))
	assert.False(t, s.Match("notes.md"))
}

func TestWithDoesNotMutateReceiver(t *testing.T) {
	base := MustNew(SyncDefaults...)
	ext, err := base.With("main-copilot-instructions.md")
	require.NoError(t, err)

	assert.True(t, ext.Match("main-copilot-instructions.md"))
	assert.False(t, base.Match("main-copilot-instructions.md"))
	assert.Len(t, ext.Patterns(), len(SyncDefaults)+1)
}

func TestNilSetMatchesNothing(t *testing.T) {
	var s *Set
	assert.False(t, s.Match("node_modules"))
	assert.Nil(t, s.Patterns())
}

func TestNewRejectsEmptyPattern(t *testing.T) {
	_, err := New("node_modules", "")
	assert.Error(t, err)
}
