package term

import (
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetState clears cached detection so each test starts fresh.
func resetState(t *testing.T) {
	restore := func() {
		mu.Lock()
		disabled = false
		mu.Unlock()
		detectOnce = sync.Once{}
		noColor = false
	}
	restore()
	t.Cleanup(restore)
}

// forceColor marks detection done with colors available.
func forceColor() {
	detectOnce.Do(func() { noColor = false })
}

func TestDisable(t *testing.T) {
	resetState(t)
	forceColor()

	Disable(true)
	assert.Equal(t, "hello", Green("hello"))
	assert.False(t, Enabled())

	Disable(false)
	assert.Equal(t, "\x1b[32mhello\x1b[0m", Green("hello"))
}

func TestNoColorEnv(t *testing.T) {
	for _, v := range []string{"1", ""} {
		t.Run("NO_COLOR="+v, func(t *testing.T) {
			resetState(t)
			t.Setenv("NO_COLOR", v)
			assert.Equal(t, "hello", Green("hello"))
		})
	}
}

func TestHelpersPlainWhenDisabled(t *testing.T) {
	resetState(t)
	Disable(true)

	for name, fn := range map[string]func(string) string{
		"Green": Green, "Red": Red, "Yellow": Yellow, "Dim": Dim, "Bold": Bold, "Cyan": Cyan,
	} {
		assert.Equal(t, "x", fn("x"), name)
	}
	for name, fn := range map[string]func(string, ...any) string{
		"Greenf": Greenf, "Redf": Redf, "Yellowf": Yellowf, "Dimf": Dimf,
	} {
		assert.Equal(t, "n=42", fn("n=%d", 42), name)
	}
}

func TestHelpersWrapWhenEnabled(t *testing.T) {
	resetState(t)
	forceColor()

	assert.Equal(t, "\x1b[1mx\x1b[0m", Bold("x"))
	assert.Equal(t, "\x1b[31m3 failed\x1b[0m", Redf("%d failed", 3))
}

func TestPipeIsNotTerminal(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	assert.False(t, IsTerminal(w))
}

func TestWidthIsPositive(t *testing.T) {
	assert.Positive(t, Width(80))
}

func TestPadRight(t *testing.T) {
	resetState(t)
	Disable(true)

	tests := []struct {
		name  string
		s     string
		width int
		want  string
	}{
		{"shorter", "abc", 6, "abc   "},
		{"exact", "abcdef", 6, "abcdef"},
		{"longer", "abcdefgh", 6, "abcdefgh"},
		{"empty", "", 4, "    "},
		{"multibyte", "acción", 8, "acción  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PadRight(tt.s, tt.width, Green))
		})
	}
}

func TestPadRightColorsPadding(t *testing.T) {
	resetState(t)
	forceColor()

	assert.Equal(t, "\x1b[32mab   \x1b[0m", PadRight("ab", 5, Green))
}
