package kb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForRuneLowercaseLetter(t *testing.T) {
	t.Parallel()

	k, ok := ForRune('a')
	require.True(t, ok)
	assert.Equal(t, "KeyA", k.Code)
	assert.Equal(t, "a", k.Key)
	assert.Equal(t, "a", k.Text)
	assert.False(t, k.Shift)
	assert.True(t, k.Print)
	assert.Equal(t, int64(65), k.Windows)
}

func TestForRuneUppercaseLetterNeedsShift(t *testing.T) {
	t.Parallel()

	k, ok := ForRune('G')
	require.True(t, ok)
	assert.Equal(t, "KeyG", k.Code)
	assert.Equal(t, "G", k.Text)
	assert.Equal(t, "g", k.Unmodified)
	assert.True(t, k.Shift)
}

func TestForRuneDigit(t *testing.T) {
	t.Parallel()

	k, ok := ForRune('7')
	require.True(t, ok)
	assert.Equal(t, "Digit7", k.Code)
	assert.False(t, k.Shift)
}

func TestForRunePunctuation(t *testing.T) {
	t.Parallel()

	k, ok := ForRune('!')
	require.True(t, ok)
	assert.Equal(t, "Digit1", k.Code)
	assert.Equal(t, "1", k.Unmodified)
	assert.True(t, k.Shift)

	k, ok = ForRune(',')
	require.True(t, ok)
	assert.Equal(t, "Comma", k.Code)
	assert.False(t, k.Shift)
}

func TestForRuneWhitespaceAliases(t *testing.T) {
	t.Parallel()

	enter, ok := ForRune('\n')
	require.True(t, ok)
	assert.Equal(t, "Enter", enter.Code)

	space, ok := ForRune(' ')
	require.True(t, ok)
	assert.Equal(t, "Space", space.Code)
}

func TestForRuneOutsideASCII(t *testing.T) {
	t.Parallel()

	_, ok := ForRune('é')
	assert.False(t, ok)
}

func TestNamedKeysTable(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"Enter", "Tab", "Escape", "Backspace", "Delete", "ArrowDown", "ArrowUp", "F5", "Home", "End"} {
		k, ok := Keys[name]
		require.True(t, ok, name)
		assert.NotEmpty(t, k.Code, name)
		assert.NotZero(t, k.Windows, name)
	}

	// Enter is printable and carries its text.
	assert.Equal(t, "\r", Keys["Enter"].Text)
	assert.True(t, Keys["Enter"].Print)
	// Escape is not printable.
	assert.False(t, Keys["Escape"].Print)
}
