package chat

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMessage(t *testing.T) {
	t.Parallel()

	t.Run("short message is untouched", func(t *testing.T) {
		t.Parallel()
		parts := SplitMessage("hello", 100)
		assert.Equal(t, []string{"hello"}, parts)
	})

	t.Run("prefers newline boundaries", func(t *testing.T) {
		t.Parallel()
		text := "first line\nsecond line\nthird line"
		parts := SplitMessage(text, 25)

		require.Len(t, parts, 2)
		assert.Equal(t, "first line\nsecond line", parts[0])
		assert.Equal(t, "third line", parts[1])
	})

	t.Run("falls back to space boundaries", func(t *testing.T) {
		t.Parallel()
		text := "alpha beta gamma delta epsilon"
		parts := SplitMessage(text, 12)

		for _, part := range parts {
			assert.LessOrEqual(t, len(part), 12)
		}
		assert.Equal(t, text, strings.Join(parts, " "))
	})

	t.Run("hard cut when no boundary exists", func(t *testing.T) {
		t.Parallel()
		text := strings.Repeat("x", 25)
		parts := SplitMessage(text, 10)

		require.Len(t, parts, 3)
		assert.Equal(t, strings.Repeat("x", 10), parts[0])
		assert.Equal(t, strings.Repeat("x", 10), parts[1])
		assert.Equal(t, strings.Repeat("x", 5), parts[2])
	})

	t.Run("zero max uses default", func(t *testing.T) {
		t.Parallel()
		parts := SplitMessage("hello", 0)
		assert.Equal(t, []string{"hello"}, parts)
	})

	t.Run("hard cut never splits a rune", func(t *testing.T) {
		t.Parallel()
		text := "ab" + strings.Repeat("日", 20)
		parts := SplitMessage(text, 10)

		for _, part := range parts {
			assert.True(t, utf8.ValidString(part), "part %q holds a broken rune", part)
			assert.LessOrEqual(t, len(part), 10)
		}
		assert.Equal(t, text, strings.Join(parts, ""))
	})
}

func TestTruncateForInline(t *testing.T) {
	t.Parallel()

	t.Run("short text passes through", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "hi", TruncateForInline("hi"))
	})

	t.Run("long text is cut with a notice", func(t *testing.T) {
		t.Parallel()
		long := strings.Repeat("a", MaxMessageLength+500)
		got := TruncateForInline(long)

		assert.LessOrEqual(t, len(got), MaxMessageLength)
		assert.Contains(t, got, "truncated")
	})

	t.Run("cut lands on a rune boundary", func(t *testing.T) {
		t.Parallel()
		long := "ab" + strings.Repeat("日", MaxMessageLength)
		got := TruncateForInline(long)

		assert.True(t, utf8.ValidString(got))
		assert.LessOrEqual(t, len(got), MaxMessageLength)
		assert.Contains(t, got, "truncated")
	})
}
