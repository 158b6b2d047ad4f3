package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	testCases := []struct {
		name     string
		title    string
		expected string
	}{
		{
			name:     "simple title",
			title:    "Hello World",
			expected: "hello-world",
		},
		{
			name:     "mixed case and punctuation",
			title:    "Big News: We Launched!",
			expected: "big-news-we-launched",
		},
		{
			name:     "consecutive separators collapse",
			title:    "a  --  b",
			expected: "a-b",
		},
		{
			name:     "leading and trailing separators trimmed",
			title:    "  ...hello...  ",
			expected: "hello",
		},
		{
			name:     "digits preserved",
			title:    "Top 10 Tips for 2026",
			expected: "top-10-tips-for-2026",
		},
		{
			name:     "non-ascii dropped",
			title:    "Café Müller",
			expected: "caf-m-ller",
		},
		{
			name:     "empty title",
			title:    "",
			expected: "",
		},
		{
			name:     "only punctuation",
			title:    "!!!",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Make(tc.title))
		})
	}
}

func TestMakeCapsLength(t *testing.T) {
	long := strings.Repeat("abcde ", 100)
	s := Make(long)
	assert.LessOrEqual(t, len(s), maxLength)
	assert.False(t, strings.HasSuffix(s, "-"))
}

func TestUnique(t *testing.T) {
	t.Run("free slug returned as-is", func(t *testing.T) {
		taken := map[string]bool{}
		s := Unique("Hello World", func(c string) bool { return taken[c] })
		assert.Equal(t, "hello-world", s)
	})

	t.Run("taken slug gets a suffix", func(t *testing.T) {
		taken := map[string]bool{"hello-world": true}
		s := Unique("Hello World", func(c string) bool { return taken[c] })
		assert.NotEqual(t, "hello-world", s)
		assert.True(t, strings.HasPrefix(s, "hello-world-"))
		assert.Len(t, s, len("hello-world-")+suffixLength)
	})

	t.Run("empty title gets a random slug", func(t *testing.T) {
		s := Unique("!!!", func(string) bool { return false })
		require.NotEmpty(t, s)
		assert.Len(t, s, suffixLength)
	})
}
