package ascii

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBox(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "single line",
			lines: []string{"Hello"},
			want:  "┌───────┐\n│ Hello │\n└───────┘\n",
		},
		{
			name:  "multiple lines",
			lines: []string{"Line 1", "Longer line here", "Short"},
			want: "┌──────────────────┐\n" +
				"│ Line 1           │\n" +
				"│ Longer line here │\n" +
				"│ Short            │\n" +
				"└──────────────────┘\n",
		},
		{
			name:  "wide runes",
			lines: []string{"Curso 数学", "Topics: 3"},
			want: "┌────────────┐\n" +
				"│ Curso 数学 │\n" +
				"│ Topics: 3  │\n" +
				"└────────────┘\n",
		},
		{
			name:  "trailing spaces trimmed",
			lines: []string{"abc   "},
			want:  "┌─────┐\n│ abc │\n└─────┘\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Box(tt.lines))
		})
	}
}

func TestBoxEmpty(t *testing.T) {
	assert.Equal(t, "", Box(nil))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		width    int
		expected string
	}{
		{"no truncation", "Hello", 10, "Hello"},
		{"truncation", "This is a very long string", 10, "This is..."},
		{"exact width", "Hello", 5, "Hello"},
		{"width too small", "Hello", 2, "He"},
		{"zero width", "Hello", 0, ""},
		{"wide runes", "数学数学数学", 7, "数学..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.value, tt.width))
		})
	}
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", PadRight("ab", 5))
	assert.Equal(t, "数  ", PadRight("数", 4))
	assert.Equal(t, "abcdef", PadRight("abcdef", 3))
	assert.Equal(t, 4, StringWidth("数学"))
}
