package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: "unnamed"},
		{name: "simple filename", input: "document.pdf", expected: "document.pdf"},
		{name: "uppercase to lowercase", input: "MyNotes.PDF", expected: "mynotes.pdf"},
		{name: "spaces replaced", input: "reading list.txt", expected: "reading_list.txt"},
		{name: "special characters replaced", input: "doc@#$%file.pdf", expected: "doc_file.pdf"},
		{name: "leading and trailing underscores trimmed", input: "_notes_.md", expected: "notes_.md"},
		{name: "only special characters", input: "@#$%", expected: "unnamed"},
		{name: "long filename truncated", input: strings.Repeat("a", 300) + ".txt", expected: strings.Repeat("a", 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestGenerateFileKey(t *testing.T) {
	key := GenerateFileKey(42, "My Notes.PDF")

	assert.True(t, strings.HasPrefix(key, "42/"))
	assert.True(t, strings.HasSuffix(key, "-my_notes.pdf"))

	// Keys are unique per call
	assert.NotEqual(t, key, GenerateFileKey(42, "My Notes.PDF"))
}

func TestServiceDisabledWithoutConfig(t *testing.T) {
	s := &Service{}
	assert.False(t, s.Enabled())
}
