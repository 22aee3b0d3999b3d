package knowledge

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateValidation(t *testing.T) {
	s := NewService(nil, nil)

	err := s.Create(context.Background(), &Document{Content: "c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")

	err = s.Create(context.Background(), &Document{Title: "t", Content: "  "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content is required")
}

func TestCreateFromUploadRejectsEmptyExtraction(t *testing.T) {
	s := NewService(nil, nil)

	_, err := s.CreateFromUpload(context.Background(), "t", "general", ".txt", []byte("   \n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text content")
}

func TestCreateFromUploadUnsupportedType(t *testing.T) {
	s := NewService(nil, nil)

	_, err := s.CreateFromUpload(context.Background(), "t", "general", ".exe", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract text")
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "short text", summarize("  short text  "))

	long := strings.Repeat("word ", 60)
	out := summarize(long)
	assert.True(t, strings.HasSuffix(out, "..."))
	assert.LessOrEqual(t, len(out), 203)
	// Cut lands on a word boundary, never mid-word.
	assert.False(t, strings.HasSuffix(strings.TrimSuffix(out, "..."), "wor"))
}
