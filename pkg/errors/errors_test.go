package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapAndCode(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodeEmbeddingError, "embed query", cause)

	require.EqualError(t, err, "embed query: connection refused")
	require.True(t, IsCode(err, CodeEmbeddingError))
	require.ErrorIs(t, err, cause)

	outer := fmt.Errorf("compare: %w", err)
	require.Equal(t, CodeEmbeddingError, CodeOf(outer))
}

func TestCodeOfPlainError(t *testing.T) {
	require.Equal(t, "", CodeOf(errors.New("plain")))
	require.False(t, IsCode(nil, CodeFAQError))
	require.EqualError(t, Wrap(CodeInvalidInput, "question cannot be empty", nil), "question cannot be empty")
}
