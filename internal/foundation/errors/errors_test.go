package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError_Builder(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := WrapError(cause, CategoryFileSystem, "read source file").
		WithContext("path", "_posts/a.md").
		Fatal().
		Build()

	assert.Equal(t, CategoryFileSystem, err.Category())
	assert.Equal(t, SeverityFatal, err.Severity())
	assert.Equal(t, "read source file", err.Message())
	assert.True(t, err.IsFatal())
	assert.Same(t, cause, stderrors.Unwrap(err))
	assert.Equal(t, "[filesystem:fatal] read source file: permission denied", err.Error())

	path, ok := err.Context().GetString("path")
	require.True(t, ok)
	assert.Equal(t, "_posts/a.md", path)
}

func TestClassifiedError_WithContextDoesNotMutateOriginal(t *testing.T) {
	base := ContentError("bad front matter").Build()
	derived := base.WithContext("path", "x.md")

	_, ok := base.Context().Get("path")
	assert.False(t, ok)
	got, ok := derived.Context().GetString("path")
	require.True(t, ok)
	assert.Equal(t, "x.md", got)
}

func TestAsClassified_FindsWrappedError(t *testing.T) {
	inner := ConfigError("missing file").Build()
	wrapped := fmt.Errorf("load: %w", inner)

	got, ok := AsClassified(wrapped)
	require.True(t, ok)
	assert.Equal(t, CategoryConfig, got.Category())
	assert.True(t, HasCategory(wrapped, CategoryConfig))
	assert.Equal(t, CategoryInternal, GetCategory(stderrors.New("plain")))
	assert.True(t, stderrors.Is(wrapped, ConfigError("missing file").Build()))
}

func TestConvenienceConstructors(t *testing.T) {
	assert.Equal(t, SeverityWarning, GitError("log failed").Build().Severity())
	assert.Equal(t, SeverityFatal, BuildError("stage failed").Build().Severity())
	assert.Equal(t, SeverityError, FileSystemError("write failed").Build().Severity())
	assert.Equal(t, CategoryValidation, ValidationError("bad").Build().Category())
}
