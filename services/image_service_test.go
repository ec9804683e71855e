package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageStoreAndResolve(t *testing.T) {
	svc, err := NewImageService(t.TempDir(), nopLogger())
	require.NoError(t, err)

	filename, err := svc.Store(strings.NewReader("fake png bytes"), "logo.png", "questions")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "questions/"))
	assert.True(t, strings.HasSuffix(filename, ".png"))
	// Generated name, not the original.
	assert.NotContains(t, filename, "logo")

	assert.True(t, svc.Exists(filename))

	path, err := svc.Resolve(filename)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".png"))

	require.NoError(t, svc.Delete(filename))
	assert.False(t, svc.Exists(filename))
}

func TestImageResolveRejectsTraversal(t *testing.T) {
	svc, err := NewImageService(t.TempDir(), nopLogger())
	require.NoError(t, err)

	_, err = svc.Resolve("../../etc/passwd")
	assert.Error(t, err)

	_, err = svc.Resolve("missing.png")
	assert.Error(t, err)
}
