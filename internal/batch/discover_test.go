package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}
}

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.JPG", "a.png", "c.jpeg", "notes.txt", "d.gif")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))
	touch(t, filepath.Join(dir, "sub.png"), "nested.png")

	got, err := ListImages(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "b.JPG"),
		filepath.Join(dir, "c.jpeg"),
	}, got)
}

func TestListImages_CustomExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.png", "b.tif", "c.TIFF")

	got, err := ListImages(dir, []string{"tif", ".tiff"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.tif"), filepath.Join(dir, "c.TIFF")}, got)
}

func TestListImages_Empty(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "readme.md")
	_, err := ListImages(dir, nil)
	assert.ErrorIs(t, err, ErrNoImages)
}

func TestListImages_MissingFolder(t *testing.T) {
	_, err := ListImages(filepath.Join(t.TempDir(), "nope"), nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoImages)
}
