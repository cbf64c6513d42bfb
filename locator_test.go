package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestIsFITSPath(t *testing.T) {
	t.Parallel()

	assert.True(t, isFITSPath("a.fits"))
	assert.True(t, isFITSPath("a.FITS"))
	assert.True(t, isFITSPath("a.fits.gz"))
	assert.False(t, isFITSPath("a.fit"))
	assert.False(t, isFITSPath("a.txt"))
	assert.False(t, isFITSPath("a.gz"))
}

func TestLocateFITSFiles_FindsPlainAndCompressed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "a.fits")
	touch(t, dir, filepath.Join("sub", "b.fits.gz"))
	touch(t, dir, "notes.txt")
	touch(t, dir, "image.png")

	files, err := locateFITSFiles(dir, locateOptions{})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.fits", filepath.Base(files[0]))
	assert.Equal(t, "b.fits.gz", filepath.Base(files[1]))
	for _, f := range files {
		assert.True(t, filepath.IsAbs(f))
	}
}

func TestLocateFITSFiles_EmptyDirectory(t *testing.T) {
	t.Parallel()

	files, err := locateFITSFiles(t.TempDir(), locateOptions{})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestLocateFITSFiles_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := locateFITSFiles(filepath.Join(t.TempDir(), "nope"), locateOptions{})
	assert.Error(t, err)
}

func TestLocateFITSFiles_Restartable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "a.fits")
	touch(t, dir, "b.fits")

	first, err := locateFITSFiles(dir, locateOptions{})
	require.NoError(t, err)
	second, err := locateFITSFiles(dir, locateOptions{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLocateFITSFiles_SingleFileRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := touch(t, dir, "single.fits")

	files, err := locateFITSFiles(path, locateOptions{})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "single.fits", filepath.Base(files[0]))
}

func TestLocateFITSFiles_SingleNonFITSRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := touch(t, dir, "readme.txt")

	_, err := locateFITSFiles(path, locateOptions{})
	assert.Error(t, err)
}

func TestLocateFITSFiles_FitsignoreSkips(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "keep.fits")
	touch(t, dir, "skip.fits")
	touch(t, dir, filepath.Join("calib", "dark.fits"))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, ignoreFileName),
		[]byte("skip.fits\ncalib/\n"),
		0o644,
	))

	files, err := locateFITSFiles(dir, locateOptions{})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "keep.fits", filepath.Base(files[0]))

	// --no-ignore brings everything back.
	all, err := locateFITSFiles(dir, locateOptions{NoIgnore: true})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLocateByGlob(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "a.fits")
	touch(t, dir, filepath.Join("deep", "nested", "b.fits"))
	touch(t, dir, "c.txt")

	files, err := locateFITSFiles("", locateOptions{Glob: filepath.Join(dir, "**", "*.fits")})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.fits", filepath.Base(files[0]))
	assert.Equal(t, "b.fits", filepath.Base(files[1]))
}
