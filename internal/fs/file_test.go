package fs

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeSegments(t *testing.T, parts ...string) []string {
	t.Helper()

	dir := t.TempDir()

	paths := make([]string, len(parts))
	for i, p := range parts {
		paths[i] = filepath.Join(dir, "img.00"+string(rune('1'+i)))
		require.NoError(t, os.WriteFile(paths[i], []byte(p), 0644))
	}
	return paths
}

func TestOpen(t *testing.T) {
	for _, opts := range []Options{{}, {Mmap: true}} {
		paths := writeSegments(t, "hello ", "", "world")

		f, err := OpenWithOptions(opts, paths...)
		require.NoError(t, err)

		require.Equal(t, int64(11), f.Size())
		require.Equal(t, paths, f.Names())

		data, err := io.ReadAll(io.NewSectionReader(f, 0, f.Size()))
		require.NoError(t, err)
		require.Equal(t, "hello world", string(data))

		require.NoError(t, f.Close())
	}
}

func TestOpenSingle(t *testing.T) {
	paths := writeSegments(t, "abc")

	f, err := Open(paths[0])
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, int64(3), f.Size())
}

func TestOpenErrors(t *testing.T) {
	_, err := Open()
	require.Error(t, err)

	_, err = Open(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Open(t.TempDir())
	require.Error(t, err)
}
