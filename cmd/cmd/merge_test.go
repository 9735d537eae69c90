package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeFiles(t *testing.T) {
	dir := t.TempDir()

	contents := [][]byte{
		{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02, 0xFF, 0xD9},
		bytes.Repeat([]byte{0xAB}, 700),
		[]byte("%PDF-1.3 body %%EOF"),
	}

	var paths []string
	for i, c := range contents {
		path := filepath.Join(dir, string(rune('a'+i))+".bin")
		require.NoError(t, os.WriteFile(path, c, 0644))
		paths = append(paths, path)
	}

	var buf bytes.Buffer
	files, n, err := MergeFiles(&buf, paths, MergeOptions{MinGap: 512, MaxGap: 2048, BlockSize: 512})
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	require.Len(t, files, len(contents))

	img := buf.Bytes()
	for i, mf := range files {
		require.Equal(t, paths[i], mf.Path)
		require.Equal(t, int64(len(contents[i])), mf.Size)
		require.Zero(t, mf.Offset%512)
		require.Equal(t, contents[i], img[mf.Offset:mf.Offset+mf.Size])

		// gaps are zero filled
		if i > 0 {
			prevEnd := files[i-1].Offset + files[i-1].Size
			require.Equal(t, make([]byte, mf.Offset-prevEnd), img[prevEnd:mf.Offset])
		}
	}
}

func TestMergeFiles_InvalidOptions(t *testing.T) {
	for _, opts := range []MergeOptions{
		{MinGap: 0, MaxGap: 10, BlockSize: 1},
		{MinGap: 20, MaxGap: 10, BlockSize: 1},
		{MinGap: 1, MaxGap: 10, BlockSize: 0},
	} {
		_, _, err := MergeFiles(&bytes.Buffer{}, nil, opts)
		require.Error(t, err)
	}
}
