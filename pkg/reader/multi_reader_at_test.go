package reader

import (
	"bytes"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func split(data []byte) ([]io.ReaderAt, []int64) {
	var (
		readers []io.ReaderAt
		sizes   []int64
	)

	n := len(data)
	size := 0
	for size < n {
		sz := min(rand.Intn(1024)+1, n-size)

		readers = append(readers, bytes.NewReader(data[size:size+sz]))
		sizes = append(sizes, int64(sz))
		size += sz
	}
	return readers, sizes
}

func TestMultiReaderAtRandomReads(t *testing.T) {
	testReaderAt(t, func(data []byte) io.ReaderAt {
		r, err := NewMultiReaderAt(split(data))
		require.NoError(t, err)
		require.Equal(t, int64(len(data)), r.Size())
		return r
	})
}

func TestMultiReaderAtSectionReader(t *testing.T) {
	data := GenerateRandomBuffer(5000)

	r, err := NewMultiReaderAt(split(data))
	require.NoError(t, err)

	got, err := io.ReadAll(io.NewSectionReader(r, 0, r.Size()))
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestMultiReaderAtBounds(t *testing.T) {
	r, err := NewMultiReaderAt(
		[]io.ReaderAt{bytes.NewReader([]byte("abc")), bytes.NewReader(nil), bytes.NewReader([]byte("de"))},
		[]int64{3, 0, 2},
	)
	require.NoError(t, err)

	buf := make([]byte, 4)
	n, err := r.ReadAt(buf, 1)
	require.NoError(t, err)
	require.Equal(t, "bcde", string(buf[:n]))

	n, err = r.ReadAt(buf, 3)
	require.Equal(t, io.EOF, err)
	require.Equal(t, "de", string(buf[:n]))

	_, err = r.ReadAt(buf, 5)
	require.Equal(t, io.EOF, err)

	_, err = r.ReadAt(buf, -1)
	require.ErrorIs(t, err, ErrNegativeOffset)

	_, err = NewMultiReaderAt([]io.ReaderAt{bytes.NewReader(nil)}, nil)
	require.Error(t, err)
}
