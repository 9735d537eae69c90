package reader

import (
	"errors"
	"fmt"
	"io"
	"sort"
)

var ErrNegativeOffset = errors.New("negative offset")

// MultiReaderAt presents a sequence of segments as a single contiguous
// io.ReaderAt, as for a raw image split into numbered files.
type MultiReaderAt struct {
	readers  []io.ReaderAt
	cumSizes []int64 // cumSizes[i] is the end offset (exclusive) of segment i
	size     int64
}

func NewMultiReaderAt(readers []io.ReaderAt, sizes []int64) (*MultiReaderAt, error) {
	if len(readers) != len(sizes) {
		return nil, fmt.Errorf("got %d readers but %d sizes", len(readers), len(sizes))
	}

	cumSizes := make([]int64, len(sizes))

	var size int64
	for i, s := range sizes {
		if s < 0 {
			return nil, fmt.Errorf("segment %d has negative size %d", i, s)
		}
		size += s
		cumSizes[i] = size
	}

	return &MultiReaderAt{
		readers:  readers,
		cumSizes: cumSizes,
		size:     size,
	}, nil
}

// Size returns the total size of all the segments.
func (r *MultiReaderAt) Size() int64 { return r.size }

func (r *MultiReaderAt) ReadAt(buf []byte, off int64) (int, error) {
	if off < 0 {
		return 0, ErrNegativeOffset
	}
	if off >= r.size {
		return 0, io.EOF
	}

	// first segment ending after off
	i := sort.Search(len(r.cumSizes), func(i int) bool {
		return r.cumSizes[i] > off
	})

	n := 0
	for n < len(buf) && i < len(r.readers) {
		var base int64
		if i > 0 {
			base = r.cumSizes[i-1]
		}

		segOff := off + int64(n) - base
		want := min(int64(len(buf)-n), r.cumSizes[i]-base-segOff)

		m, err := r.readers[i].ReadAt(buf[n:n+int(want)], segOff)
		n += m
		if err != nil && !(err == io.EOF && int64(m) == want) {
			if err == io.EOF {
				return n, io.ErrUnexpectedEOF
			}
			return n, err
		}
		i++
	}

	if n < len(buf) {
		return n, io.EOF
	}
	return n, nil
}
