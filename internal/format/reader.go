package format

import (
	"bufio"
	"io"
	"sync/atomic"
)

// Reader is a buffered byte reader counting the bytes it hands out. The
// count can be polled from another goroutine while a pass is running.
type Reader struct {
	r *bufio.Reader
	n atomic.Uint64
}

const DefaultBufferSize = 4 * 1024 * 1024

func NewReader(r io.Reader, bufferSize int) *Reader {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Reader{r: bufio.NewReaderSize(r, bufferSize)}
}

func (r *Reader) ReadByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err == nil {
		r.n.Add(1)
	}
	return b, err
}

func (r *Reader) Read(buf []byte) (int, error) {
	n, err := r.r.Read(buf)
	if n > 0 {
		r.n.Add(uint64(n))
	}
	return n, err
}

// BytesRead returns the number of bytes read so far.
func (r *Reader) BytesRead() uint64 {
	return r.n.Load()
}
