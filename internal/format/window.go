package format

import (
	"io"
	"iter"
)

// WindowScanner slides a fixed size window over a byte stream, one byte at
// a time. The window is a fixed slice updated by shift-and-append, so every
// step costs O(size) and never allocates.
type WindowScanner struct {
	size   int
	window []byte
	n      uint64
	err    error
}

func NewWindowScanner(size int) *WindowScanner {
	size = max(size, 1)
	return &WindowScanner{
		size:   size,
		window: make([]byte, size),
	}
}

// Size returns the window length.
func (ws *WindowScanner) Size() int { return ws.size }

// Scan returns a single pass iterator of (offset, window) pairs. offset is
// the index of the byte just read and window holds the last Size() bytes
// read. Pairs are produced only once the window is full, so a stream of n
// bytes yields n-Size()+1 pairs, or none when it is shorter than the window.
//
// The window slice is reused: it is only valid until the next iteration.
func (ws *WindowScanner) Scan(r io.ByteReader) iter.Seq2[uint64, []byte] {
	return func(yield func(uint64, []byte) bool) {
		clear(ws.window)
		ws.n = 0
		ws.err = nil

		last := ws.size - 1
		for {
			b, err := r.ReadByte()
			if err != nil {
				if err != io.EOF {
					ws.err = err
				}
				return
			}

			copy(ws.window, ws.window[1:])
			ws.window[last] = b
			ws.n++

			if ws.n < uint64(ws.size) {
				continue
			}

			if !yield(ws.n-1, ws.window) {
				return
			}
		}
	}
}

// BytesRead returns the number of bytes consumed by the last scan.
func (ws *WindowScanner) BytesRead() uint64 { return ws.n }

// Err returns the first read error other than io.EOF met by the last scan.
func (ws *WindowScanner) Err() error { return ws.err }
