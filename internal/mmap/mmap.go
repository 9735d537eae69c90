package mmap

import (
	"errors"
	"io"
)

var ErrUnsupported = errors.New("memory mapping is not supported on this platform")

// File is a read-only memory mapping of a whole file.
type File struct {
	data  []byte
	close func() error
}

// ReadAt copies the mapped bytes starting at off into buf.
func (f *File) ReadAt(buf []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("mmap: negative offset")
	}
	if off >= int64(len(f.data)) {
		return 0, io.EOF
	}

	n := copy(buf, f.data[off:])
	if n < len(buf) {
		return n, io.EOF
	}
	return n, nil
}

// Size returns the length of the mapping.
func (f *File) Size() int64 { return int64(len(f.data)) }

// Bytes returns the mapped region. It must not be used after Close.
func (f *File) Bytes() []byte { return f.data }

func (f *File) Close() error {
	if f.close == nil {
		return nil
	}

	err := f.close()
	f.close = nil
	f.data = nil
	return err
}
