//go:build !unix

package mmap

func Open(path string) (*File, error) {
	return nil, ErrUnsupported
}
