package fs

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ostafen/carver/internal/mmap"
	"github.com/ostafen/carver/pkg/reader"
)

// File is a read-only, size-queryable carving source.
type File interface {
	io.ReaderAt
	io.Closer
	Size() int64
	// Names returns the paths of the segments making up the source.
	Names() []string
}

type Options struct {
	// Mmap maps the segments in memory instead of reading them through
	// the file descriptor.
	Mmap bool
}

// Open opens the given paths as consecutive segments of a single source.
func Open(paths ...string) (File, error) {
	return OpenWithOptions(Options{}, paths...)
}

func OpenWithOptions(opts Options, paths ...string) (File, error) {
	if len(paths) == 0 {
		return nil, errors.New("no source file given")
	}

	segments := make([]segment, 0, len(paths))
	closeAll := func() {
		for _, s := range segments {
			s.Close()
		}
	}

	for _, path := range paths {
		s, err := openSegment(path, opts)
		if err != nil {
			closeAll()
			return nil, err
		}
		segments = append(segments, s)
	}

	if len(segments) == 1 {
		return &file{segment: segments[0], names: paths}, nil
	}

	readers := make([]io.ReaderAt, len(segments))
	sizes := make([]int64, len(segments))
	for i, s := range segments {
		readers[i] = s
		sizes[i] = s.Size()
	}

	mr, err := reader.NewMultiReaderAt(readers, sizes)
	if err != nil {
		closeAll()
		return nil, err
	}
	return &multiFile{r: mr, segments: segments, names: paths}, nil
}

type segment interface {
	io.ReaderAt
	io.Closer
	Size() int64
}

type osSegment struct {
	*os.File
	size int64
}

func (s *osSegment) Size() int64 { return s.size }

func openSegment(path string, opts Options) (segment, error) {
	if opts.Mmap {
		m, err := mmap.Open(path)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, mmap.ErrUnsupported) {
			return nil, err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source %q: %w", path, err)
	}

	finfo, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat source %q: %w", path, err)
	}
	if finfo.IsDir() {
		f.Close()
		return nil, fmt.Errorf("source %q is a directory", path)
	}
	return &osSegment{File: f, size: finfo.Size()}, nil
}

type file struct {
	segment
	names []string
}

func (f *file) Names() []string { return f.names }

type multiFile struct {
	r        *reader.MultiReaderAt
	segments []segment
	names    []string
}

func (f *multiFile) ReadAt(buf []byte, off int64) (int, error) { return f.r.ReadAt(buf, off) }
func (f *multiFile) Size() int64                               { return f.r.Size() }
func (f *multiFile) Names() []string                           { return f.names }

func (f *multiFile) Close() error {
	var errs []error
	for _, s := range f.segments {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
