//go:build linux
// +build linux

package fuse

import (
	"context"
	"io"
	"os"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
)

// CarveFS is a read-only filesystem exposing the files of a carve report as
// byte ranges of the source image.
type CarveFS struct {
	r       io.ReaderAt
	entries *entryTable
	mtime   time.Time
}

func (cfs *CarveFS) Root() (fs.Node, error) {
	return &Dir{fs: cfs}, nil
}

type Dir struct {
	fs *CarveFS
}

func (*Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = os.ModeDir | 0555
	return nil
}

func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	if e, ok := d.fs.entries.lookup(name); ok {
		return &File{fs: d.fs, entry: e}, nil
	}
	return nil, fuse.ENOENT
}

func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	dirEntries := make([]fuse.Dirent, len(d.fs.entries.names))
	for i, name := range d.fs.entries.names {
		dirEntries[i] = fuse.Dirent{
			Inode: uint64(i + 2),
			Name:  name,
			Type:  fuse.DT_File,
		}
	}
	return dirEntries, nil
}

type File struct {
	fs    *CarveFS
	entry FileEntry
}

func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = 0444
	a.Size = f.entry.Size
	a.Mtime = f.fs.mtime
	return nil
}

func (f *File) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	data, err := readEntry(f.fs.r, f.entry, req.Offset, req.Size)
	if err != nil {
		return err
	}
	resp.Data = data
	return nil
}
