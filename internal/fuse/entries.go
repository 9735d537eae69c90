package fuse

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/ostafen/carver/internal/report"
)

// FileEntry is a file exposed by the mounted filesystem.
type FileEntry struct {
	Name   string
	Offset uint64
	Size   uint64
}

// entryTable indexes the entries of a carve report by name.
type entryTable struct {
	byName map[string]FileEntry
	names  []string // sorted
}

func newEntryTable(entries []report.ReportEntry) (*entryTable, error) {
	t := &entryTable{byName: make(map[string]FileEntry, len(entries))}

	for _, e := range entries {
		name := filepath.Base(e.Name)
		if name != e.Name || name == "." || name == ".." {
			return nil, fmt.Errorf("invalid file name %q", e.Name)
		}
		if _, ok := t.byName[name]; ok {
			return nil, fmt.Errorf("duplicate file name %q", name)
		}

		t.byName[name] = FileEntry{Name: name, Offset: e.Offset, Size: e.Size}
		t.names = append(t.names, name)
	}
	sort.Strings(t.names)
	return t, nil
}

func (t *entryTable) lookup(name string) (FileEntry, bool) {
	e, ok := t.byName[name]
	return e, ok
}

// readEntry reads up to n bytes of e starting at off, relative to the
// beginning of the entry. Reads past the end of the entry return no data.
func readEntry(r io.ReaderAt, e FileEntry, off int64, n int) ([]byte, error) {
	if off < 0 || off >= int64(e.Size) {
		return []byte{}, nil
	}
	n = int(min(int64(n), int64(e.Size)-off))

	buf := make([]byte, n)

	read, err := r.ReadAt(buf, int64(e.Offset)+off)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return buf[:read], nil
}
