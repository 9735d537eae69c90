package scan

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/ostafen/carver/internal/report"
	osutils "github.com/ostafen/carver/pkg/util/os"
)

var ErrHashMismatch = errors.New("hash mismatch")

// DumpFile copies the bytes located by e from src to outDir and checks them
// against the hash recorded in the report, if any. A file failing the check
// is removed.
func DumpFile(src io.ReaderAt, outDir string, e *report.ReportEntry) (string, error) {
	name := filepath.Base(e.Name)
	if name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid file name %q", e.Name)
	}
	path := filepath.Join(outDir, name)

	alg := e.Alg
	if alg == "" {
		alg = report.DefaultAlgorithm
	}

	h, err := alg.New()
	if err != nil {
		return "", err
	}

	err = osutils.WriteFileAtomic(path, func(w io.Writer) error {
		r := io.NewSectionReader(src, int64(e.Offset), int64(e.Size))

		n, err := io.Copy(io.MultiWriter(w, h), r)
		if err != nil {
			return err
		}
		if uint64(n) != e.Size {
			return fmt.Errorf("%w: file %q ends beyond the source", io.ErrUnexpectedEOF, name)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if e.Hash != "" {
		if actual := alg.Encode(h); actual != e.Hash {
			if err := osutils.RemoveIfExists(path); err != nil {
				return "", err
			}
			return "", fmt.Errorf("%w: %s: expected %s, got %s", ErrHashMismatch, name, e.Hash, actual)
		}
	}
	return path, nil
}
