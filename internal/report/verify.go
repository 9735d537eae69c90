package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Mismatch is a manifest entry whose file does not hash to the recorded value.
type Mismatch struct {
	Entry  ManifestEntry
	Actual string // empty if the file is missing
}

func (m Mismatch) Missing() bool { return m.Actual == "" }

// Verify re-hashes the files listed in the manifest of dir. Entries are
// looked up by base name inside dir, so a dump directory can be moved.
func Verify(dir string) ([]ManifestEntry, []Mismatch, error) {
	f, err := os.Open(filepath.Join(dir, ManifestFileName))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	alg, entries, err := ReadManifest(f)
	if err != nil {
		return nil, nil, err
	}

	var mismatches []Mismatch
	for _, e := range entries {
		actual, err := HashFile(alg, filepath.Join(dir, filepath.Base(e.Path)))
		if errors.Is(err, os.ErrNotExist) {
			mismatches = append(mismatches, Mismatch{Entry: e})
			continue
		}
		if err != nil {
			return nil, nil, err
		}

		if actual != e.Hash {
			mismatches = append(mismatches, Mismatch{Entry: e, Actual: actual})
		}
	}
	return entries, mismatches, nil
}

// HashFile hashes the content of the file at path.
func HashFile(alg Algorithm, path string) (string, error) {
	h, err := alg.New()
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to read %q: %w", path, err)
	}
	return alg.Encode(h), nil
}
