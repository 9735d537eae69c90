package report

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/ostafen/carver/internal/format"
	osutils "github.com/ostafen/carver/pkg/util/os"
)

// Reporter writes carved files to the destination directory, hashes them,
// and keeps the records of the accepted ones until Flush.
// Write may be called concurrently for distinct files; Add and Flush must be
// called by a single goroutine.
type Reporter struct {
	dir     string
	alg     Algorithm
	logger  *slog.Logger
	records []Record
	counts  map[format.Label]int
}

func NewReporter(dir string, alg Algorithm, logger *slog.Logger) (*Reporter, error) {
	if _, err := alg.New(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Reporter{
		dir:    dir,
		alg:    alg,
		logger: logger,
		counts: make(map[format.Label]int),
	}, nil
}

// FileName returns the name of the index-th file of a format pass.
func FileName(f *format.CarvedFile, index int) string {
	return fmt.Sprintf("%s_file_%d.%s", f.Format, index, f.Ext)
}

// Write stores f as the index-th file of its pass and returns the path it
// was written to and the hash of the bytes written.
func (r *Reporter) Write(f *format.CarvedFile, index int) (string, string, error) {
	h, err := r.alg.New()
	if err != nil {
		return "", "", err
	}

	path := filepath.Join(r.dir, FileName(f, index))

	err = osutils.WriteFileAtomic(path, func(w io.Writer) error {
		_, err := io.MultiWriter(w, h).Write(f.Data)
		return err
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to write %q: %w", path, err)
	}
	return path, r.alg.Encode(h), nil
}

// Add appends a record. Rejected records are counted in the logs only and
// never reach the manifest.
func (r *Reporter) Add(rec Record) {
	if rec.Verdict != Accepted {
		r.logger.Debug("dropping rejected record", "path", rec.Path, "format", rec.Format)
		return
	}

	r.records = append(r.records, rec)
	r.counts[rec.Format]++

	r.logger.Info("file carved",
		"format", rec.Format,
		"size", rec.Size,
		"start", rec.Start,
		"end", rec.End,
		"path", rec.Path,
		"hash", rec.Hash,
	)
}

// Records returns the accepted records in the order they were added.
func (r *Reporter) Records() []Record {
	return append([]Record(nil), r.records...)
}

// Count returns the number of accepted files of the given format.
func (r *Reporter) Count(label format.Label) int {
	return r.counts[label]
}

// ManifestPath returns the path of the manifest in the destination directory.
func (r *Reporter) ManifestPath() string {
	return filepath.Join(r.dir, ManifestFileName)
}

// Flush writes the manifest of all the accepted records. The manifest is
// replaced atomically, so it is never left half written.
func (r *Reporter) Flush() error {
	path := r.ManifestPath()

	err := osutils.WriteFileAtomic(path, func(w io.Writer) error {
		return WriteManifest(w, r.alg, r.records)
	})
	if err != nil {
		return fmt.Errorf("failed to write manifest %q: %w", path, err)
	}

	r.logger.Info("manifest written", "path", path, "files", len(r.records))
	return nil
}
