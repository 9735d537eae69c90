// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package scan

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ostafen/carver/internal/format"
	"github.com/ostafen/carver/internal/fs"
	"github.com/ostafen/carver/internal/logger"
	"github.com/ostafen/carver/internal/report"
	"github.com/ostafen/carver/pkg/dfxml"
	"github.com/ostafen/carver/pkg/pbar"
	fmtutil "github.com/ostafen/carver/pkg/util/format"
	osutils "github.com/ostafen/carver/pkg/util/os"
	"golang.org/x/sync/errgroup"
)

const DefaultDumpDir = "carved"

type Options struct {
	DumpDir        string
	Formats        []format.Label
	Hash           report.Algorithm
	MaxFileSize    uint64
	ScanBufferSize uint64
	Parallel       bool
	Mmap           bool
	DisableLog     bool
	LogLevel       slog.Level
	Progress       bool
}

// FormatCount is the number of accepted files of a format.
type FormatCount struct {
	Format format.Label
	Files  int
}

type Result struct {
	Records      []report.Record // accepted records, in manifest order
	Counts       []FormatCount   // in carving order
	Rejected     int
	BytesScanned uint64
	ManifestPath string
	ReportPath   string
	LogPath      string
	Duration     time.Duration
}

// pass is a full read of the source looking for a single format.
type pass struct {
	spec    format.FormatSpec
	reader  *format.Reader
	records []report.Record
	stats   format.CarverStats
}

type carveRun struct {
	opts      Options
	src       fs.File
	logger    *slog.Logger
	reporter  *report.Reporter
	validator *Validator
	found     atomic.Int64
}

// Carve recovers the files of the selected formats from the source made of
// the given paths. Every format is carved by its own pass over the source.
// Carved files are written to opts.DumpDir along with the manifest, the
// DFXML carve report and, unless disabled, the session log.
//
// Any source read error aborts the run before the manifest is written.
func Carve(ctx context.Context, paths []string, opts Options, console *logger.Logger) (*Result, error) {
	if console == nil {
		console = logger.New(io.Discard, slog.LevelInfo)
	}
	if opts.DumpDir == "" {
		opts.DumpDir = DefaultDumpDir
	}
	if opts.Hash == "" {
		opts.Hash = report.DefaultAlgorithm
	}

	ss, err := format.DefaultSignatureSet().Select(opts.Formats...)
	if err != nil {
		return nil, err
	}

	src, err := fs.OpenWithOptions(fs.Options{Mmap: opts.Mmap}, paths...)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if _, err := osutils.EnsureDir(opts.DumpDir, false); err != nil {
		return nil, err
	}

	session := GenSessionID()

	var logFilePath string
	if !opts.DisableLog {
		logFilePath = absPath(filepath.Join(opts.DumpDir, session) + ".log")
	}

	slogger, logFile, err := logger.NewFileLogger(logFilePath, opts.LogLevel)
	if err != nil {
		return nil, err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	reporter, err := report.NewReporter(opts.DumpDir, opts.Hash, slogger)
	if err != nil {
		return nil, err
	}

	absPaths := make([]string, len(paths))
	for i, p := range paths {
		absPaths[i] = absPath(p)
	}

	console.Info("Starting carving operation...")
	console.Infof("Source: \t%s (%s)", strings.Join(absPaths, ", "), fmtutil.FormatBytes(src.Size()))
	console.Infof("File Types: \t%s", joinLabels(ss.Labels()))
	console.Infof("Destination: \t%s", absPath(opts.DumpDir))
	console.Infof("Hash: \t\t%s", opts.Hash)

	outLog := "disabled"
	if logFilePath != "" {
		outLog = logFilePath
	}
	console.Infof("Output Log: \t%s", outLog)

	slogger.Info("carving started",
		"source", strings.Join(absPaths, ","),
		"size", src.Size(),
		"formats", joinLabels(ss.Labels()),
		"parallel", opts.Parallel,
	)

	run := &carveRun{
		opts:      opts,
		src:       src,
		logger:    slogger,
		reporter:  reporter,
		validator: NewValidator(format.NewClassifier(format.DefaultSignatureSet()), slogger),
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Readers are set up before the progress goroutine starts polling them.
	bufSize := int(min(opts.ScanBufferSize, uint64(format.DefaultBufferSize)))
	passes := make([]*pass, 0, ss.Len())
	for _, spec := range ss.Formats() {
		section := io.NewSectionReader(src, 0, src.Size())
		passes = append(passes, &pass{
			spec:   spec,
			reader: format.NewReader(&contextReader{ctx: ctx, r: section}, bufSize),
		})
	}

	start := time.Now()

	stopProgress := run.startProgress(console, passes)
	err = run.carve(passes, cancel)
	stopProgress()

	if err != nil {
		slogger.Error("carving aborted", "err", err)
		return nil, err
	}

	res := &Result{LogPath: logFilePath}
	for _, p := range passes {
		for _, rec := range p.records {
			if rec.Verdict != report.Accepted {
				res.Rejected++
			}
			reporter.Add(rec)
		}
		res.BytesScanned += p.reader.BytesRead()

		slogger.Debug("pass completed",
			"format", p.spec.Label(),
			"opened", p.stats.Opened,
			"emitted", p.stats.Emitted,
			"superseded", p.stats.Superseded,
			"suppressed", p.stats.Suppressed,
			"abandoned", p.stats.Abandoned,
			"truncated", p.stats.Truncated,
		)
	}

	if err := reporter.Flush(); err != nil {
		return nil, err
	}
	res.ManifestPath = reporter.ManifestPath()

	res.ReportPath = filepath.Join(opts.DumpDir, report.ReportFileName)
	err = osutils.WriteFileAtomic(res.ReportPath, func(w io.Writer) error {
		source := dfxml.Source{ImageFilenames: absPaths, ImageSize: uint64(src.Size())}
		return report.WriteDFXML(w, source, opts.Hash, reporter.Records())
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write carve report: %w", err)
	}

	res.Records = reporter.Records()
	for _, label := range ss.Labels() {
		res.Counts = append(res.Counts, FormatCount{Format: label, Files: reporter.Count(label)})
	}
	res.Duration = time.Since(start)

	printSummary(console, res)
	return res, nil
}

// carve runs the passes. In parallel mode the first failing pass cancels
// the others through cancel.
func (run *carveRun) carve(passes []*pass, cancel context.CancelFunc) error {
	if !run.opts.Parallel {
		for _, p := range passes {
			if err := run.runPass(p); err != nil {
				return err
			}
		}
		return nil
	}

	// Passes share nothing but the source, which is only accessed through
	// ReadAt, and write files with distinct names.
	var g errgroup.Group
	for _, p := range passes {
		g.Go(func() error {
			err := run.runPass(p)
			if err != nil {
				cancel()
			}
			return err
		})
	}
	return g.Wait()
}

func (run *carveRun) runPass(p *pass) error {
	label := p.spec.Label()

	c := format.NewCarver(p.spec,
		format.WithLogger(run.logger.With("format", label)),
		format.WithMaxFileSize(run.opts.MaxFileSize),
	)

	index := 0
	for f := range c.Carve(p.reader) {
		path, hash, err := run.reporter.Write(&f, index)
		if err != nil {
			return err
		}
		index++

		verdict, err := run.validator.Validate(path, f.Format, f.Data)
		if err != nil {
			return err
		}

		rec := report.Record{
			Format:  f.Format,
			Size:    f.Size(),
			Start:   f.Start,
			End:     f.End,
			Path:    path,
			Verdict: verdict,
		}
		if verdict == report.Accepted {
			rec.Hash = hash
			run.found.Add(1)
		}
		p.records = append(p.records, rec)
	}

	p.stats = c.Stats()
	if err := c.Err(); err != nil {
		return fmt.Errorf("failed to read source during %s pass: %w", label, err)
	}
	return nil
}

// startProgress renders the progress bar until the returned function is
// called.
func (run *carveRun) startProgress(console *logger.Logger, passes []*pass) func() {
	if !run.opts.Progress {
		return func() {}
	}

	pbs := pbar.NewProgressBarState(console.Writer(), run.src.Size()*int64(len(passes)))

	update := func() {
		var (
			processed int64
			current   string
		)
		for _, p := range passes {
			n := int64(p.reader.BytesRead())
			processed += n
			if current == "" && n < run.src.Size() {
				current = string(p.spec.Label())
			}
		}
		pbs.Update(current, processed, int(run.found.Load()))
	}

	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)

		ticker := time.NewTicker(pbar.MinRefreshRate)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				update()
				pbs.Finish()
				return
			case <-ticker.C:
				update()
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}

func printSummary(console *logger.Logger, res *Result) {
	for _, rec := range res.Records {
		console.Infof("Found %s: %s (%d bytes), offsets [%d, %d] -> %s",
			strings.ToUpper(string(rec.Format)),
			fmtutil.FormatBytes(int64(rec.Size)),
			rec.Size,
			rec.Start,
			rec.End,
			rec.Path,
		)
	}

	console.Info("Carving completed!")
	for _, c := range res.Counts {
		console.Infof("%s files: \t%d", strings.ToUpper(string(c.Format)), c.Files)
	}
	if res.Rejected > 0 {
		console.Warnf("Rejected: \t%d", res.Rejected)
	}
	console.Infof("Data scanned: \t%s", fmtutil.FormatBytes(int64(res.BytesScanned)))
	console.Infof("Duration: \t%s", FormatDurationHMS(res.Duration))
	console.Infof("Manifest saved to: \t%s", absPath(res.ManifestPath))
	console.Infof("Report saved to: \t%s", absPath(res.ReportPath))

	if res.LogPath != "" {
		console.Infof("Detailed carve log: \t%s", res.LogPath)
	}
}

// contextReader stops reading once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *contextReader) Read(buf []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(buf)
}

func joinLabels(labels []format.Label) string {
	s := make([]string, len(labels))
	for i, l := range labels {
		s[i] = string(l)
	}
	return strings.Join(s, ",")
}

func absPath(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

// GenSessionID creates a unique name for a carving session.
// The format is "YYYYMMDD_HHMMSS".
func GenSessionID() string {
	return time.Now().Format("20060102_150405")
}

// FormatDurationHMS formats a time.Duration into HH:MM:SS string.
// It handles durations that might be less than an hour or greater than 24 hours.
func FormatDurationHMS(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	totalSeconds := int64(d.Seconds())

	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
