package report

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/ostafen/carver/internal/env"
	"github.com/ostafen/carver/pkg/dfxml"
)

// ReportFileName is the name of the DFXML carve report written in the
// destination directory.
const ReportFileName = "report.xml"

var ErrMalformedReport = errors.New("malformed carve report")

// WriteDFXML writes the accepted records as a DFXML carve report. Each file
// object carries a single byte run locating the file in the source.
func WriteDFXML(w io.Writer, src dfxml.Source, alg Algorithm, records []Record) error {
	rw := dfxml.NewDFXMLWriter(w)

	err := rw.WriteHeader(dfxml.DFXMLHeader{
		XmlOutput: dfxml.XmlOutputVersion,
		Metadata:  dfxml.DefaultMetadata,
		Creator: dfxml.Creator{
			Package:              env.AppName,
			Version:              env.Version,
			ExecutionEnvironment: dfxml.GetExecEnv(),
		},
		Source: src,
	})
	if err != nil {
		return err
	}

	for _, rec := range records {
		if rec.Verdict != Accepted {
			continue
		}

		err := rw.WriteFileObject(dfxml.FileObject{
			Filename: filepath.Base(rec.Path),
			FileSize: rec.Size,
			ByteRuns: dfxml.ByteRuns{
				Runs: []dfxml.ByteRun{{
					Offset:    0,
					ImgOffset: rec.Start,
					Length:    rec.Size,
				}},
			},
			HashDigests: []dfxml.HashDigest{{Type: string(alg), Value: rec.Hash}},
		})
		if err != nil {
			return err
		}
	}
	return rw.Close()
}

// ReportEntry locates a file of a carve report inside the source.
type ReportEntry struct {
	Name   string
	Offset uint64
	Size   uint64
	Hash   string
	Alg    Algorithm
}

// ReadDFXML decodes the file objects of a carve report.
func ReadDFXML(r io.Reader) ([]ReportEntry, error) {
	objs, err := dfxml.ReadFileObjects(r)
	if err != nil {
		return nil, err
	}

	entries := make([]ReportEntry, 0, len(objs))
	for _, o := range objs {
		if len(o.ByteRuns.Runs) != 1 {
			return nil, fmt.Errorf("%w: file object %q has %d byte runs, expected 1",
				ErrMalformedReport, o.Filename, len(o.ByteRuns.Runs))
		}
		run := o.ByteRuns.Runs[0]

		e := ReportEntry{
			Name:   o.Filename,
			Offset: run.ImgOffset,
			Size:   run.Length,
		}
		if len(o.HashDigests) > 0 {
			alg, err := ParseAlgorithm(o.HashDigests[0].Type)
			if err == nil {
				e.Alg = alg
				e.Hash = o.HashDigests[0].Value
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}
