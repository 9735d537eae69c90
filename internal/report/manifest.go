package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ManifestFileName is the name of the manifest written in the destination
// directory.
const ManifestFileName = "hashes.txt"

const (
	manifestHeaderPrefix = "# carved file hashes"
	manifestSep          = " -> "
)

var ErrMalformedManifest = errors.New("malformed manifest")

// ManifestEntry is a line of the manifest.
type ManifestEntry struct {
	Path string
	Hash string
}

// WriteManifest writes a header line followed by one "{path} -> {hash}"
// line per accepted record.
func WriteManifest(w io.Writer, alg Algorithm, records []Record) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%s (%s)\n", manifestHeaderPrefix, alg); err != nil {
		return err
	}

	for _, rec := range records {
		if rec.Verdict != Accepted {
			continue
		}
		if _, err := fmt.Fprintf(bw, "%s%s%s\n", rec.Path, manifestSep, rec.Hash); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadManifest parses a manifest, returning the hash algorithm named in its
// header and its entries in file order.
func ReadManifest(r io.Reader) (Algorithm, []ManifestEntry, error) {
	sc := bufio.NewScanner(r)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", nil, err
		}
		return "", nil, fmt.Errorf("%w: missing header", ErrMalformedManifest)
	}

	alg, err := parseManifestHeader(sc.Text())
	if err != nil {
		return "", nil, err
	}

	var entries []ManifestEntry
	for line := 2; sc.Scan(); line++ {
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		idx := strings.LastIndex(text, manifestSep)
		if idx <= 0 {
			return "", nil, fmt.Errorf("%w: line %d: %q", ErrMalformedManifest, line, text)
		}

		e := ManifestEntry{
			Path: text[:idx],
			Hash: text[idx+len(manifestSep):],
		}
		if err := alg.Validate(e.Hash); err != nil {
			return "", nil, fmt.Errorf("%w: line %d: %w", ErrMalformedManifest, line, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return "", nil, err
	}
	return alg, entries, nil
}

func parseManifestHeader(header string) (Algorithm, error) {
	rest, ok := strings.CutPrefix(header, manifestHeaderPrefix)
	if !ok {
		return "", fmt.Errorf("%w: unexpected header %q", ErrMalformedManifest, header)
	}

	rest = strings.TrimSpace(rest)
	rest = strings.TrimSuffix(strings.TrimPrefix(rest, "("), ")")

	alg, err := ParseAlgorithm(rest)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedManifest, err)
	}
	return alg, nil
}
