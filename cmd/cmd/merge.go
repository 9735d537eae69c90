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
package cmd

import (
	"bufio"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	mrand "math/rand/v2"
	"os"

	"github.com/ostafen/carver/internal/logger"
	osutils "github.com/ostafen/carver/pkg/util/os"
	"github.com/spf13/cobra"
)

func DefineMergeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <file1> <file2> ...",
		Short: "Merge multiple files into a single disk image",
		Long: `The 'merge' command combines multiple files into a single flat disk image.
This is useful for testing the carver with known, reproducible data.
Files are concatenated in the order given, separated by gaps of random size.
Directories are expanded to the regular files they contain.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunMerge,
	}

	cmd.Flags().StringP("output", "o", "", "Path to the output disk image file (required)")
	cmd.Flags().Int("min-gap", 4*1024, "minimum gap size in bytes between files")
	cmd.Flags().Int("max-gap", 512*1024, "maximum gap size in bytes between files")
	cmd.Flags().Int("block-size", 512, "block size in bytes")
	cmd.Flags().Bool("random-gaps", false, "fill gaps with random bytes instead of zeros")

	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// MergeOptions controls the layout of a merged image.
type MergeOptions struct {
	MinGap     int
	MaxGap     int
	BlockSize  int
	RandomGaps bool
}

func (opts MergeOptions) validate() error {
	if opts.MinGap <= 0 {
		return fmt.Errorf("min-gap must be greater than 0")
	}
	if opts.MinGap > opts.MaxGap {
		return fmt.Errorf("min-gap (%d) cannot be greater than max-gap (%d)", opts.MinGap, opts.MaxGap)
	}
	if opts.BlockSize <= 0 {
		return fmt.Errorf("block size must be greater than 0")
	}
	return nil
}

// MergedFile is the position of a file inside a merged image.
type MergedFile struct {
	Path   string
	Offset int64
	Size   int64
}

func RunMerge(cmd *cobra.Command, args []string) error {
	filePaths := make([]string, 0, len(args))
	for _, arg := range args {
		paths, err := osutils.ListFiles(arg)
		if err != nil {
			return err
		}
		filePaths = append(filePaths, paths...)
	}

	out, _ := cmd.Flags().GetString("output")

	var opts MergeOptions
	opts.MinGap, _ = cmd.Flags().GetInt("min-gap")
	opts.MaxGap, _ = cmd.Flags().GetInt("max-gap")
	opts.BlockSize, _ = cmd.Flags().GetInt("block-size")
	opts.RandomGaps, _ = cmd.Flags().GetBool("random-gaps")

	if err := opts.validate(); err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	logger := logger.New(cmd.OutOrStdout(), slog.LevelInfo)

	logger.Infof("Merging %d files into %s", len(filePaths), out)

	w := bufio.NewWriter(f)

	files, bytesWritten, err := MergeFiles(w, filePaths, opts)
	if err != nil {
		return err
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("error flushing writer: %w", err)
	}

	for _, mf := range files {
		logger.Infof("%s: offset %d, %d bytes", mf.Path, mf.Offset, mf.Size)
	}
	logger.Infof("Merging successfully completed. %d bytes written.", bytesWritten)
	return nil
}

// MergeFiles writes the files at paths to w. Every file is preceded by a gap
// and starts at a block boundary.
func MergeFiles(w io.Writer, paths []string, opts MergeOptions) ([]MergedFile, int64, error) {
	if err := opts.validate(); err != nil {
		return nil, 0, err
	}

	gapSrc := io.Reader(zeroReader{})
	if opts.RandomGaps {
		gapSrc = rand.Reader
	}

	nextGap := func() int64 {
		gapSize := opts.MinGap + mrand.IntN(opts.MaxGap-opts.MinGap+1)
		return int64(max(1, gapSize/opts.BlockSize) * opts.BlockSize)
	}

	files := make([]MergedFile, 0, len(paths))

	bytesWritten := int64(0)
	gapSize := nextGap()
	for _, path := range paths {
		if _, err := io.CopyN(w, gapSrc, gapSize); err != nil {
			return nil, 0, err
		}
		bytesWritten += gapSize

		nCopied, err := osutils.CopyFile(w, path)
		if err != nil {
			return nil, 0, err
		}
		files = append(files, MergedFile{Path: path, Offset: bytesWritten, Size: nCopied})
		bytesWritten += nCopied

		// the next file starts at a block boundary
		gapSize = nextGap()
		if rem := nCopied % int64(opts.BlockSize); rem != 0 {
			gapSize += int64(opts.BlockSize) - rem
		}
	}
	return files, bytesWritten, nil
}

type zeroReader struct{}

func (zeroReader) Read(buf []byte) (int, error) {
	clear(buf)
	return len(buf), nil
}
