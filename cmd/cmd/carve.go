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
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ostafen/carver/internal/format"
	"github.com/ostafen/carver/internal/logger"
	"github.com/ostafen/carver/internal/report"
	"github.com/ostafen/carver/internal/scan"
	fmtutil "github.com/ostafen/carver/pkg/util/format"
	"github.com/spf13/cobra"
)

func DefineCarveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "carve <image> [segments...]",
		Short: "Carve JPEG, PNG and PDF files out of a disk image",
		Long: `The 'carve' command scans a disk image byte by byte, looking for the start and
end signatures of the selected formats, and writes every file it finds to the
destination directory. Images split in several segments can be passed as
additional arguments, in order.

A manifest with the hash of every carved file (hashes.txt) and a DFXML carve
report (report.xml) are written next to the carved files.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunCarve,
	}

	cmd.Flags().StringP("dump", "d", scan.DefaultDumpDir, "directory where carved files are written")
	cmd.Flags().StringSlice("formats", nil, "formats to carve (jpeg,png,pdf); all if empty")
	cmd.Flags().String("hash", string(report.DefaultAlgorithm), "hash algorithm of the manifest (md5, sha256, sha512, blake3)")
	cmd.Flags().String("max-file-size", "0", "maximum size of a carved file; 0 means unlimited")
	cmd.Flags().String("scan-buffer-size", "4MB", "the size of the scan buffer")
	cmd.Flags().Bool("parallel", false, "run the format passes concurrently")
	cmd.Flags().Bool("mmap", false, "memory map the image instead of reading it")
	cmd.Flags().Bool("no-log", false, "disable the session log file")
	cmd.Flags().String("log-level", "info", "level of the session log (debug, info, warn, error)")
	cmd.Flags().String("config", "", "path of a YAML config file")

	return cmd
}

func RunCarve(cmd *cobra.Command, args []string) error {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err := LoadConfig(path)
		if err != nil {
			return err
		}
		if err := cfg.Apply(cmd); err != nil {
			return err
		}
	}

	opts, err := parseOptions(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	_, err = scan.Carve(ctx, args, opts, logger.New(cmd.OutOrStdout(), slog.LevelInfo))
	return err
}

func parseOptions(cmd *cobra.Command) (scan.Options, error) {
	dumpDir, _ := cmd.Flags().GetString("dump")
	parallel, _ := cmd.Flags().GetBool("parallel")
	useMmap, _ := cmd.Flags().GetBool("mmap")
	disableLog, _ := cmd.Flags().GetBool("no-log")
	logLevel, _ := cmd.Flags().GetString("log-level")

	formatNames, _ := cmd.Flags().GetStringSlice("formats")
	labels := make([]format.Label, 0, len(formatNames))
	for _, name := range formatNames {
		label, err := format.ParseLabel(name)
		if err != nil {
			return scan.Options{}, err
		}
		labels = append(labels, label)
	}

	hashName, _ := cmd.Flags().GetString("hash")
	alg, err := report.ParseAlgorithm(hashName)
	if err != nil {
		return scan.Options{}, err
	}

	maxFileSize, err := getBytes(cmd, "max-file-size")
	if err != nil {
		return scan.Options{}, err
	}

	scanBufferSize, err := getBytes(cmd, "scan-buffer-size")
	if err != nil {
		return scan.Options{}, err
	}

	return scan.Options{
		DumpDir:        dumpDir,
		Formats:        labels,
		Hash:           alg,
		MaxFileSize:    maxFileSize,
		ScanBufferSize: scanBufferSize,
		Parallel:       parallel,
		Mmap:           useMmap,
		DisableLog:     disableLog,
		LogLevel:       logger.ParseLevel(logLevel),
		Progress:       true,
	}, nil
}

func getBytes(cmd *cobra.Command, name string) (uint64, error) {
	s, _ := cmd.Flags().GetString(name)

	v, err := fmtutil.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid value for --%s: %w", name, err)
	}
	return v, nil
}
