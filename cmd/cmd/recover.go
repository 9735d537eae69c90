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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ostafen/carver/internal/fs"
	"github.com/ostafen/carver/internal/logger"
	"github.com/ostafen/carver/internal/scan"
	osutils "github.com/ostafen/carver/pkg/util/os"
	"github.com/spf13/cobra"
)

func DefineRecoverCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover <image_path> [segments...] <report_file>",
		Short: "Recover files from a disk image using a carve report",
		Long: `The 'recover' command extracts files from a disk image based on the information provided in a carve report (report.xml).
Each recovered file is checked against the hash recorded in the report.
You must provide the path to the image file, or to its segments in order, followed by the report file.`,
		Args:         cobra.MinimumNArgs(2),
		SilenceUsage: true,
		RunE:         RunRecover,
	}
	cmd.Flags().StringP("output-dir", "o", "", "Path of the directory where recovered data will be placed.")
	return cmd
}

func RunRecover(cmd *cobra.Command, args []string) error {
	imagePaths, reportPath := args[:len(args)-1], args[len(args)-1]

	f, err := fs.Open(imagePaths...)
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := readReport(reportPath)
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("output-dir")
	if outDir == "" {
		wdir, err := os.Getwd()
		if err != nil {
			return err
		}

		base := filepath.Base(reportPath)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		outDir = filepath.Join(wdir, name+"-dump")
	}

	if _, err := osutils.EnsureDir(outDir, true); err != nil {
		return err
	}

	logger := logger.New(cmd.OutOrStdout(), slog.LevelInfo)

	failed := 0
	for i := range entries {
		path, err := scan.DumpFile(f, outDir, &entries[i])
		if errors.Is(err, scan.ErrHashMismatch) {
			logger.Warnf("discarding file %s: %s", entries[i].Name, err)
			failed++
			continue
		}
		if err != nil {
			logger.Errorf("unable to recover file %s: %s", entries[i].Name, err)
			failed++
			continue
		}
		logger.Infof("recovered file %s", path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be recovered intact", failed, len(entries))
	}
	return nil
}
