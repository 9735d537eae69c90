//go:build !linux
// +build !linux

package fuse

import (
	"errors"
	"io"

	"github.com/ostafen/carver/internal/logger"
	"github.com/ostafen/carver/internal/report"
)

func Mount(mountpoint string, r io.ReaderAt, entries []report.ReportEntry, log *logger.Logger) error {
	return errors.New("FUSE mount is only supported on Linux")
}
