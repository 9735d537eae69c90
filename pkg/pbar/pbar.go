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
package pbar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ostafen/carver/pkg/util/format"
)

const MinRefreshRate = time.Millisecond * 500

// ProgressBarState holds all the data needed to render the progress of a
// carving run. With several passes over the source, TotalBytes is the sum of
// the bytes read by every pass.
type ProgressBarState struct {
	out io.Writer

	Label              string
	TotalBytes         int64
	ProcessedBytes     int64
	FilesFound         int
	StartTime          time.Time
	LastUpdateTime     time.Time
	LastProcessedBytes int64
}

func NewProgressBarState(out io.Writer, totalBytes int64) *ProgressBarState {
	now := time.Now()
	return &ProgressBarState{
		out:            out,
		TotalBytes:     totalBytes,
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Update records the current progress and renders the bar if the refresh
// interval elapsed.
func (pbs *ProgressBarState) Update(label string, processed int64, filesFound int) {
	pbs.Label = label
	pbs.ProcessedBytes = processed
	pbs.FilesFound = filesFound
	pbs.Render(false)
}

// Render prints the progress bar line. Unless force is set, it does nothing
// if the previous render happened less than MinRefreshRate ago.
func (pbs *ProgressBarState) Render(force bool) {
	elapsed := time.Since(pbs.LastUpdateTime)
	if !force && elapsed < MinRefreshRate {
		return
	}

	var percentage float64
	if pbs.TotalBytes > 0 {
		percentage = min(float64(pbs.ProcessedBytes)/float64(pbs.TotalBytes)*100, 100)
	}

	const barLength = 20

	filledLen := int(float64(barLength) * percentage / 100)
	var bar string
	if filledLen >= barLength {
		bar = strings.Repeat("=", barLength)
	} else {
		bar = strings.Repeat("=", filledLen) + ">" + strings.Repeat(" ", barLength-filledLen-1)
	}

	var currentSpeedBytesPerSec float64
	if secs := elapsed.Seconds(); secs > 0 {
		currentSpeedBytesPerSec = float64(pbs.ProcessedBytes-pbs.LastProcessedBytes) / secs
	}
	currentSpeedMBps := currentSpeedBytesPerSec / (1024 * 1024)

	var etaStr string
	if pbs.ProcessedBytes > 0 && currentSpeedBytesPerSec > 0 {
		remainingBytes := pbs.TotalBytes - pbs.ProcessedBytes
		etaSeconds := float64(remainingBytes) / currentSpeedBytesPerSec
		etaStr = fmt.Sprintf("%02d:%02d:%02d remaining",
			int(etaSeconds/3600),
			int(etaSeconds/60)%60,
			int(etaSeconds)%60)
	} else {
		etaStr = "calculating..."
	}

	pbs.LastUpdateTime = time.Now()
	pbs.LastProcessedBytes = pbs.ProcessedBytes

	// \r moves the cursor back to the beginning of the line; trailing
	// spaces clear leftovers of a previous, longer line.
	fmt.Fprintf(pbs.out, "\r[INFO] Carving %-4s [%s] %3.0f%% (%s/%s) | Files Found: %d | @ %.2fMB/s [%s]    ",
		pbs.Label,
		bar,
		percentage,
		format.FormatBytes(pbs.ProcessedBytes),
		format.FormatBytes(pbs.TotalBytes),
		pbs.FilesFound,
		currentSpeedMBps,
		etaStr)
}

// Finish renders the final state and moves to the next line.
func (pbs *ProgressBarState) Finish() {
	pbs.Render(true)
	fmt.Fprintln(pbs.out)
}
