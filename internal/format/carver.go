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
package format

import (
	"bytes"
	"io"
	"iter"
	"log/slog"
)

// candidateState tracks how close the open candidate is to being closed.
type candidateState uint8

const (
	// stateIdle means no candidate is open.
	stateIdle candidateState = iota
	// stateAwaitingFirstEnd means the next end marker is a false end and
	// must be skipped.
	stateAwaitingFirstEnd
	// stateAwaitingTerminalEnd means the next end marker closes the candidate.
	stateAwaitingTerminalEnd
)

func (s candidateState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateAwaitingFirstEnd:
		return "awaiting-first-end"
	case stateAwaitingTerminalEnd:
		return "awaiting-terminal-end"
	}
	return "unknown"
}

// CarvedFile is a byte range of the source recognized as an embedded file.
type CarvedFile struct {
	Format Label
	Ext    string
	Data   []byte
	Start  uint64 // Offset of the first byte of the start signature
	End    uint64 // Offset of the last byte of the end signature
}

// Size returns the length of the carved file in bytes.
func (f *CarvedFile) Size() uint64 { return f.End - f.Start + 1 }

// CarverStats counts what happened to the candidates of a pass.
type CarverStats struct {
	Opened     int // start signatures matched
	Emitted    int // candidates closed by an end signature
	Superseded int // candidates discarded because a new start signature was found
	Suppressed int // false end markers skipped
	Abandoned  int // candidates discarded for exceeding the max file size
	Truncated  int // candidates still open at the end of the stream
}

// Carver carves the files of a single format out of a byte stream. A
// Carver holds at most one open candidate: a new start signature always
// supersedes the open one.
type Carver struct {
	spec        FormatSpec
	logger      *slog.Logger
	maxFileSize uint64
	ws          *WindowScanner

	state candidateState
	buf   bytes.Buffer
	start uint64
	stats CarverStats
}

type CarverOption func(*Carver)

func WithLogger(logger *slog.Logger) CarverOption {
	return func(c *Carver) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxFileSize abandons candidates growing beyond n bytes. Zero means
// no limit.
func WithMaxFileSize(n uint64) CarverOption {
	return func(c *Carver) {
		c.maxFileSize = n
	}
}

func NewCarver(spec FormatSpec, opts ...CarverOption) *Carver {
	c := &Carver{
		spec:   spec,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		ws:     NewWindowScanner(spec.WindowSize()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Carver) Format() FormatSpec { return c.spec }

// Carve scans r until EOF and yields the carved files in ascending start
// offset order. Each yielded file owns its data.
// Once the iteration ends, Err reports whether the stream was fully read.
func (c *Carver) Carve(r io.ByteReader) iter.Seq[CarvedFile] {
	return func(yield func(CarvedFile) bool) {
		c.reset()

		for off, window := range c.ws.Scan(r) {
			f, ok := c.step(off, window)
			if ok && !yield(f) {
				return
			}
		}

		if c.state != stateIdle {
			c.stats.Truncated++
			c.logger.Debug("discarding unterminated candidate",
				"format", c.spec.label,
				"start", c.start,
				"size", c.buf.Len(),
			)
			c.discard()
		}
	}
}

func (c *Carver) step(off uint64, window []byte) (CarvedFile, bool) {
	var (
		f       CarvedFile
		emitted bool
	)

	if c.state != stateIdle {
		c.buf.WriteByte(window[len(window)-1])

		if c.maxFileSize > 0 && uint64(c.buf.Len()) > c.maxFileSize {
			c.stats.Abandoned++
			c.logger.Debug("abandoning candidate exceeding max file size",
				"format", c.spec.label,
				"start", c.start,
				"max", c.maxFileSize,
			)
			c.discard()
		}
	}

	if c.state != stateIdle && c.spec.end.Matches(window) {
		switch c.state {
		case stateAwaitingFirstEnd:
			c.stats.Suppressed++
			c.state = stateAwaitingTerminalEnd

			c.logger.Debug("skipping first end marker",
				"format", c.spec.label,
				"start", c.start,
				"offset", off,
			)
		case stateAwaitingTerminalEnd:
			f = CarvedFile{
				Format: c.spec.label,
				Ext:    c.spec.ext,
				Data:   bytes.Clone(c.buf.Bytes()),
				Start:  c.start,
				End:    off,
			}
			emitted = true
			c.stats.Emitted++
			c.discard()
		}
	}

	// The start check runs after the end check, so a byte closing a
	// candidate can also open the next one.
	if st, ok := c.spec.matchStart(window); ok {
		if c.state != stateIdle {
			c.stats.Superseded++
			c.logger.Debug("start signature supersedes open candidate",
				"format", c.spec.label,
				"start", c.start,
				"offset", off,
			)
		}
		c.open(off, window, st)
	}
	return f, emitted
}

func (c *Carver) open(off uint64, window []byte, st StartSignature) {
	n := len(st.Bytes)

	c.buf.Reset()
	c.buf.Write(window[len(window)-n:])
	c.start = off - uint64(n) + 1
	c.stats.Opened++

	// The state is always reset here, so a suppression never leaks into
	// the next candidate.
	if st.SuppressFirstEnd {
		c.state = stateAwaitingFirstEnd
	} else {
		c.state = stateAwaitingTerminalEnd
	}
}

func (c *Carver) discard() {
	c.state = stateIdle
	c.start = 0
	c.buf.Reset()
}

func (c *Carver) reset() {
	c.discard()
	c.stats = CarverStats{}
}

// Stats returns the candidate counters of the last pass.
func (c *Carver) Stats() CarverStats { return c.stats }

// BytesRead returns the number of bytes consumed by the last pass.
func (c *Carver) BytesRead() uint64 { return c.ws.BytesRead() }

// Err returns the read error that interrupted the last pass, if any.
func (c *Carver) Err() error { return c.ws.Err() }
