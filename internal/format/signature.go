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
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownFormat = errors.New("unknown format")

// Label identifies a carvable format.
type Label string

const (
	JPEG Label = "jpeg"
	PNG  Label = "png"
	PDF  Label = "pdf"
)

func ParseLabel(s string) (Label, error) {
	switch l := Label(strings.ToLower(strings.TrimSpace(s))); l {
	case JPEG, PNG, PDF:
		return l, nil
	case "jpg":
		return JPEG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ByteSignature is a fixed sequence of bytes marking the start or the end
// of an embedded file.
type ByteSignature []byte

// Matches reports whether sig equals the trailing len(sig) bytes of window.
func (sig ByteSignature) Matches(window []byte) bool {
	if len(sig) == 0 || len(window) < len(sig) {
		return false
	}
	return bytes.Equal(window[len(window)-len(sig):], sig)
}

// StartSignature is a start marker together with the end policy of the
// candidates it opens.
type StartSignature struct {
	Bytes ByteSignature
	// SuppressFirstEnd makes the first end marker of the candidate a false
	// end: only the second one terminates it.
	SuppressFirstEnd bool
}

// FormatSpec binds a format to its signatures. A FormatSpec is never mutated
// once built: accessors hand out copies.
type FormatSpec struct {
	label  Label
	ext    string // canonical file extension, e.g. "jpg", "pdf"
	desc   string
	starts []StartSignature
	end    ByteSignature
	magic  []ByteSignature // leading bytes accepted by the classifier
	window int

	// inspect checks the header of a materialized file. Nil accepts any
	// file starting with a known signature.
	inspect func(data []byte) bool
}

func NewFormatSpec(label Label, ext, desc string, end ByteSignature, starts ...StartSignature) (FormatSpec, error) {
	if len(starts) == 0 {
		return FormatSpec{}, fmt.Errorf("format %s: at least one start signature is required", label)
	}
	if len(end) == 0 {
		return FormatSpec{}, fmt.Errorf("format %s: empty end signature", label)
	}

	spec := FormatSpec{
		label:  label,
		ext:    ext,
		desc:   desc,
		end:    bytes.Clone(end),
		window: len(end),
	}

	for _, s := range starts {
		if len(s.Bytes) == 0 {
			return FormatSpec{}, fmt.Errorf("format %s: empty start signature", label)
		}
		spec.starts = append(spec.starts, StartSignature{
			Bytes:            bytes.Clone(s.Bytes),
			SuppressFirstEnd: s.SuppressFirstEnd,
		})
		spec.window = max(spec.window, len(s.Bytes))
	}
	return spec, nil
}

func mustFormatSpec(label Label, ext, desc string, end ByteSignature, starts ...StartSignature) FormatSpec {
	spec, err := NewFormatSpec(label, ext, desc, end, starts...)
	if err != nil {
		panic(err)
	}
	return spec
}

// withMagic sets the generic leading bytes the classifier recognizes the
// format by, in addition to the start signatures.
func (s FormatSpec) withMagic(magic ...ByteSignature) FormatSpec {
	s.magic = make([]ByteSignature, len(magic))
	for i, m := range magic {
		s.magic[i] = bytes.Clone(m)
	}
	return s
}

func (s FormatSpec) withInspect(inspect func(data []byte) bool) FormatSpec {
	s.inspect = inspect
	return s
}

func (s FormatSpec) Label() Label        { return s.label }
func (s FormatSpec) Ext() string         { return s.ext }
func (s FormatSpec) Description() string { return s.desc }

// WindowSize is the length of the longest signature of the format.
func (s FormatSpec) WindowSize() int { return s.window }

func (s FormatSpec) End() ByteSignature { return bytes.Clone(s.end) }

func (s FormatSpec) Starts() []StartSignature {
	starts := make([]StartSignature, len(s.starts))
	for i, st := range s.starts {
		starts[i] = StartSignature{Bytes: bytes.Clone(st.Bytes), SuppressFirstEnd: st.SuppressFirstEnd}
	}
	return starts
}

// Signatures returns all the signatures of the format: every start
// signature followed by the end signature.
func (s FormatSpec) Signatures() []ByteSignature {
	sigs := make([]ByteSignature, 0, len(s.starts)+1)
	for _, st := range s.starts {
		sigs = append(sigs, bytes.Clone(st.Bytes))
	}
	return append(sigs, bytes.Clone(s.end))
}

// matchStart returns the start signature ending at the tail of window, if any.
func (s *FormatSpec) matchStart(window []byte) (StartSignature, bool) {
	for _, st := range s.starts {
		if st.Bytes.Matches(window) {
			return st, true
		}
	}
	return StartSignature{}, false
}

// SignatureSet is the ordered set of formats a carving run looks for.
type SignatureSet struct {
	specs []FormatSpec
}

func NewSignatureSet(specs ...FormatSpec) (*SignatureSet, error) {
	seen := make(map[Label]bool, len(specs))
	for _, s := range specs {
		if seen[s.label] {
			return nil, fmt.Errorf("duplicate format %s", s.label)
		}
		seen[s.label] = true
	}
	return &SignatureSet{specs: append([]FormatSpec(nil), specs...)}, nil
}

var (
	jpegSpec = mustFormatSpec(
		JPEG, "jpg", "JPEG/JFIF image",
		ByteSignature{0xFF, 0xD9},
		StartSignature{Bytes: ByteSignature{0xFF, 0xD8, 0xFF, 0xE0}},
	).withMagic(ByteSignature{0xFF, 0xD8, 0xFF}).withInspect(inspectJPEG)

	pngSpec = mustFormatSpec(
		PNG, "png", "Portable Network Graphics image",
		// IEND chunk type followed by its CRC, which never changes.
		ByteSignature{0x49, 0x45, 0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82},
		StartSignature{Bytes: ByteSignature{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	).withInspect(inspectPNG)

	pdfSpec = mustFormatSpec(
		PDF, "pdf", "Portable Document Format",
		ByteSignature("%%EOF"),
		StartSignature{Bytes: ByteSignature("%PDF-1.3")},
		// 1.5 documents carry an %%EOF before the cross-reference stream
		// update section; only the second one terminates the file.
		StartSignature{Bytes: ByteSignature("%PDF-1.5"), SuppressFirstEnd: true},
	).withMagic(ByteSignature("%PDF-")).withInspect(inspectPDF)
)

// DefaultSignatureSet returns the JPEG, PNG and PDF formats, in this order.
func DefaultSignatureSet() *SignatureSet {
	return &SignatureSet{specs: []FormatSpec{jpegSpec, pngSpec, pdfSpec}}
}

// Select returns a new set restricted to the given labels. The order of the
// receiver is preserved. An empty selection returns the receiver unchanged.
func (ss *SignatureSet) Select(labels ...Label) (*SignatureSet, error) {
	if len(labels) == 0 {
		return ss, nil
	}

	want := make(map[Label]bool, len(labels))
	for _, l := range labels {
		if _, ok := ss.Lookup(l); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, l)
		}
		want[l] = true
	}

	specs := make([]FormatSpec, 0, len(want))
	for _, s := range ss.specs {
		if want[s.label] {
			specs = append(specs, s)
		}
	}
	return &SignatureSet{specs: specs}, nil
}

func (ss *SignatureSet) Lookup(label Label) (FormatSpec, bool) {
	for _, s := range ss.specs {
		if s.label == label {
			return s, true
		}
	}
	return FormatSpec{}, false
}

// Formats returns the format specs in carving order.
func (ss *SignatureSet) Formats() []FormatSpec {
	return append([]FormatSpec(nil), ss.specs...)
}

func (ss *SignatureSet) Labels() []Label {
	labels := make([]Label, len(ss.specs))
	for i, s := range ss.specs {
		labels[i] = s.label
	}
	return labels
}

func (ss *SignatureSet) Len() int { return len(ss.specs) }
