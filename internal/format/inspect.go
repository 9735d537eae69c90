package format

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
)

// Header checks run by the classifier. They look at the fields that follow
// the leading signature, which the carver never matches on, so a run of
// bytes that only happens to start and end like a file is told apart from
// a real one. Fields lying past the end of the buffer are not checked.

const (
	sofMarker   = 0xc0 // Start Of Frame (Baseline Sequential).
	sof1Marker  = 0xc1 // Start Of Frame (Extended Sequential).
	sof2Marker  = 0xc2 // Start Of Frame (Progressive).
	dhtMarker   = 0xc4 // Define Huffman Table.
	dqtMarker   = 0xdb // Define Quantization Table.
	driMarker   = 0xdd // Define Restart Interval.
	app0Marker  = 0xe0
	app1Marker  = 0xe1
	app15Marker = 0xef
	comMarker   = 0xfe // COMment.
)

var (
	jfifIdent = []byte("JFIF\x00")
	jfxxIdent = []byte("JFXX\x00")
	exifIdent = []byte("Exif\x00")
	xmpIdent  = []byte("http:")
)

// inspectJPEG checks the marker following SOI and, for APP0 and APP1, the
// segment identifier.
func inspectJPEG(data []byte) bool {
	if len(data) < 4 || data[0] != 0xff || data[1] != 0xd8 || data[2] != 0xff {
		return false
	}

	marker := data[3]
	switch {
	case marker == app0Marker:
		return hasSegmentIdent(data, jfifIdent, jfxxIdent)
	case marker == app1Marker:
		return hasSegmentIdent(data, exifIdent, xmpIdent)
	case app1Marker < marker && marker <= app15Marker,
		marker == dqtMarker,
		marker == dhtMarker,
		marker == driMarker,
		marker == comMarker,
		sofMarker <= marker && marker <= sof2Marker:
		return validSegmentLength(data)
	}
	return false
}

func validSegmentLength(data []byte) bool {
	if len(data) < 6 {
		return true
	}
	return binary.BigEndian.Uint16(data[4:6]) >= 2
}

// hasSegmentIdent reports whether the first segment, whose length field is
// at data[4:6], starts with one of idents. A buffer too short to hold the
// identifier passes.
func hasSegmentIdent(data []byte, idents ...[]byte) bool {
	if !validSegmentLength(data) {
		return false
	}

	payload := data[min(len(data), 6):]
	for _, id := range idents {
		if len(payload) < len(id) || bytes.HasPrefix(payload, id) {
			return true
		}
	}
	return false
}

const (
	pngIHDRLength = 13
	// signature, chunk length, chunk type, IHDR data, CRC
	pngHeaderSize = 8 + 4 + 4 + pngIHDRLength + 4
)

// inspectPNG checks that the signature is followed by a well formed IHDR
// chunk with a matching CRC.
func inspectPNG(data []byte) bool {
	if len(data) < pngHeaderSize {
		return false
	}

	chunk := data[8:pngHeaderSize]
	if binary.BigEndian.Uint32(chunk[:4]) != pngIHDRLength || string(chunk[4:8]) != "IHDR" {
		return false
	}

	width := binary.BigEndian.Uint32(chunk[8:12])
	height := binary.BigEndian.Uint32(chunk[12:16])
	if width == 0 || height == 0 {
		return false
	}

	crc := binary.BigEndian.Uint32(chunk[8+pngIHDRLength:])
	return crc32.ChecksumIEEE(chunk[4:8+pngIHDRLength]) == crc
}

// inspectPDF checks for a "%PDF-M.m" header line.
func inspectPDF(data []byte) bool {
	rest, ok := bytes.CutPrefix(data, []byte("%PDF-"))
	if !ok {
		return false
	}

	rest, ok = cutDigits(rest)
	if !ok || len(rest) == 0 || rest[0] != '.' {
		return false
	}

	rest, ok = cutDigits(rest[1:])
	if !ok {
		return false
	}

	rest = bytes.TrimLeft(rest, " \t")
	return len(rest) > 0 && (rest[0] == '\r' || rest[0] == '\n')
}

func cutDigits(data []byte) ([]byte, bool) {
	i := 0
	for i < len(data) && '0' <= data[i] && data[i] <= '9' {
		i++
	}
	return data[i:], i > 0
}
