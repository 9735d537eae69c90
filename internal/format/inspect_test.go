package format_test

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/ostafen/carver/internal/format"
	"github.com/stretchr/testify/require"
)

// pngHeader returns the PNG signature followed by an IHDR chunk.
func pngHeader(width, height uint32) []byte {
	ihdr := make([]byte, 4+13)
	copy(ihdr, "IHDR")
	binary.BigEndian.PutUint32(ihdr[4:], width)
	binary.BigEndian.PutUint32(ihdr[8:], height)
	ihdr[12] = 8 // bit depth

	var buf bytes.Buffer
	buf.Write(pngStart)
	buf.Write(binary.BigEndian.AppendUint32(nil, 13))
	buf.Write(ihdr)
	buf.Write(binary.BigEndian.AppendUint32(nil, crc32.ChecksumIEEE(ihdr)))
	return buf.Bytes()
}

func jfifHeader() []byte {
	return concat(jpegStart, []byte{0x00, 0x10}, []byte("JFIF\x00"), []byte{0x01, 0x01, 0x00})
}

func TestClassify_JPEG(t *testing.T) {
	accepted := [][]byte{
		concat(jfifHeader(), filler(16), jpegEnd),
		concat([]byte{0xFF, 0xD8, 0xFF, 0xE1, 0x00, 0x20}, []byte("Exif\x00\x00"), filler(16), jpegEnd),
		concat([]byte{0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x43}, filler(16), jpegEnd),
		concat([]byte{0xFF, 0xD8, 0xFF, 0xE2, 0x00, 0x10}, filler(16), jpegEnd),
		// too short to hold the APP0 identifier
		{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02, 0xFF, 0xD9},
	}
	for _, data := range accepted {
		label, ok := format.Classify(data)
		require.True(t, ok, "%x", data)
		require.Equal(t, format.JPEG, label)
	}

	rejected := [][]byte{
		concat(jpegStart, bytes.Repeat([]byte{0xAB}, 32), jpegEnd),
		concat(jpegStart, []byte{0x00, 0x10}, []byte("JFIX\x00"), filler(16), jpegEnd),
		concat([]byte{0xFF, 0xD8, 0xFF, 0xE1, 0x00, 0x20}, []byte("Exit\x00\x00"), filler(16), jpegEnd),
		concat([]byte{0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x01}, filler(16), jpegEnd),
		concat([]byte{0xFF, 0xD8, 0xFF, 0x12, 0x00, 0x10}, filler(16), jpegEnd),
	}
	for _, data := range rejected {
		_, ok := format.Classify(data)
		require.False(t, ok, "%x", data)
	}
}

func TestClassify_PNG(t *testing.T) {
	label, ok := format.Classify(concat(pngHeader(640, 480), filler(8), pngEnd))
	require.True(t, ok)
	require.Equal(t, format.PNG, label)

	_, ok = format.Classify(concat(pngHeader(0, 480), pngEnd))
	require.False(t, ok)

	corrupted := pngHeader(640, 480)
	corrupted[20] ^= 0xFF
	_, ok = format.Classify(concat(corrupted, pngEnd))
	require.False(t, ok)

	_, ok = format.Classify(concat(pngStart, filler(32), pngEnd))
	require.False(t, ok)
}

func TestClassify_PDF(t *testing.T) {
	accepted := []string{
		"%PDF-1.3\n1 0 obj\nendobj\n%%EOF",
		"%PDF-1.5\r\n%\xe2\xe3\xcf\xd3\r\n%%EOF",
		"%PDF-2.0 \n%%EOF",
		"%PDF-1.10\n%%EOF",
	}
	for _, data := range accepted {
		label, ok := format.Classify([]byte(data))
		require.True(t, ok, data)
		require.Equal(t, format.PDF, label)
	}

	rejected := []string{
		"%PDF-1.3\x00\x00garbage%%EOF",
		"%PDF-1.3%%EOF",
		"%PDF-x.3\n%%EOF",
		"%PDF-1.\n%%EOF",
		"%PDF-1.5",
	}
	for _, data := range rejected {
		_, ok := format.Classify([]byte(data))
		require.False(t, ok, data)
	}
}

func TestClassifier_CustomFormatWithoutHeaderCheck(t *testing.T) {
	spec, err := format.NewFormatSpec("txt", "txt", "text", format.ByteSignature("END"),
		format.StartSignature{Bytes: format.ByteSignature("BEGIN")})
	require.NoError(t, err)

	ss, err := format.NewSignatureSet(spec)
	require.NoError(t, err)

	label, ok := format.NewClassifier(ss).Classify([]byte("BEGIN anything END"))
	require.True(t, ok)
	require.Equal(t, format.Label("txt"), label)
}
