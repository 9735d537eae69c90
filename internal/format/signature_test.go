package format_test

import (
	"testing"

	"github.com/ostafen/carver/internal/format"
	"github.com/stretchr/testify/require"
)

func TestDefaultSignatureSet(t *testing.T) {
	ss := format.DefaultSignatureSet()
	require.Equal(t, []format.Label{format.JPEG, format.PNG, format.PDF}, ss.Labels())

	jpeg, _ := ss.Lookup(format.JPEG)
	require.Equal(t, 4, jpeg.WindowSize())
	require.Equal(t, "jpg", jpeg.Ext())

	png, _ := ss.Lookup(format.PNG)
	require.Equal(t, 8, png.WindowSize())

	pdf, _ := ss.Lookup(format.PDF)
	require.Equal(t, 8, pdf.WindowSize())
	require.Len(t, pdf.Starts(), 2)
	require.False(t, pdf.Starts()[0].SuppressFirstEnd)
	require.True(t, pdf.Starts()[1].SuppressFirstEnd)
	require.Len(t, pdf.Signatures(), 3)
}

func TestFormatSpec_Immutable(t *testing.T) {
	ss := format.DefaultSignatureSet()
	jpeg, _ := ss.Lookup(format.JPEG)

	jpeg.End()[0] = 0x00
	jpeg.Starts()[0].Bytes[0] = 0x00

	again, _ := format.DefaultSignatureSet().Lookup(format.JPEG)
	require.Equal(t, format.ByteSignature{0xFF, 0xD9}, again.End())
	require.Equal(t, format.ByteSignature{0xFF, 0xD8, 0xFF, 0xE0}, again.Starts()[0].Bytes)
}

func TestNewFormatSpec_Invalid(t *testing.T) {
	_, err := format.NewFormatSpec("x", "x", "", nil, format.StartSignature{Bytes: []byte("a")})
	require.Error(t, err)

	_, err = format.NewFormatSpec("x", "x", "", []byte("b"))
	require.Error(t, err)

	_, err = format.NewFormatSpec("x", "x", "", []byte("b"), format.StartSignature{})
	require.Error(t, err)
}

func TestSignatureSet_Select(t *testing.T) {
	ss := format.DefaultSignatureSet()

	sel, err := ss.Select(format.PDF, format.JPEG)
	require.NoError(t, err)
	require.Equal(t, []format.Label{format.JPEG, format.PDF}, sel.Labels())
	require.Equal(t, 3, ss.Len())

	_, err = ss.Select("gif")
	require.ErrorIs(t, err, format.ErrUnknownFormat)

	all, err := ss.Select()
	require.NoError(t, err)
	require.Equal(t, 3, all.Len())
}

func TestNewSignatureSet_Duplicate(t *testing.T) {
	jpeg, _ := format.DefaultSignatureSet().Lookup(format.JPEG)

	_, err := format.NewSignatureSet(jpeg, jpeg)
	require.Error(t, err)
}

func TestParseLabel(t *testing.T) {
	for in, want := range map[string]format.Label{
		"jpeg": format.JPEG,
		"JPG":  format.JPEG,
		" png": format.PNG,
		"PDF":  format.PDF,
	} {
		l, err := format.ParseLabel(in)
		require.NoError(t, err)
		require.Equal(t, want, l)
	}

	_, err := format.ParseLabel("tiff")
	require.ErrorIs(t, err, format.ErrUnknownFormat)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		data  []byte
		label format.Label
		ok    bool
	}{
		{concat(jpegStart, jpegEnd), format.JPEG, true},
		{jfifHeader(), format.JPEG, true},
		{[]byte{0xFF, 0xD8, 0xFF, 0xE1, 0x00}, format.JPEG, true},
		{concat(pngHeader(1, 1), pngEnd), format.PNG, true},
		{[]byte("%PDF-1.7\n"), format.PDF, true},
		{concat(pngStart, pngEnd), "", false},
		{concat(pdf13, pdfEnd), "", false},
		{[]byte{0x89, 0x50, 0x4E, 0x47}, "", false},
		{[]byte("GIF89a"), "", false},
		{nil, "", false},
	}

	for _, tc := range tests {
		label, ok := format.Classify(tc.data)
		require.Equal(t, tc.ok, ok, "%x", tc.data)
		require.Equal(t, tc.label, label)
	}
}
