package dfxml

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	w := NewDFXMLWriter(&buf)
	require.NoError(t, w.WriteHeader(DFXMLHeader{
		XmlOutput: XmlOutputVersion,
		Metadata:  DefaultMetadata,
		Creator:   Creator{Package: "carver", Version: "test"},
		Source: Source{
			ImageFilenames: []string{"disk.001", "disk.002"},
			ImageSize:      4096,
		},
	}))

	objs := []FileObject{
		{
			Filename: "jpeg_file_0.jpg",
			FileSize: 8,
			ByteRuns: ByteRuns{Runs: []ByteRun{{Offset: 0, ImgOffset: 16, Length: 8}}},
			HashDigests: []HashDigest{
				{Type: "md5", Value: "0123456789abcdef0123456789abcdef"},
			},
		},
		{
			Filename: "pdf_file_0.pdf",
			FileSize: 100,
			ByteRuns: ByteRuns{Runs: []ByteRun{{Offset: 0, ImgOffset: 512, Length: 100}}},
		},
	}
	for _, o := range objs {
		require.NoError(t, w.WriteFileObject(o))
	}
	require.NoError(t, w.Close())

	got, err := ReadFileObjects(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.Equal(t, "jpeg_file_0.jpg", got[0].Filename)
	require.Equal(t, uint64(16), got[0].ByteRuns.Runs[0].ImgOffset)

	d, ok := got[0].Digest("md5")
	require.True(t, ok)
	require.Equal(t, "0123456789abcdef0123456789abcdef", d)

	_, ok = got[1].Digest("md5")
	require.False(t, ok)

	src, err := ReadSource(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, []string{"disk.001", "disk.002"}, src.ImageFilenames)
	require.Equal(t, uint64(4096), src.ImageSize)
}
