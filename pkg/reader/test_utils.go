package reader

import (
	"bytes"
	"io"
	"math/rand"
	"testing"
	"time"
)

// testReaderAt performs randomized reads on the io.ReaderAt built by newReader
// and checks them against the original buffer.
func testReaderAt(t *testing.T, newReader func([]byte) io.ReaderAt) {
	const trials = 1000

	data := GenerateRandomBuffer(1024 * 10)
	r := newReader(data)

	var buf [2048]byte

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := range trials {
		offset := rng.Intn(len(data))
		readLen := rng.Intn(len(buf)) + 1

		n, err := r.ReadAt(buf[:readLen], int64(offset))
		if err != nil && err != io.EOF {
			t.Fatalf("trial %d: ReadAt(%d, %d) failed: %v", i, readLen, offset, err)
		}

		expected := data[offset:]
		if len(expected) > readLen {
			expected = expected[:readLen]
		}

		if n < readLen && err != io.EOF {
			t.Errorf("trial %d: short read of %d bytes without EOF", i, n)
		}

		if !bytes.Equal(buf[:n], expected) {
			t.Errorf("trial %d: mismatch at offset %d\nGot:      %v\nExpected: %v",
				i, offset, buf[:n], expected)
		}
	}
}

// GenerateRandomBuffer returns a random byte slice of the given size.
func GenerateRandomBuffer(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate random data: " + err.Error())
	}
	return b
}
