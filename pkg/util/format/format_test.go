package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBytes(t *testing.T) {
	tests := map[string]uint64{
		"":     0,
		"0":    0,
		"512":  512,
		"4KB":  4 * 1024,
		"4 kb": 4 * 1024,
		"1.5M": 1024 * 1024 * 3 / 2,
		"4GB":  4 << 30,
		"2TB":  2 << 40,
		"100B": 100,
	}
	for in, want := range tests {
		got, err := ParseBytes(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	for _, in := range []string{"abc", "4XB", "1..2MB", "-1"} {
		_, err := ParseBytes(in)
		require.Error(t, err, in)
	}
}

func TestFormatBytes(t *testing.T) {
	require.Equal(t, "100B", FormatBytes(100))
	require.Equal(t, "4MB", FormatBytes(4*1024*1024))
	require.Equal(t, "1.50KB", FormatBytes(1536))
}
