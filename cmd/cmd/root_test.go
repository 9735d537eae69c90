package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ostafen/carver/internal/report"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestFormatsCommand(t *testing.T) {
	out, err := execute(t, "formats")
	require.NoError(t, err)
	require.Contains(t, out, "ffd8ffe0")
	require.Contains(t, out, "89504e470d0a1a0a")
	require.Contains(t, out, "255044462d312e35*")
	require.Contains(t, out, "2525454f46")
}

func TestCarveVerifyRecover(t *testing.T) {
	dir := t.TempDir()

	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02, 0xFF, 0xD9}
	img := filepath.Join(dir, "image.dd")
	require.NoError(t, os.WriteFile(img, append([]byte("junk"), jpeg...), 0644))

	dump := filepath.Join(dir, "dump")
	_, err := execute(t, "carve", img, "--dump", dump, "--no-log", "--hash", "sha256")
	require.NoError(t, err)

	carved, err := os.ReadFile(filepath.Join(dump, "jpeg_file_0.jpg"))
	require.NoError(t, err)
	require.Equal(t, jpeg, carved)

	_, err = execute(t, "verify", dump)
	require.NoError(t, err)

	outDir := filepath.Join(dir, "recovered")
	_, err = execute(t, "recover", img, filepath.Join(dump, report.ReportFileName), "-o", outDir)
	require.NoError(t, err)

	recovered, err := os.ReadFile(filepath.Join(outDir, "jpeg_file_0.jpg"))
	require.NoError(t, err)
	require.Equal(t, jpeg, recovered)

	require.NoError(t, os.WriteFile(filepath.Join(dump, "jpeg_file_0.jpg"), []byte("tampered"), 0644))
	_, err = execute(t, "verify", dump)
	require.Error(t, err)
}
