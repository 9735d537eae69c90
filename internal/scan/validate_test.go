package scan_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ostafen/carver/internal/format"
	"github.com/ostafen/carver/internal/report"
	"github.com/ostafen/carver/internal/scan"
	"github.com/stretchr/testify/require"
)

type fixedClassifier struct {
	label format.Label
	ok    bool
}

func (c fixedClassifier) Classify([]byte) (format.Label, bool) { return c.label, c.ok }

func writeCarved(t *testing.T, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "file.bin")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestValidator_Accept(t *testing.T) {
	v := scan.NewValidator(format.NewClassifier(format.DefaultSignatureSet()), nil)
	path := writeCarved(t, jpegData)

	verdict, err := v.Validate(path, format.JPEG, jpegData)
	require.NoError(t, err)
	require.Equal(t, report.Accepted, verdict)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestValidator_RejectMismatch(t *testing.T) {
	v := scan.NewValidator(fixedClassifier{label: format.PNG, ok: true}, nil)
	path := writeCarved(t, jpegData)

	verdict, err := v.Validate(path, format.JPEG, jpegData)
	require.NoError(t, err)
	require.Equal(t, report.Rejected, verdict)

	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidator_RejectUnrecognized(t *testing.T) {
	v := scan.NewValidator(format.NewClassifier(format.DefaultSignatureSet()), nil)
	data := []byte("not an image")
	path := writeCarved(t, data)

	verdict, err := v.Validate(path, format.PDF, data)
	require.NoError(t, err)
	require.Equal(t, report.Rejected, verdict)

	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidator_RejectMissingFile(t *testing.T) {
	v := scan.NewValidator(fixedClassifier{}, nil)

	verdict, err := v.Validate(filepath.Join(t.TempDir(), "gone.bin"), format.PNG, nil)
	require.NoError(t, err)
	require.Equal(t, report.Rejected, verdict)
}
