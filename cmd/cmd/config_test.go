package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "carver.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
dump_dir: /tmp/out
formats: [jpeg, pdf]
hash: sha256
max_file_size: 16MB
parallel: true
no_log: false
log_level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/out", cfg.DumpDir)
	require.Equal(t, []string{"jpeg", "pdf"}, cfg.Formats)
	require.Equal(t, "sha256", cfg.Hash)
	require.Equal(t, "16MB", cfg.MaxFileSize)
	require.NotNil(t, cfg.Parallel)
	require.True(t, *cfg.Parallel)
	require.NotNil(t, cfg.NoLog)
	require.False(t, *cfg.NoLog)
	require.Nil(t, cfg.Mmap)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_Empty(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	require.Equal(t, &Config{}, cfg)
}

func TestLoadConfig_UnknownKey(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "dump: out\n"))
	require.Error(t, err)
}

func TestConfigApply_FlagsOverride(t *testing.T) {
	cmd := DefineCarveCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--hash", "blake3", "--formats", "png"}))

	cfg, err := LoadConfig(writeConfig(t, `
dump_dir: out
formats: [jpeg]
hash: sha512
max_file_size: 1KB
mmap: true
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Apply(cmd))

	opts, err := parseOptions(cmd)
	require.NoError(t, err)
	require.Equal(t, "out", opts.DumpDir)
	require.Equal(t, "blake3", string(opts.Hash))
	require.Len(t, opts.Formats, 1)
	require.Equal(t, "png", string(opts.Formats[0]))
	require.Equal(t, uint64(1024), opts.MaxFileSize)
	require.True(t, opts.Mmap)
	require.False(t, opts.Parallel)
}

func TestParseOptions_Invalid(t *testing.T) {
	for _, args := range [][]string{
		{"--formats", "gif"},
		{"--hash", "crc32"},
		{"--max-file-size", "lots"},
	} {
		cmd := DefineCarveCommand()
		require.NoError(t, cmd.ParseFlags(args))

		_, err := parseOptions(cmd)
		require.Error(t, err, args)
	}
}
