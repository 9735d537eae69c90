package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config holds the carve options that can be read from a YAML file.
// Unset keys leave the corresponding flag default in place.
type Config struct {
	DumpDir     string   `yaml:"dump_dir"`
	Formats     []string `yaml:"formats"`
	Hash        string   `yaml:"hash"`
	MaxFileSize string   `yaml:"max_file_size"`
	Parallel    *bool    `yaml:"parallel"`
	LogLevel    string   `yaml:"log_level"`
	NoLog       *bool    `yaml:"no_log"`
	Mmap        *bool    `yaml:"mmap"`
}

// LoadConfig reads the config file at path. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if len(bytes.TrimSpace(data)) == 0 {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Apply copies the values of the config into the flags of cmd which were
// not explicitly set on the command line.
func (cfg *Config) Apply(cmd *cobra.Command) error {
	values := map[string]string{
		"dump":          cfg.DumpDir,
		"formats":       strings.Join(cfg.Formats, ","),
		"hash":          cfg.Hash,
		"max-file-size": cfg.MaxFileSize,
		"log-level":     cfg.LogLevel,
		"parallel":      formatBool(cfg.Parallel),
		"no-log":        formatBool(cfg.NoLog),
		"mmap":          formatBool(cfg.Mmap),
	}

	for name, value := range values {
		if value == "" || cmd.Flags().Changed(name) {
			continue
		}
		if err := cmd.Flags().Set(name, value); err != nil {
			return fmt.Errorf("invalid config value for %s: %w", name, err)
		}
	}
	return nil
}

func formatBool(b *bool) string {
	if b == nil {
		return ""
	}
	if *b {
		return "true"
	}
	return "false"
}
