package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ostafen/carver/internal/logger"
	"github.com/ostafen/carver/internal/report"
	"github.com/spf13/cobra"
)

func DefineVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <dump_dir>",
		Short: "Check carved files against their manifest",
		Long: `The 'verify' command re-hashes every file listed in the manifest (hashes.txt) of a destination directory
and reports the files that are missing or whose content changed since they were carved.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunVerify,
	}
	return cmd
}

func RunVerify(cmd *cobra.Command, args []string) error {
	entries, mismatches, err := report.Verify(args[0])
	if err != nil {
		return err
	}

	logger := logger.New(cmd.OutOrStdout(), slog.LevelInfo)

	for _, m := range mismatches {
		if m.Missing() {
			logger.Errorf("%s: missing", m.Entry.Path)
			continue
		}
		logger.Errorf("%s: expected %s, got %s", m.Entry.Path, m.Entry.Hash, m.Actual)
	}

	if len(mismatches) > 0 {
		return fmt.Errorf("%d of %d files failed verification", len(mismatches), len(entries))
	}

	logger.Infof("%d files verified", len(entries))
	return nil
}
