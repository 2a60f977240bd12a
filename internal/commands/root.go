package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bilant/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var debug bool
	var repoDir string

	rootCmd := &cobra.Command{
		Use:   "bilant",
		Short: "Romanian trial balance to balance sheet (Bilant) converter",
		Long: `bilant computes the annual balance sheet from a trial balance (balanta de
verificare) using the row formulas of the official F10 forms, and fills the
computed values into the XFA form PDF.

Example:
  bilant template extract forms/S1002.pdf
  bilant generate balante/2024.xlsx --prior balante/2023.xlsx --save
  bilant fill --results output/bilant-F10L.csv --out output/bilant.pdf`,
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&repoDir, "repo", ".", "project directory")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newTemplateCommand(&repoDir))
	rootCmd.AddCommand(newGenerateCommand(&repoDir))
	rootCmd.AddCommand(newFillCommand(&repoDir))
	rootCmd.AddCommand(newReadCommand())
	rootCmd.AddCommand(newHistoryCommand(&repoDir))

	return rootCmd
}
