package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bilant/internal/config"
	"github.com/cleared-dev/bilant/internal/gitops"
	"github.com/cleared-dev/bilant/internal/runlog"
)

func newInitCommand() *cobra.Command {
	var name, fiscalCode string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new bilant project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runInit(cmd.OutOrStdout(), absDir, name, fiscalCode, !noGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "company name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&fiscalCode, "fiscal-code", "", "company fiscal code (CUI)")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "do not create a git repository")

	return cmd
}

func runInit(out io.Writer, dir, name, fiscalCode string, withGit bool) error {
	cfg := config.Default(name)
	cfg.Company.FiscalCode = fiscalCode
	cfg.Git.AutoCommit = withGit

	dirs := []string{cfg.Paths.Templates, cfg.Paths.Output, "balante", "forms", "logs"}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	gitignore := ".bilant/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	for _, d := range []string{cfg.Paths.Templates, "balante", "forms"} {
		if err := os.WriteFile(filepath.Join(dir, d, ".gitkeep"), []byte{}, 0o644); err != nil {
			return fmt.Errorf("writing .gitkeep: %w", err)
		}
	}

	entry := runlog.Entry{Command: "init", Output: config.FileName}
	if withGit {
		if err := gitops.Init(dir); err != nil {
			return err
		}
		hash, err := gitops.Snapshot(dir, "init: Initialize "+name, gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail})
		if err != nil {
			return fmt.Errorf("initial commit: %w", err)
		}
		entry.CommitHash = hash
	}
	entry.Timestamp = time.Now()
	if err := runlog.Append(dir, entry); err != nil {
		return fmt.Errorf("writing run log: %w", err)
	}

	fmt.Fprintf(out, "Initialized bilant project at %s\n", dir)
	return nil
}
