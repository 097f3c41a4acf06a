package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/concilia-dev/concilia/internal/buildinfo"
	"github.com/concilia-dev/concilia/internal/config"
	"github.com/concilia-dev/concilia/internal/receivables"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "concilia",
		Short:   "Bank statement reconciliation for receivables",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newMatchCommand())
	rootCmd.AddCommand(newConfirmCommand())
	rootCmd.AddCommand(newReceivablesCommand())

	return rootCmd
}

// loadProject resolves a project directory and loads its config and
// receivables book.
func loadProject(repoDir string) (string, *config.Config, *receivables.Service, error) {
	absDir, err := filepath.Abs(repoDir)
	if err != nil {
		return "", nil, nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(absDir, "concilia.yaml"))
	if err != nil {
		return "", nil, nil, err
	}

	book, err := receivables.Load(absDir)
	if err != nil {
		return "", nil, nil, err
	}

	return absDir, cfg, book, nil
}
