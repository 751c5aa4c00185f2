package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mpetrenko/smartcat-translator/internal/batch"
)

func newFilesCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "files <path>...",
		Short: "Translate files and write *-translated copies",
		Long: `Translate one or more files through the configured Smartcat project.

Each translated file is written next to its source as <name>-translated<ext>,
or into --output-dir when given. Files fail independently: one bad document
never aborts the rest of the batch.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFiles(cmd, args, outputDir)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for translated files (default: next to each source)")

	return cmd
}

func runFiles(cmd *cobra.Command, paths []string, outputDir string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if outputDir != "" {
		cfg.Translate.OutputDir = outputDir
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("cannot read %s: %w", path, err)
		}
	}

	svc, err := newTransferService(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inputs := make([]batch.Input, 0, len(paths))
	for _, path := range paths {
		inputs = append(inputs, batch.Input{FilePath: path})
	}

	orchestrator := batch.New(svc, newConsoleReporter(cmd.ErrOrStderr()), fileBatchConfig(cfg))
	result, err := orchestrator.Run(ctx, inputs)
	if err != nil {
		return err
	}

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", result.Failed, result.Failed+result.Succeeded)
	}
	return nil
}
