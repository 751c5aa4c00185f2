package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mpetrenko/smartcat-translator/internal/batch"
	"github.com/mpetrenko/smartcat-translator/internal/langdetect"
)

func newTextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text [text to translate]",
		Short: "Translate inline text and print the result",
		Long: `Translate inline text through the configured Smartcat project.

The text is taken from the arguments, or from stdin when no arguments are
given. The translated text is printed to stdout; progress goes to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if strings.TrimSpace(text) == "" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = string(data)
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("no text to translate")
			}
			return runText(cmd, text)
		},
	}

	return cmd
}

func runText(cmd *cobra.Command, text string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !langdetect.Matches(text, cfg.Translate.SourceLanguage) {
		detected, _ := langdetect.Detect(text)
		fmt.Fprintf(cmd.ErrOrStderr(), "Note: the text looks like %s, but the configured source language is %s\n",
			detected, cfg.Translate.SourceLanguage)
	}

	svc, err := newTransferService(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orchestrator := batch.New(svc, newConsoleReporter(cmd.ErrOrStderr()), textBatchConfig(cfg))
	result, err := orchestrator.Run(ctx, []batch.Input{{Text: text}})
	if err != nil {
		return err
	}

	if result.Failed > 0 {
		return fmt.Errorf("translation failed: %s", result.Failures[0].Reason)
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Results[0].Translated)
	return nil
}
