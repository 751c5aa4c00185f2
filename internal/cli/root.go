// Package cli wires the command-line surface: one-shot text and file
// translation, low-level document operations, and the long-running service
// mode.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mpetrenko/smartcat-translator/internal/batch"
	"github.com/mpetrenko/smartcat-translator/internal/config"
	"github.com/mpetrenko/smartcat-translator/internal/smartcat"
	"github.com/mpetrenko/smartcat-translator/internal/transfer"
	"github.com/mpetrenko/smartcat-translator/pkg/log"
)

var envFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "smartcat-translator",
		Short: "Batch document translation through the Smartcat platform",
		Long: `smartcat-translator uploads text or files to a Smartcat project,
waits for pre-translation to complete, exports the translated content and
downloads the result.

Commands:
  text        Translate inline text and print the result
  files       Translate files and write *-translated copies
  document    Low-level document operations (get, export, download, delete)
  serve       Run the HTTP API, job queue and watch folder

Credentials and project settings come from the environment (see --env-file):
SMARTCAT_USERNAME, SMARTCAT_PASSWORD and SMARTCAT_PROJECT_ID are required.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("failed to load env file %s: %w", envFile, err)
				}
			} else {
				// Default .env is optional.
				_ = godotenv.Load()
			}
			log.InitLogger(log.ParseLevel(os.Getenv("LOG_LEVEL")))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to an env file with credentials and settings")

	root.AddCommand(
		newTextCmd(),
		newFilesCmd(),
		newDocumentCmd(),
		newServeCmd(),
	)

	return root
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	return config.NewFromEnv()
}

func newTransferService(cfg *config.Config) (*transfer.Service, error) {
	client, err := smartcat.NewClient(&smartcat.Config{
		Username:  cfg.Smartcat.Username,
		Password:  cfg.Smartcat.Password,
		ServerURL: cfg.Smartcat.ServerURL,
		Timeout:   cfg.Smartcat.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return transfer.NewService(client, cfg.Smartcat.ProjectID), nil
}

// textBatchConfig is the patient polling profile for inline text: many short
// rounds, small payloads translate quickly.
func textBatchConfig(cfg *config.Config) batch.Config {
	return batch.Config{
		TranslationPoll: batch.RetryPolicy{
			MaxAttempts: cfg.Translate.TextPollAttempts,
			Delay:       cfg.Translate.TextPollDelay,
		},
		OutputDir:      cfg.Translate.OutputDir,
		SourceLanguage: cfg.Translate.SourceLanguage,
		TargetLanguage: cfg.Translate.TargetLanguage,
	}
}

// fileBatchConfig is the slow profile for documents: few rounds with long
// delays, large files take minutes to pre-translate.
func fileBatchConfig(cfg *config.Config) batch.Config {
	return batch.Config{
		TranslationPoll: batch.RetryPolicy{
			MaxAttempts: cfg.Translate.FilePollAttempts,
			Delay:       cfg.Translate.FilePollDelay,
		},
		OutputDir:      cfg.Translate.OutputDir,
		SourceLanguage: cfg.Translate.SourceLanguage,
		TargetLanguage: cfg.Translate.TargetLanguage,
	}
}
