package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpetrenko/smartcat-translator/internal/smartcat"
	"github.com/mpetrenko/smartcat-translator/internal/transfer"
)

func newDocumentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "document",
		Short: "Low-level document operations",
		Long: `Inspect and manage individual documents in the configured project.

These commands map one-to-one onto the platform API and skip the batch
workflow entirely. Useful for debugging a stuck document or cleaning up
after a failed run.`,
	}

	cmd.AddCommand(
		newDocumentGetCmd(),
		newDocumentExportCmd(),
		newDocumentDownloadCmd(),
		newDocumentDeleteCmd(),
	)

	return cmd
}

func newDocumentGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <document-id>",
		Short: "Print the raw document record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			resp, err := client.GetDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !resp.OK() {
				return fmt.Errorf("document lookup failed: %d", resp.StatusCode)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(resp.Body))
			return nil
		},
	}
}

func newDocumentExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <document-id>",
		Short: "Request an export of the translated content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := documentService()
			if err != nil {
				return err
			}
			taskID, err := svc.RequestExport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), taskID)
			return nil
		},
	}
}

func newDocumentDownloadCmd() *cobra.Command {
	var outputPath string
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "download <task-id>",
		Short: "Download the result of an export task",
		Long: `Download the artifact of a previously requested export task.

When the task is still rendering, polls every --wait until it is ready.
The payload goes to stdout, or to --output when given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := documentService()
			if err != nil {
				return err
			}

			for {
				result, err := svc.PollExport(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				switch result.State {
				case transfer.ExportReady:
					if outputPath != "" {
						return os.WriteFile(outputPath, result.Payload, 0o644)
					}
					_, err := cmd.OutOrStdout().Write(result.Payload)
					return err
				case transfer.ExportPending:
					fmt.Fprintln(cmd.ErrOrStderr(), "Export still rendering, waiting...")
					select {
					case <-cmd.Context().Done():
						return cmd.Context().Err()
					case <-time.After(wait):
					}
				default:
					return fmt.Errorf("export task failed: %d", result.StatusCode)
				}
			}
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the artifact to this file instead of stdout")
	cmd.Flags().DurationVar(&wait, "wait", 5*time.Second, "Delay between polls while the export renders")

	return cmd
}

func newDocumentDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <document-id>",
		Short: "Delete a document from the project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			resp, err := client.DeleteDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if resp.StatusCode >= 300 {
				return fmt.Errorf("delete failed: %d", resp.StatusCode)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Deleted.")
			return nil
		},
	}
}

func newAPIClient() (*smartcat.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return smartcat.NewClient(&smartcat.Config{
		Username:  cfg.Smartcat.Username,
		Password:  cfg.Smartcat.Password,
		ServerURL: cfg.Smartcat.ServerURL,
		Timeout:   cfg.Smartcat.Timeout,
	})
}

func documentService() (*transfer.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newTransferService(cfg)
}
