package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/garrettladley/titohook/internal/tito"
)

const flagSecret = "secret"

func signCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign <payload-file>",
		Short: "Print the Tito-Signature header value for a payload",
		Long:  "Print the Tito-Signature header value for a payload file, or stdin when the file is -. Falls back to TITO_WEBHOOK_SECRET.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, _ := cmd.Flags().GetString(flagSecret)
			if secret == "" {
				secret = os.Getenv("TITO_WEBHOOK_SECRET")
			}
			if secret == "" {
				return fmt.Errorf("--%s or TITO_WEBHOOK_SECRET is required", flagSecret)
			}

			body, err := readPayload(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", tito.HeaderSignature, tito.Sign(secret, body))
			return nil
		},
	}
	cmd.Flags().String(flagSecret, "", "webhook shared secret")
	return cmd
}

func readPayload(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		body, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return body, nil
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	return body, nil
}
