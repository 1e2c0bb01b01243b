package main

import (
	"bytes"
	"fmt"

	go_json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

const flagCount = "count"

func peekCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "peek <order|ticket>",
		Short:     "Print the oldest waiting notifications without consuming them",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"order", "ticket"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			count, _ := cmd.Flags().GetInt64(flagCount)
			if count <= 0 {
				return fmt.Errorf("--%s must be positive", flagCount)
			}

			q, err := openQueues(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = q.close() }()

			queue, err := q.byName(args[0])
			if err != nil {
				return err
			}

			msgs, err := queue.Peek(ctx, count)
			if err != nil {
				return fmt.Errorf("failed to peek %s: %w", queue.Name(), err)
			}
			if len(msgs) == 0 {
				fmt.Printf("%s is empty\n", queue.Name())
				return nil
			}

			for _, msg := range msgs {
				var buf bytes.Buffer
				if err := go_json.Indent(&buf, msg, "", "  "); err != nil {
					fmt.Println(string(msg))
					continue
				}
				fmt.Println(buf.String())
			}
			return nil
		},
	}
	cmd.Flags().Int64(flagCount, 10, "number of messages to show")
	return cmd
}
