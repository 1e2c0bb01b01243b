package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func lenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "len",
		Short: "Show how many notifications are waiting on each queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			q, err := openQueues(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = q.close() }()

			var orders, tickets int64
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				orders, err = q.order.Len(gctx)
				return err
			})
			g.Go(func() error {
				var err error
				tickets, err = q.ticket.Len(gctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return fmt.Errorf("failed to read queue length: %w", err)
			}

			fmt.Printf("%-24s %s\n", q.order.Name(), humanize.Comma(orders))
			fmt.Printf("%-24s %s\n", q.ticket.Name(), humanize.Comma(tickets))
			return nil
		},
	}
}
