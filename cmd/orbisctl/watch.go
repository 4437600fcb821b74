package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"orbis-relay/internal/fallback"
	"orbis-relay/internal/poller"
	"orbis-relay/internal/tasks"
)

func watchCmd() *cobra.Command {
	var (
		interval   time.Duration
		fallbackDB string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the relay and project incoming incidents onto a kanban board",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			cache := tasks.NewCache()

			opts := poller.Options{
				PollInterval: interval,
				Notifier:     printNotifier{},
			}
			if fallbackDB != "" {
				store, err := fallback.Open(fallbackDB)
				if err != nil {
					return err
				}
				defer store.Close()
				opts.Fallback = store
			}

			p := poller.New(serverURL, cache, logger, opts)
			fmt.Printf("watching %s (poll every %s)\n", serverURL, opts.PollInterval)
			if err := p.Run(ctx); err != nil {
				return err
			}

			printBoard(cache)
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", poller.DefaultPollInterval, "poll interval")
	cmd.Flags().StringVar(&fallbackDB, "fallback-db", "", "path to a local pending-incident store to drain alongside the API")
	return cmd
}

// printNotifier writes each freshly inserted task to stdout as it arrives.
type printNotifier struct{}

func (printNotifier) Notify(title, body string) {
	fmt.Printf("* %s: %s\n", title, body)
}

func printBoard(cache *tasks.Cache) {
	board := cache.Board()
	fmt.Printf("\nboard (%d tasks)\n", cache.Len())
	for _, col := range tasks.Columns {
		fmt.Printf("  %s:\n", col)
		for _, t := range board[col] {
			fmt.Printf("    [%s] %s (%s) at %s\n", t.Priority, t.Title, t.Type, t.Location)
		}
	}
}
