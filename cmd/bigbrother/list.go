package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"golang.org/x/sys/unix"

	"github.com/spf13/cobra"

	"github.com/louis030195/bigbrother/internal/tui"
)

var (
	listJSON  bool
	listWatch bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded workflows",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := printSessionList(); err != nil {
			return err
		}

		if !listWatch {
			return nil
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM)
		defer cancel()

		return store.Watch(ctx, func() {
			fmt.Println()
			if err := printSessionList(); err != nil {
				fmt.Fprintln(os.Stderr, "list:", err)
			}
		})
	},
}

func printSessionList() error {
	sessions, err := store.List()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if listJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}

	fmt.Print(tui.RenderSessionTable(sessions))
	return nil
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	listCmd.Flags().BoolVar(&listWatch, "watch", false, "re-list whenever a recording is added or removed")
}
