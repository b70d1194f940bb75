package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a recorded workflow's events",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		sess, err := store.Get(id)
		if err != nil {
			return fmt.Errorf("session %q not found", id)
		}

		result, err := store.Load(id)
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}

		if showJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result.Events)
		}

		fmt.Printf("%s (%s) — %d events", sess.Name, sess.ID, len(result.Events))
		if result.Skipped > 0 {
			fmt.Printf(", %d unreadable lines skipped", result.Skipped)
		}
		fmt.Println()

		for _, e := range result.Events {
			fmt.Printf("  %6dms  %-10s %s\n", e.T, e.Tag, summarize(e))
		}
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output the raw event stream as JSON")
}
