package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a recorded workflow",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if _, err := store.Get(id); err != nil {
			return fmt.Errorf("session %q not found", id)
		}
		if err := store.Delete(id); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		fmt.Printf("deleted session %s\n", id)
		return nil
	},
}
