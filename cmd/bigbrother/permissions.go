package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/louis030195/bigbrother/internal/permissions"
)

var permissionsCmd = &cobra.Command{
	Use:   "permissions",
	Short: "Check Accessibility and Input Monitoring permission status",
	RunE: func(cmd *cobra.Command, args []string) error {
		status := permissions.Check()

		fmt.Printf("accessibility:    %s\n", grantedLabel(status.Accessibility))
		fmt.Printf("input monitoring: %s\n", grantedLabel(status.InputMonitoring))

		if !status.AllGranted() {
			fmt.Println()
			fmt.Println("grant both in System Settings > Privacy & Security before recording")
			return fmt.Errorf("missing permissions")
		}
		return nil
	},
}

func grantedLabel(ok bool) string {
	if ok {
		return "granted"
	}
	return "not granted"
}
