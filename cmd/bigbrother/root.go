// Command bigbrother records and replays desktop input workflows.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/louis030195/bigbrother/internal/config"
	"github.com/louis030195/bigbrother/internal/storage"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// store is the session log/index store, opened once per invocation.
var store *storage.Store

var configPath string

var rootCmd = &cobra.Command{
	Use:   "bigbrother",
	Short: "Record and replay desktop input workflows",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			configPath = config.DefaultPath()
		}

		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded

		s, err := storage.Open(cfg.StorageDir)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		store = s
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			return store.Close()
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default: platform-specific)")
	rootCmd.AddCommand(permissionsCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(deleteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bigbrother:", err)
		os.Exit(1)
	}
}
