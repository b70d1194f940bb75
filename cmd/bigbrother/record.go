package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"golang.org/x/sys/unix"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/louis030195/bigbrother/internal/permissions"
	"github.com/louis030195/bigbrother/internal/recorder"
	"github.com/louis030195/bigbrother/internal/tui"
)

var (
	recordName      string
	recordNoContext bool
	recordNoLive    bool
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a desktop input workflow until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		if recordName == "" {
			return fmt.Errorf("--name is required")
		}

		status := permissions.Check()
		if !status.AllGranted() {
			return fmt.Errorf("missing permissions: accessibility=%v input_monitoring=%v (run `bigbrother permissions`)",
				status.Accessibility, status.InputMonitoring)
		}

		sessionID := uuid.New().String()
		startedAt := time.Now()

		sink, err := store.CreateAppendSink(sessionID, recordName, startedAt)
		if err != nil {
			return fmt.Errorf("open session log: %w", err)
		}

		rcfg := recorder.DefaultConfig(recordName)
		rcfg.SessionID = sessionID
		rcfg.CaptureContext = cfg.CaptureContext && !recordNoContext
		rcfg.MoveMinIntervalMS = cfg.MoveCoalesceWindowMS
		rcfg.BusCapacity = cfg.BusCapacity
		rcfg.TextFlushTimeout = cfg.TextFlushTimeout

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM)
		defer cancel()

		r := recorder.New()
		handle, err := r.Start(ctx, rcfg, sink.Append)
		if err != nil {
			sink.Close()
			return fmt.Errorf("start recording: %w", err)
		}

		fmt.Printf("recording %q (session %s) — press ctrl-c to stop\n", recordName, sessionID)

		if !recordNoLive && isInteractive() {
			sub := handle.Stream(0)
			if err := tui.RunLive(recordName, sub); err != nil {
				fmt.Fprintln(os.Stderr, "live view error:", err)
			}
			cancel()
		} else {
			<-ctx.Done()
		}

		stopErr := r.Stop()
		closeErr := sink.Close()

		if stopErr != nil {
			return fmt.Errorf("stop recording: %w", stopErr)
		}
		if closeErr != nil {
			return fmt.Errorf("close session log: %w", closeErr)
		}

		fmt.Printf("saved recording %q as session %s\n", recordName, sessionID)
		return nil
	},
}

func init() {
	recordCmd.Flags().StringVarP(&recordName, "name", "n", "", "name for this recording")
	recordCmd.Flags().BoolVar(&recordNoContext, "no-context", false, "disable UI-element context attachment")
	recordCmd.Flags().BoolVar(&recordNoLive, "no-live-view", false, "disable the live event-count display")
}

func isInteractive() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
