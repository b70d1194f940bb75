package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"golang.org/x/sys/unix"

	"github.com/spf13/cobra"

	"github.com/louis030195/bigbrother/internal/permissions"
	"github.com/louis030195/bigbrother/internal/replay"
)

var (
	replaySpeed                float64
	replayDisablePasteFallback bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <session-id>",
	Short: "Replay a recorded workflow as live input",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		status := permissions.Check()
		if !status.AllGranted() {
			return fmt.Errorf("missing permissions: accessibility=%v input_monitoring=%v (run `bigbrother permissions`)",
				status.Accessibility, status.InputMonitoring)
		}

		sess, err := store.Get(id)
		if err != nil {
			return fmt.Errorf("session %q not found", id)
		}

		result, err := store.Load(id)
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}

		speed := replaySpeed
		if speed <= 0 {
			speed = cfg.DefaultReplaySpeed
		}

		rcfg := replay.Config{Speed: speed, DisablePasteboardFallback: replayDisablePasteFallback}
		r := replay.New(replay.NewOSPoster(), rcfg)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM)
		defer cancel()

		fmt.Printf("replaying %q (%d events) at %.2fx speed — press ctrl-c to cancel\n", sess.Name, len(result.Events), speed)

		if err := r.Replay(ctx, result.Events); err != nil {
			return fmt.Errorf("replay: %w", err)
		}

		fmt.Println("replay complete")
		return nil
	},
}

func init() {
	replayCmd.Flags().Float64VarP(&replaySpeed, "speed", "s", 0, "playback speed multiplier (default: config's default_replay_speed)")
	replayCmd.Flags().BoolVar(&replayDisablePasteFallback, "no-pasteboard-fallback", false, "always type long text runs key-by-key instead of pasting")
}
