//go:build !darwin

package capture

import (
	"context"
	"errors"
)

func startPlatformTap(ctx context.Context, t *Tap) error {
	return errors.New("capture: event tap is only supported on darwin")
}

func stopPlatformTap(t *Tap) {}
