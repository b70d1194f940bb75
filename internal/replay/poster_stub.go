//go:build !darwin

package replay

import (
	"errors"

	"github.com/louis030195/bigbrother/internal/event"
)

var errUnsupported = errors.New("replay: OS input synthesis is only supported on darwin")

type poster struct{}

// NewOSPoster returns a poster that always fails; bigbrother's replay
// path is darwin-only per spec §1/§6.
func NewOSPoster() OSPoster {
	return poster{}
}

func (poster) PostClick(x, y int32, button event.Button, clicks uint8, mods event.Modifier) error {
	return errUnsupported
}

func (poster) PostMove(x, y int32) error { return errUnsupported }

func (poster) PostScroll(x, y, dx, dy int32) error { return errUnsupported }

func (poster) PostKey(keycode uint16, mods event.Modifier) error { return errUnsupported }

func (poster) TypeText(s string) error { return errUnsupported }

func (poster) SetClipboard(s string) error { return errUnsupported }

func (poster) PostPasteChord() error { return errUnsupported }
