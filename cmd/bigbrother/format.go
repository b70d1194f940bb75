package main

import (
	"fmt"

	"github.com/louis030195/bigbrother/internal/event"
)

// summarize renders a one-line human-readable description of e for
// `show`'s default text output.
func summarize(e event.Event) string {
	switch e.Tag {
	case event.TagClick:
		return fmt.Sprintf("(%d,%d) button=%d clicks=%d", e.X, e.Y, e.Button, e.Clicks)
	case event.TagMove:
		return fmt.Sprintf("(%d,%d)", e.X, e.Y)
	case event.TagScroll:
		return fmt.Sprintf("(%d,%d) dx=%d dy=%d", e.X, e.Y, e.DX, e.DY)
	case event.TagKey:
		return fmt.Sprintf("keycode=0x%02x modifiers=%d", e.KeyCode, e.Modifiers)
	case event.TagText:
		return fmt.Sprintf("%q", e.Text)
	case event.TagApp:
		return fmt.Sprintf("%s (pid %d)", e.AppName, e.PID)
	case event.TagWindow:
		return fmt.Sprintf("%s — %q", e.WindowApp, e.WindowTitle)
	case event.TagClipboard:
		return fmt.Sprintf("%s %q", e.ClipOp, e.Preview)
	case event.TagContext:
		return fmt.Sprintf("role=%q name=%q value=%q", e.Role, e.Name, e.Value)
	default:
		return ""
	}
}
