// Package event defines the typed, tagged-variant event that flows from the
// normalizer through the fan-out bus to the append sink and every streaming
// consumer.
package event

// Tag identifies the variant of an Event.
type Tag string

const (
	TagClick     Tag = "click"
	TagMove      Tag = "move"
	TagScroll    Tag = "scroll"
	TagKey       Tag = "key"
	TagText      Tag = "text"
	TagApp       Tag = "app"
	TagWindow    Tag = "window"
	TagClipboard Tag = "clipboard"
	TagContext   Tag = "context"
)

// Modifier is a bitset of held modifier keys. Values are part of the wire
// format and must never change.
type Modifier uint8

const (
	ModShift   Modifier = 1 << 0
	ModControl Modifier = 1 << 1
	ModOption  Modifier = 1 << 2
	ModCommand Modifier = 1 << 3
	ModCaps    Modifier = 1 << 4
	ModFn      Modifier = 1 << 5

	modAll = ModShift | ModControl | ModOption | ModCommand | ModCaps | ModFn
)

// Mask clears any bits outside the stable wire set.
func (m Modifier) Mask() Modifier { return m & modAll }

func (m Modifier) Has(bit Modifier) bool { return m&bit != 0 }

// Button identifies which mouse button a click used.
type Button uint8

const (
	ButtonLeft   Button = 0
	ButtonRight  Button = 1
	ButtonMiddle Button = 2
)

// ClipboardOp identifies the clipboard operation fused by the clipboard
// observer (C6).
type ClipboardOp string

const (
	ClipboardCopy  ClipboardOp = "c"
	ClipboardCut   ClipboardOp = "x"
	ClipboardPaste ClipboardOp = "v"
)

// MaxScalars is the truncation boundary for preview/text string fields,
// measured in Unicode scalar values (code points), per spec §4.1.
const MaxScalars = 256

// TextMaxScalars is the text-aggregation buffer's flush boundary, §4.7(c).
const TextMaxScalars = 1024

// Event is a tagged variant. Exactly the fields relevant to Tag are
// populated; the rest are zero. T is milliseconds since the session's T0.
type Event struct {
	T   uint64
	Tag Tag

	// click
	X, Y      int32
	Button    Button
	Clicks    uint8
	Modifiers Modifier

	// move reuses X, Y.

	// scroll reuses X, Y.
	DX, DY int32

	// key
	KeyCode uint16
	// key reuses Modifiers.

	// text
	Text string

	// app
	AppName string
	PID     int32

	// window
	WindowApp   string
	WindowTitle string

	// clipboard
	ClipOp  ClipboardOp
	Preview string

	// context
	Role  string
	Name  string
	Value string
}

// Click builds a click event.
func Click(t uint64, x, y int32, b Button, clicks uint8, m Modifier) Event {
	return Event{T: t, Tag: TagClick, X: x, Y: y, Button: b, Clicks: clicks, Modifiers: m.Mask()}
}

// Move builds a move event.
func Move(t uint64, x, y int32) Event {
	return Event{T: t, Tag: TagMove, X: x, Y: y}
}

// Scroll builds a scroll event.
func Scroll(t uint64, x, y, dx, dy int32) Event {
	return Event{T: t, Tag: TagScroll, X: x, Y: y, DX: dx, DY: dy}
}

// Key builds a non-text key event.
func Key(t uint64, keycode uint16, m Modifier) Event {
	return Event{T: t, Tag: TagKey, KeyCode: keycode, Modifiers: m.Mask()}
}

// Text builds an aggregated text-run event, truncating s to MaxScalars.
func Text(t uint64, s string) Event {
	return Event{T: t, Tag: TagText, Text: TruncateScalars(s, MaxScalars)}
}

// App builds a frontmost-application-change event.
func App(t uint64, name string, pid int32) Event {
	return Event{T: t, Tag: TagApp, AppName: name, PID: pid}
}

// Window builds a focused-window-change event.
func Window(t uint64, app, title string) Event {
	return Event{T: t, Tag: TagWindow, WindowApp: app, WindowTitle: title}
}

// Clipboard builds a clipboard operation event, truncating preview.
func Clipboard(t uint64, op ClipboardOp, preview string) Event {
	return Event{T: t, Tag: TagClipboard, ClipOp: op, Preview: TruncateScalars(preview, MaxScalars)}
}

// Context builds a UI-element context event attached to the owning click.
func Context(t uint64, role, name, value string) Event {
	return Event{T: t, Tag: TagContext, Role: role, Name: name, Value: value}
}

// TruncateScalars truncates s to at most n Unicode scalar values (code
// points), never splitting a multi-byte rune. This is the boundary spec §4.1
// and the GLOSSARY call out explicitly as "scalar", distinct from a
// grapheme cluster — a plain rune count is the correct primitive, not a
// segmentation library.
func TruncateScalars(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// CountScalars returns the number of Unicode scalar values in s.
func CountScalars(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
