//go:build darwin

package replay

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework CoreGraphics -framework Cocoa

#include <ApplicationServices/ApplicationServices.h>
#include <CoreGraphics/CoreGraphics.h>
#include <Cocoa/Cocoa.h>
#include <stdlib.h>

static void bb_post_mouse(CGEventType type, CGMouseButton button, double x, double y) {
    CGEventRef e = CGEventCreateMouseEvent(NULL, type, CGPointMake(x, y), button);
    CGEventPost(kCGHIDEventTap, e);
    CFRelease(e);
}

static void bb_post_scroll(int32_t dx, int32_t dy) {
    CGEventRef e = CGEventCreateScrollWheelEvent(NULL, kCGScrollEventUnitPixel, 2, (int32_t)dy, (int32_t)dx);
    CGEventPost(kCGHIDEventTap, e);
    CFRelease(e);
}

static void bb_post_key(CGKeyCode code, bool down, CGEventFlags flags) {
    CGEventRef e = CGEventCreateKeyboardEvent(NULL, code, down);
    CGEventSetFlags(e, flags);
    CGEventPost(kCGHIDEventTap, e);
    CFRelease(e);
}

static void bb_post_unicode_char(const UniChar *chars, int n) {
    CGEventRef down = CGEventCreateKeyboardEvent(NULL, 0, true);
    CGEventKeyboardSetUnicodeString(down, n, chars);
    CGEventPost(kCGHIDEventTap, down);
    CFRelease(down);

    CGEventRef up = CGEventCreateKeyboardEvent(NULL, 0, false);
    CGEventKeyboardSetUnicodeString(up, n, chars);
    CGEventPost(kCGHIDEventTap, up);
    CFRelease(up);
}

static void bb_set_clipboard(const char *utf8) {
    @autoreleasepool {
        NSString *s = [NSString stringWithUTF8String:utf8];
        NSPasteboard *pb = [NSPasteboard generalPasteboard];
        [pb clearContents];
        [pb setString:s forType:NSPasteboardTypeString];
    }
}
*/
import "C"

import (
	"unicode/utf16"
	"unsafe"

	"github.com/louis030195/bigbrother/internal/event"
	"github.com/louis030195/bigbrother/internal/keycode"
)

// poster is the darwin OSPoster, synthesizing input with CGEventPost, the
// same family of calls the teacher's injector uses
// (internal/input/inject_darwin.go's injectMouseMove/Button/Key).
type poster struct{}

// NewOSPoster returns the darwin input-synthesis backend.
func NewOSPoster() OSPoster {
	return poster{}
}

func modifierFlags(m event.Modifier) C.CGEventFlags {
	var flags C.CGEventFlags
	if m.Has(event.ModShift) {
		flags |= C.kCGEventFlagMaskShift
	}
	if m.Has(event.ModControl) {
		flags |= C.kCGEventFlagMaskControl
	}
	if m.Has(event.ModOption) {
		flags |= C.kCGEventFlagMaskAlternate
	}
	if m.Has(event.ModCommand) {
		flags |= C.kCGEventFlagMaskCommand
	}
	if m.Has(event.ModCaps) {
		flags |= C.kCGEventFlagMaskAlphaShift
	}
	if m.Has(event.ModFn) {
		flags |= C.kCGEventFlagMaskSecondaryFn
	}
	return flags
}

func (poster) PostClick(x, y int32, button event.Button, clicks uint8, mods event.Modifier) error {
	var downType, upType C.CGEventType
	var cgButton C.CGMouseButton
	switch button {
	case event.ButtonRight:
		downType, upType, cgButton = C.kCGEventRightMouseDown, C.kCGEventRightMouseUp, C.kCGMouseButtonRight
	case event.ButtonMiddle:
		downType, upType, cgButton = C.kCGEventOtherMouseDown, C.kCGEventOtherMouseUp, C.kCGMouseButtonCenter
	default:
		downType, upType, cgButton = C.kCGEventLeftMouseDown, C.kCGEventLeftMouseUp, C.kCGMouseButtonLeft
	}

	n := int(clicks)
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		C.bb_post_mouse(downType, cgButton, C.double(x), C.double(y))
		C.bb_post_mouse(upType, cgButton, C.double(x), C.double(y))
	}
	return nil
}

func (poster) PostMove(x, y int32) error {
	C.bb_post_mouse(C.kCGEventMouseMoved, C.kCGMouseButtonLeft, C.double(x), C.double(y))
	return nil
}

func (poster) PostScroll(x, y, dx, dy int32) error {
	C.bb_post_scroll(C.int32_t(dx), C.int32_t(dy))
	return nil
}

func (poster) PostKey(kc uint16, mods event.Modifier) error {
	flags := modifierFlags(mods)
	C.bb_post_key(C.CGKeyCode(kc), true, flags)
	C.bb_post_key(C.CGKeyCode(kc), false, flags)
	return nil
}

func (poster) TypeText(s string) error {
	for _, r := range s {
		if kc, shift, ok := keycode.KeycodeForChar(r); ok {
			mods := event.Modifier(0)
			if shift {
				mods = event.ModShift
			}
			C.bb_post_key(C.CGKeyCode(kc), true, modifierFlags(mods))
			C.bb_post_key(C.CGKeyCode(kc), false, modifierFlags(mods))
			continue
		}
		// No direct keycode for this scalar value (e.g. an emoji or a
		// character outside the active keyboard layout): synthesize it
		// directly as a Unicode key event instead of a hardware keycode.
		units := utf16.Encode([]rune{r})
		C.bb_post_unicode_char((*C.UniChar)(unsafe.Pointer(&units[0])), C.int(len(units)))
	}
	return nil
}

func (poster) SetClipboard(s string) error {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))
	C.bb_set_clipboard(cs)
	return nil
}

func (poster) PostPasteChord() error {
	flags := modifierFlags(event.ModCommand)
	C.bb_post_key(C.CGKeyCode(keycode.KeyV), true, flags)
	C.bb_post_key(C.CGKeyCode(keycode.KeyV), false, flags)
	return nil
}
