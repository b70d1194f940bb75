//go:build darwin

package capture

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework CoreGraphics -framework CoreFoundation

#include <ApplicationServices/ApplicationServices.h>
#include <CoreGraphics/CoreGraphics.h>

extern CGEventRef bb_tap_callback(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *refcon);

static CFMachPortRef bb_install_tap(void *handle) {
    CGEventMask mask =
        CGEventMaskBit(kCGEventLeftMouseDown) |
        CGEventMaskBit(kCGEventRightMouseDown) |
        CGEventMaskBit(kCGEventOtherMouseDown) |
        CGEventMaskBit(kCGEventMouseMoved) |
        CGEventMaskBit(kCGEventLeftMouseDragged) |
        CGEventMaskBit(kCGEventScrollWheel) |
        CGEventMaskBit(kCGEventKeyDown) |
        CGEventMaskBit(kCGEventKeyUp) |
        CGEventMaskBit(kCGEventFlagsChanged);

    CFMachPortRef tap = CGEventTapCreate(
        kCGSessionEventTap,
        kCGHeadInsertEventTap,
        kCGEventTapOptionListenOnly,
        mask,
        bb_tap_callback,
        handle);
    return tap;
}

static CFRunLoopSourceRef bb_add_to_runloop(CFMachPortRef tap) {
    CFRunLoopSourceRef source = CFMachPortCreateRunLoopSource(kCFAllocatorDefault, tap, 0);
    CFRunLoopAddSource(CFRunLoopGetCurrent(), source, kCFRunLoopCommonModes);
    CGEventTapEnable(tap, true);
    return source;
}

static void bb_remove_from_runloop(CFMachPortRef tap, CFRunLoopSourceRef source) {
    CGEventTapEnable(tap, false);
    if (source != NULL) {
        CFRunLoopRemoveSource(CFRunLoopGetCurrent(), source, kCFRunLoopCommonModes);
        CFRelease(source);
    }
    if (tap != NULL) {
        CFRelease(tap);
    }
}
*/
import "C"

import (
	"context"
	"fmt"
	"runtime"
	"runtime/cgo"
	"unsafe"
)

// platformState holds the darwin-specific handles for one running tap,
// torn down by stopPlatformTap.
type platformState struct {
	handle cgo.Handle
	tap    C.CFMachPortRef
	source C.CFRunLoopSourceRef
	done   chan struct{}
}

var platformStates = map[*Tap]*platformState{}

// startPlatformTap mirrors the teacher's hotkey tap setup: CGEventTapCreate
// in listen-only mode, added to a dedicated CFRunLoop on an OS-locked
// goroutine, torn down on context cancellation.
func startPlatformTap(ctx context.Context, t *Tap) error {
	handle := cgo.NewHandle(t)

	tap := C.bb_install_tap(unsafe.Pointer(&handle))
	if tap == 0 {
		handle.Delete()
		return fmt.Errorf("capture: CGEventTapCreate failed (accessibility permission likely absent)")
	}

	st := &platformState{handle: handle, tap: tap, done: make(chan struct{})}
	platformStates[t] = st

	ready := make(chan struct{})
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		st.source = C.bb_add_to_runloop(tap)
		runLoop := C.CFRunLoopGetCurrent()
		close(ready)

		go func() {
			select {
			case <-ctx.Done():
			case <-st.done:
			}
			C.CFRunLoopStop(runLoop)
		}()

		C.CFRunLoopRun()

		C.bb_remove_from_runloop(st.tap, st.source)
		st.handle.Delete()
	}()
	<-ready

	return nil
}

func stopPlatformTap(t *Tap) {
	st, ok := platformStates[t]
	if !ok {
		return
	}
	delete(platformStates, t)
	close(st.done)
}

// flagsChangedIsDown reports whether a flags-changed event represents the
// modifier for kc transitioning to held, by checking the event's current
// flag mask against the matching CGEventFlags bit.
func flagsChangedIsDown(cgEvent C.CGEventRef, kc uint16) bool {
	flags := C.CGEventGetFlags(cgEvent)
	switch kc {
	case 0x38, 0x3C: // left/right shift
		return flags&C.kCGEventFlagMaskShift != 0
	case 0x3B, 0x3E: // left/right control
		return flags&C.kCGEventFlagMaskControl != 0
	case 0x3A, 0x3D: // left/right option
		return flags&C.kCGEventFlagMaskAlternate != 0
	case 0x37, 0x36: // left/right command
		return flags&C.kCGEventFlagMaskCommand != 0
	case 0x3F: // fn
		return flags&C.kCGEventFlagMaskSecondaryFn != 0
	case 0x39: // caps lock
		return flags&C.kCGEventFlagMaskAlphaShift != 0
	default:
		return false
	}
}

//export bb_tap_callback
func bb_tap_callback(proxy C.CGEventTapProxy, eventType C.CGEventType, cgEvent C.CGEventRef, refcon unsafe.Pointer) C.CGEventRef {
	handle := *(*cgo.Handle)(refcon)
	t, ok := handle.Value().(*Tap)
	if !ok {
		return cgEvent
	}

	loc := C.CGEventGetLocation(cgEvent)
	x, y := int32(loc.x), int32(loc.y)

	switch eventType {
	case C.kCGEventLeftMouseDown:
		t.onMouseDown(0, x, y)
	case C.kCGEventRightMouseDown:
		t.onMouseDown(1, x, y)
	case C.kCGEventOtherMouseDown:
		t.onMouseDown(2, x, y)
	case C.kCGEventMouseMoved, C.kCGEventLeftMouseDragged:
		t.onMouseMove(x, y)
	case C.kCGEventScrollWheel:
		dx := int32(C.CGEventGetIntegerValueField(cgEvent, C.kCGScrollWheelEventDeltaAxis2))
		dy := int32(C.CGEventGetIntegerValueField(cgEvent, C.kCGScrollWheelEventDeltaAxis1))
		t.onScroll(x, y, dx, dy)
	case C.kCGEventKeyDown:
		kc := uint16(C.CGEventGetIntegerValueField(cgEvent, C.kCGKeyboardEventKeycode))
		t.onKeyDown(kc)
	case C.kCGEventKeyUp:
		kc := uint16(C.CGEventGetIntegerValueField(cgEvent, C.kCGKeyboardEventKeycode))
		t.onKeyUp(kc)
	case C.kCGEventFlagsChanged:
		kc := uint16(C.CGEventGetIntegerValueField(cgEvent, C.kCGKeyboardEventKeycode))
		if flagsChangedIsDown(cgEvent, kc) {
			t.onKeyDown(kc)
		} else {
			t.onKeyUp(kc)
		}
	}

	return cgEvent
}
