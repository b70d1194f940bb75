//go:build darwin

package clipboard

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa

#include <Cocoa/Cocoa.h>
#include <stdlib.h>

static long long bb_change_count() {
    return (long long)[[NSPasteboard generalPasteboard] changeCount];
}

static char *bb_pasteboard_string() {
    @autoreleasepool {
        NSString *s = [[NSPasteboard generalPasteboard] stringForType:NSPasteboardTypeString];
        if (s == nil) {
            return NULL;
        }
        const char *utf8 = [s UTF8String];
        if (utf8 == NULL) {
            return NULL;
        }
        return strdup(utf8);
    }
}
*/
import "C"
import "unsafe"

// platformChangeCount reads NSPasteboard's monotonically increasing change
// counter, the standard polling primitive for pasteboard change detection
// on macOS.
func platformChangeCount() (int64, bool) {
	return int64(C.bb_change_count()), true
}

// platformPasteboardString samples the pasteboard's current string content
// for the Clipboard event's preview field; spec §4.1 caps the preview at
// MaxScalars, applied by event.Clipboard itself.
func platformPasteboardString() (string, bool) {
	s := C.bb_pasteboard_string()
	if s == nil {
		return "", false
	}
	defer C.free(unsafe.Pointer(s))
	return C.GoString(s), true
}
