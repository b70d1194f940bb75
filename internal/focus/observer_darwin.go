//go:build darwin

package focus

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework ApplicationServices

#include <ApplicationServices/ApplicationServices.h>
#include <Cocoa/Cocoa.h>
#include <stdlib.h>

typedef struct {
    char *name;
    int   pid;
    char *title;
    int   ok;
} bb_front;

static char *bb_cfstring_copy(NSString *s) {
    if (s == nil) {
        return NULL;
    }
    const char *utf8 = [s UTF8String];
    if (utf8 == NULL) {
        return NULL;
    }
    return strdup(utf8);
}

static bb_front bb_frontmost_snapshot() {
    bb_front result = {0};

    @autoreleasepool {
        NSRunningApplication *app = [[NSWorkspace sharedWorkspace] frontmostApplication];
        if (app == nil) {
            return result;
        }

        result.name = bb_cfstring_copy([app localizedName]);
        result.pid = (int)[app processIdentifier];
        result.ok = 1;

        AXUIElementRef appElement = AXUIElementCreateApplication([app processIdentifier]);
        CFTypeRef windowRef = NULL;
        if (AXUIElementCopyAttributeValue(appElement, kAXFocusedWindowAttribute, &windowRef) == kAXErrorSuccess && windowRef != NULL) {
            CFTypeRef titleRef = NULL;
            if (AXUIElementCopyAttributeValue((AXUIElementRef)windowRef, kAXTitleAttribute, &titleRef) == kAXErrorSuccess && titleRef != NULL) {
                if (CFGetTypeID(titleRef) == CFStringGetTypeID()) {
                    result.title = bb_cfstring_copy((NSString *)titleRef);
                }
                CFRelease(titleRef);
            }
            CFRelease(windowRef);
        }
        CFRelease(appElement);
    }

    return result;
}
*/
import "C"
import "unsafe"

// frontmostSnapshot queries NSWorkspace for the frontmost app and the
// Accessibility API for its focused window's title. Per spec §4.5, a
// missing title (permission absent, or the app has no focused window)
// still yields the app name with an empty title rather than failing.
func frontmostSnapshot() (name string, pid int32, title string, ok bool) {
	res := C.bb_frontmost_snapshot()
	if res.ok == 0 {
		return "", 0, "", false
	}

	name = cStringOrEmpty(res.name)
	title = cStringOrEmpty(res.title)
	pid = int32(res.pid)

	freeIfSet(res.name)
	freeIfSet(res.title)

	return name, pid, title, true
}

func cStringOrEmpty(s *C.char) string {
	if s == nil {
		return ""
	}
	return C.GoString(s)
}

func freeIfSet(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}
