//go:build darwin

package accessibility

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation

#include <ApplicationServices/ApplicationServices.h>
#include <CoreFoundation/CoreFoundation.h>
#include <stdlib.h>

typedef struct {
    char *role;
    char *name;
    char *value;
    int   ok;
} bb_element;

static char *bb_copy_cfstring(CFStringRef s) {
    if (s == NULL) {
        return NULL;
    }
    CFIndex len = CFStringGetMaximumSizeForEncoding(CFStringGetLength(s), kCFStringEncodingUTF8) + 1;
    char *buf = malloc(len);
    if (!CFStringGetCString(s, buf, len, kCFStringEncodingUTF8)) {
        free(buf);
        return NULL;
    }
    return buf;
}

static char *bb_string_attr(AXUIElementRef el, CFStringRef attr) {
    CFTypeRef value = NULL;
    if (AXUIElementCopyAttributeValue(el, attr, &value) != kAXErrorSuccess || value == NULL) {
        return NULL;
    }
    char *out = NULL;
    if (CFGetTypeID(value) == CFStringGetTypeID()) {
        out = bb_copy_cfstring((CFStringRef)value);
    }
    CFRelease(value);
    return out;
}

static bb_element bb_probe_at_point(double x, double y) {
    bb_element result = {0};

    AXUIElementRef systemWide = AXUIElementCreateSystemWide();
    AXUIElementRef element = NULL;
    AXError err = AXUIElementCopyElementAtPosition(systemWide, (float)x, (float)y, &element);
    CFRelease(systemWide);

    if (err != kAXErrorSuccess || element == NULL) {
        return result;
    }

    result.role = bb_string_attr(element, kAXRoleAttribute);
    result.name = bb_string_attr(element, kAXTitleAttribute);
    result.value = bb_string_attr(element, kAXValueAttribute);
    result.ok = 1;

    CFRelease(element);
    return result;
}
*/
import "C"
import "unsafe"

// probeAtPoint walks the accessibility tree for the element under (x, y).
// Per spec §4.3 this fails silently: an absent permission surfaces here as
// AXUIElementCopyElementAtPosition returning an error, which we report the
// same way as "nothing found".
func probeAtPoint(x, y int32) (Element, bool) {
	res := C.bb_probe_at_point(C.double(x), C.double(y))
	if res.ok == 0 {
		return Element{}, false
	}

	elem := Element{
		Role:  cStringOrEmpty(res.role),
		Name:  cStringOrEmpty(res.name),
		Value: cStringOrEmpty(res.value),
	}

	freeIfSet(res.role)
	freeIfSet(res.name)
	freeIfSet(res.value)

	return elem, true
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
