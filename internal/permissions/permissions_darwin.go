//go:build darwin

package permissions

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework CoreGraphics -framework IOKit

#include <ApplicationServices/ApplicationServices.h>
#include <CoreGraphics/CoreGraphics.h>

static int bb_has_accessibility() {
    return AXIsProcessTrusted() ? 1 : 0;
}

// CGPreflightListenEventAccess reports Input Monitoring access without
// prompting the user.
static int bb_has_input_monitoring() {
    return CGPreflightListenEventAccess() ? 1 : 0;
}
*/
import "C"

func check() Status {
	return Status{
		Accessibility:   C.bb_has_accessibility() != 0,
		InputMonitoring: C.bb_has_input_monitoring() != 0,
	}
}
