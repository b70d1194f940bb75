//go:build !darwin

package keycode

// CharForKeycode is unsupported outside macOS; bigbrother's capture and
// replay paths are darwin-only per spec §1/§6.
func CharForKeycode(code uint16, shift bool) (rune, bool) {
	return 0, false
}

// KeycodeForChar is unsupported outside macOS.
func KeycodeForChar(c rune) (code uint16, needsShift bool, ok bool) {
	return 0, false, false
}
