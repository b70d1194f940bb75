//go:build !darwin

package accessibility

// probeAtPoint is unsupported outside macOS; the Accessibility API has no
// cross-platform equivalent, so context attachment is always absent here.
func probeAtPoint(x, y int32) (Element, bool) {
	return Element{}, false
}
