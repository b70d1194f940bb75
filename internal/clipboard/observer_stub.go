//go:build !darwin

package clipboard

func platformChangeCount() (int64, bool) {
	return 0, false
}

func platformPasteboardString() (string, bool) {
	return "", false
}
