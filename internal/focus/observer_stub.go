//go:build !darwin

package focus

// frontmostSnapshot is unsupported outside macOS.
func frontmostSnapshot() (name string, pid int32, title string, ok bool) {
	return "", 0, "", false
}
