//go:build windows

package update

import "errors"

// NeedsElevation reports false on Windows; the updater never
// self-elevates there.
func NeedsElevation(string) bool {
	return false
}

// ReExecWithSudo has no Windows equivalent.
func ReExecWithSudo() error {
	return errors.New("automatic elevation is not available on Windows; rerun 'vizdash update' from an elevated prompt")
}
