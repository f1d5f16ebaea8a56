//go:build !windows

package update

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"golang.org/x/sys/unix"
)

// NeedsElevation reports whether swapping the binary at binaryPath
// would fail for lack of write access. The swap renames a staged file
// into the parent directory and unlinks the old binary, so both the
// directory and the binary itself must be writable.
func NeedsElevation(binaryPath string) bool {
	if unix.Access(filepath.Dir(binaryPath), unix.W_OK) != nil {
		return true
	}

	if _, err := os.Stat(binaryPath); err == nil {
		return unix.Access(binaryPath, unix.W_OK) != nil
	}

	return false
}

// ReExecWithSudo replaces the current process with the same vizdash
// invocation under sudo. On success it never returns; the elevated
// process takes over the update.
func ReExecWithSudo() error {
	sudoPath, err := exec.LookPath("sudo")
	if err != nil {
		return fmt.Errorf("the install location is not writable and sudo is unavailable; rerun 'vizdash update' with elevated permissions")
	}

	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("find executable: %w", err)
	}

	fmt.Fprintln(os.Stderr, "The install location is not writable. Re-running under sudo...")

	argv := append([]string{"sudo", self}, os.Args[1:]...)

	if err := syscall.Exec(sudoPath, argv, os.Environ()); err != nil { //nolint:gosec // G204: intentional sudo re-exec
		return fmt.Errorf("exec sudo: %w", err)
	}

	return nil
}
