//go:build !windows

// Package process terminates the browser process trees left behind by rendering.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid, which takes
// Chrome's renderer and GPU helpers down with the main process.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best effort: launcher.Kill still runs after this.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
