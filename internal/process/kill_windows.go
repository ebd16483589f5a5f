//go:build windows

// Package process terminates the browser process trees left behind by rendering.
package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup kills pid and its child processes with taskkill /T.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best effort: launcher.Kill still runs after this.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
