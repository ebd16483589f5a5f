package process

// Notes:
// - Real process-tree termination is exercised by the browser renderer's
//   integration tests; unit tests only cover inputs that must be ignored.

import "testing"

func TestKillProcessGroup_IgnoredPIDs(t *testing.T) {
	t.Parallel()

	// Zero would target the caller's own process group; negative values are
	// never valid launcher PIDs. Both must return without signalling anything.
	for _, pid := range []int{0, -1} {
		KillProcessGroup(pid)
	}
}

func TestKillProcessGroup_UnknownPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
}
