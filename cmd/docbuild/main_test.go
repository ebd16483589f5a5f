package main

// Notes:
// - runMain: we test dispatch and exit codes for every command path that does
//   not build. Builds are covered in build_test.go.
// - setMaxProcs: we only check that verbose mode logs; the GOMAXPROCS value
//   depends on the host.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunMain_Dispatch - Command routing
// ---------------------------------------------------------------------------

func TestRunMain_Dispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no command", []string{"docbuild"}, ExitUsage, "", "Usage: docbuild"},
		{"version", []string{"docbuild", "version"}, ExitSuccess, "docbuild dev", ""},
		{"--version", []string{"docbuild", "--version"}, ExitSuccess, "docbuild dev", ""},
		{"help", []string{"docbuild", "help"}, ExitSuccess, "Commands:", ""},
		{"-h", []string{"docbuild", "-h"}, ExitSuccess, "Commands:", ""},
		{"help topic", []string{"docbuild", "help", "pdf"}, ExitSuccess, "docbuild pdf", ""},
		{"unknown command", []string{"docbuild", "convert"}, ExitUsage, "", "unknown command: convert"},
		{"command help flag", []string{"docbuild", "html", "--help"}, ExitSuccess, "", "Usage: docbuild html"},
		{"bad flag", []string{"docbuild", "build", "--nope"}, ExitUsage, "", "unknown flag"},
		{"positional arguments", []string{"docbuild", "build", "guide.md"}, ExitUsage, "", "unexpected arguments: guide.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pool := newFakePool(1)
			env, stdout, stderr := testEnv(pool)

			code := runMain(tt.args, env)
			if code != tt.wantCode {
				t.Errorf("exit = %d, want %d; stderr: %s", code, tt.wantCode, stderr)
			}
			if !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantStderr)
			}
			if len(pool.conv.convertCalls()) != 0 {
				t.Error("dispatch-only commands must not convert")
			}
		})
	}
}

func TestRunMain_PositionalHint(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv(newFakePool(1))
	runMain([]string{"docbuild", "pdf", "a.md"}, env)

	if !strings.Contains(stderr.String(), "hint: documents are listed in the manifest") {
		t.Errorf("stderr = %q, want a manifest hint", stderr.String())
	}
}

// ---------------------------------------------------------------------------
// TestSetMaxProcs - GOMAXPROCS tuning
// ---------------------------------------------------------------------------

func TestSetMaxProcs(t *testing.T) {
	// Not parallel: maxprocs.Set changes process-wide state.

	var quiet bytes.Buffer
	setMaxProcs(false, &quiet)
	if quiet.Len() != 0 {
		t.Errorf("non-verbose mode should be silent, got %q", quiet.String())
	}

	var verbose bytes.Buffer
	setMaxProcs(true, &verbose)
	if verbose.Len() == 0 {
		t.Error("verbose mode should log the GOMAXPROCS decision")
	}
}
