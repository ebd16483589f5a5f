package main

// Notes:
// - runDoctor: host probes (browser lookup, version, file checks) are
//   injected, so the report is deterministic on any machine.
// - checkSystem uses a real temp directory; an unwritable one is simulated
//   with a path that does not exist.
// - We don't run a real Chrome --version here.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-docbuild/internal/yamlutil"
)

// fakeChecks returns probes that find Chrome at /opt/chrome.
func fakeChecks(t *testing.T) doctorChecks {
	t.Helper()
	tmp := t.TempDir()
	return doctorChecks{
		lookPath:      func() (string, bool) { return "/opt/chrome", true },
		chromeVersion: func(string) (string, error) { return "Chromium 140.0", nil },
		tempDir:       func() string { return tmp },
		fileExists:    func(p string) bool { return p == "/opt/chrome" || p == "/custom/chrome" },
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctor - Diagnostic report
// ---------------------------------------------------------------------------

func TestRunDoctor(t *testing.T) {
	t.Parallel()

	dir := defaultWorkspace(t)
	manifest := filepath.Join(dir, "docbuild.yaml")

	tests := []struct {
		name       string
		vars       map[string]string
		modify     func(*doctorChecks)
		manifest   string
		wantStatus string
		check      func(t *testing.T, r *doctorResult)
	}{
		{
			name:       "ready",
			manifest:   manifest,
			wantStatus: statusReady,
			check: func(t *testing.T, r *doctorResult) {
				if !r.Chrome.Found || r.Chrome.Path != "/opt/chrome" || r.Chrome.Version != "Chromium 140.0" {
					t.Errorf("chrome = %+v", r.Chrome)
				}
				if !r.Chrome.Sandbox {
					t.Error("sandbox should be enabled by default")
				}
				if r.Manifest == nil || r.Manifest.Documents != 2 || len(r.Manifest.Missing) != 0 {
					t.Errorf("manifest = %+v", r.Manifest)
				}
			},
		},
		{
			name:       "browser from environment",
			vars:       map[string]string{"ROD_BROWSER_BIN": "/custom/chrome", "ROD_NO_SANDBOX": "1"},
			manifest:   manifest,
			wantStatus: statusReady,
			check: func(t *testing.T, r *doctorResult) {
				if r.Chrome.Path != "/custom/chrome" || r.Chrome.Sandbox {
					t.Errorf("chrome = %+v", r.Chrome)
				}
			},
		},
		{
			name:       "browser missing",
			modify:     func(c *doctorChecks) { c.lookPath = func() (string, bool) { return "", false } },
			manifest:   manifest,
			wantStatus: statusErrors,
			check: func(t *testing.T, r *doctorResult) {
				if r.Chrome.Found {
					t.Error("chrome should not be found")
				}
			},
		},
		{
			name:       "configured browser path missing",
			vars:       map[string]string{"ROD_BROWSER_BIN": "/nowhere/chrome"},
			manifest:   manifest,
			wantStatus: statusErrors,
		},
		{
			name:       "version unknown",
			modify:     func(c *doctorChecks) { c.chromeVersion = func(string) (string, error) { return "", errors.New("exit 1") } },
			manifest:   manifest,
			wantStatus: statusWarnings,
		},
		{
			name:       "container without sandbox override",
			vars:       map[string]string{"DOCBUILD_CONTAINER": "1"},
			manifest:   manifest,
			wantStatus: statusWarnings,
			check: func(t *testing.T, r *doctorResult) {
				if !r.Env.Container || r.Env.ContainerHint != "DOCBUILD_CONTAINER=1" {
					t.Errorf("env = %+v", r.Env)
				}
			},
		},
		{
			name:       "ci detected",
			vars:       map[string]string{"GITHUB_ACTIONS": "true", "ROD_NO_SANDBOX": "1"},
			manifest:   manifest,
			wantStatus: statusReady,
			check: func(t *testing.T, r *doctorResult) {
				if !r.Env.CI {
					t.Error("CI should be detected")
				}
			},
		},
		{
			name:       "temp dir not writable",
			modify:     func(c *doctorChecks) { c.tempDir = func() string { return filepath.Join(dir, "no", "such", "dir") } },
			manifest:   manifest,
			wantStatus: statusErrors,
		},
		{
			name:       "manifest not found is a warning",
			manifest:   filepath.Join(dir, "absent.yaml"),
			wantStatus: statusWarnings,
			check: func(t *testing.T, r *doctorResult) {
				if r.Manifest != nil {
					t.Errorf("manifest = %+v, want nil", r.Manifest)
				}
			},
		},
		{
			name:       "manifest from environment",
			vars:       map[string]string{envConfig: manifest},
			wantStatus: statusReady,
			check: func(t *testing.T, r *doctorResult) {
				if r.Manifest == nil || r.Manifest.Dir != dir {
					t.Errorf("manifest = %+v, want dir %s", r.Manifest, dir)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, _ := testEnv(newFakePool(1))
			env.Getenv = mapGetenv(tt.vars)
			checks := fakeChecks(t)
			if tt.modify != nil {
				tt.modify(&checks)
			}

			r := runDoctor(env, checks, tt.manifest)

			if r.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q (warnings %v, errors %v)", r.Status, tt.wantStatus, r.Warnings, r.Errors)
			}
			if tt.check != nil {
				tt.check(t, r)
			}
		})
	}
}

func TestRunDoctor_MissingSource(t *testing.T) {
	t.Parallel()

	dir := writeWorkspace(t, map[string]string{
		"docbuild.yaml": testManifest,
		"guide.md":      "# Guide\n",
	})
	env, _, _ := testEnv(newFakePool(1))

	r := runDoctor(env, fakeChecks(t), filepath.Join(dir, "docbuild.yaml"))

	if r.Status != statusErrors {
		t.Errorf("status = %q, want errors", r.Status)
	}
	if r.Manifest == nil || len(r.Manifest.Missing) != 1 || r.Manifest.Missing[0] != "arch.md" {
		t.Errorf("manifest = %+v, want arch.md missing", r.Manifest)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorWith - Command output and exit codes
// ---------------------------------------------------------------------------

func TestRunDoctorWith(t *testing.T) {
	t.Parallel()

	dir := defaultWorkspace(t)
	manifest := filepath.Join(dir, "docbuild.yaml")

	t.Run("text report", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv(newFakePool(1))
		code := runDoctorWith([]string{"--config", manifest}, env, fakeChecks(t))

		if code != ExitSuccess {
			t.Errorf("exit = %d, want %d", code, ExitSuccess)
		}
		for _, want := range []string{"docbuild doctor", "[OK] Found at /opt/chrome", "2 document(s)", "Status: Ready to build"} {
			if !strings.Contains(stdout.String(), want) {
				t.Errorf("report should contain %q:\n%s", want, stdout.String())
			}
		}
	})

	t.Run("yaml report", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv(newFakePool(1))
		code := runDoctorWith([]string{"-c", manifest, "--yaml"}, env, fakeChecks(t))
		if code != ExitSuccess {
			t.Errorf("exit = %d, want %d", code, ExitSuccess)
		}

		var got doctorResult
		if err := yamlutil.Unmarshal(stdout.Bytes(), &got); err != nil {
			t.Fatalf("report is not YAML: %v\n%s", err, stdout.String())
		}
		if got.Status != statusReady || got.Chrome.Path != "/opt/chrome" {
			t.Errorf("decoded report = %+v", got)
		}
	})

	t.Run("errors exit non-zero", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv(newFakePool(1))
		checks := fakeChecks(t)
		checks.lookPath = func() (string, bool) { return "", false }

		code := runDoctorWith([]string{"-c", manifest}, env, checks)
		if code != ExitGeneral {
			t.Errorf("exit = %d, want %d", code, ExitGeneral)
		}
		if !strings.Contains(stdout.String(), "Status: Not ready") {
			t.Errorf("report = %s", stdout.String())
		}
	})

	t.Run("bad flag", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv(newFakePool(1))
		if code := runDoctorWith([]string{"--json"}, env, fakeChecks(t)); code != ExitUsage {
			t.Errorf("exit = %d, want %d", code, ExitUsage)
		}
	})
}

// ---------------------------------------------------------------------------
// TestIsContainer - Container detection signals
// ---------------------------------------------------------------------------

func TestIsContainer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		vars     map[string]string
		files    []string
		want     bool
		wantHint string
	}{
		{"none", nil, nil, false, ""},
		{"override", map[string]string{"DOCBUILD_CONTAINER": "1"}, nil, true, "DOCBUILD_CONTAINER=1"},
		{"docker", nil, []string{"/.dockerenv"}, true, "/.dockerenv"},
		{"podman", map[string]string{"container": "podman"}, nil, true, "container=podman"},
		{"kubernetes", map[string]string{"KUBERNETES_SERVICE_HOST": "10.0.0.1"}, nil, true, "KUBERNETES_SERVICE_HOST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			exists := func(p string) bool {
				for _, f := range tt.files {
					if f == p {
						return true
					}
				}
				return false
			}
			got, hint := isContainer(mapGetenv(tt.vars), exists)
			if got != tt.want || hint != tt.wantHint {
				t.Errorf("isContainer() = %v, %q; want %v, %q", got, hint, tt.want, tt.wantHint)
			}
		})
	}
}
