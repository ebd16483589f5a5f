package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-docbuild/internal/config"
	"github.com/alnah/go-docbuild/internal/yamlutil"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string        `yaml:"status"`
	Chrome   chromeInfo    `yaml:"chrome"`
	Env      envInfo       `yaml:"environment"`
	System   systemInfo    `yaml:"system"`
	Manifest *manifestInfo `yaml:"manifest,omitempty"`
	Warnings []string      `yaml:"warnings,omitempty"`
	Errors   []string      `yaml:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `yaml:"found"`
	Path    string `yaml:"path,omitempty"`
	Version string `yaml:"version,omitempty"`
	Sandbox bool   `yaml:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `yaml:"os"`
	Arch          string `yaml:"arch"`
	Container     bool   `yaml:"container"`
	ContainerHint string `yaml:"containerHint,omitempty"`
	CI            bool   `yaml:"ci"`
	NoSandbox     string `yaml:"rodNoSandbox"`
	BrowserBin    string `yaml:"rodBrowserBin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `yaml:"tempWritable"`
}

// manifestInfo summarizes the manifest a build would use.
type manifestInfo struct {
	Dir       string   `yaml:"dir"`
	Documents int      `yaml:"documents"`
	Missing   []string `yaml:"missing,omitempty"`
}

// doctorChecks holds the probes that touch the host, replaced in tests.
type doctorChecks struct {
	lookPath      func() (string, bool)
	chromeVersion func(path string) (string, error)
	tempDir       func() string
	fileExists    func(path string) bool
}

func defaultDoctorChecks() doctorChecks {
	return doctorChecks{
		lookPath: launcher.LookPath,
		chromeVersion: func(path string) (string, error) {
			out, err := exec.Command(path, "--version").Output() // #nosec G204 -- path is the detected browser
			return strings.TrimSpace(string(out)), err
		},
		tempDir: os.TempDir,
		fileExists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
	}
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	return runDoctorWith(args, env, defaultDoctorChecks())
}

func runDoctorWith(args []string, env *Environment, checks doctorChecks) int {
	fs := flag.NewFlagSet(cmdDoctor, flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	asYAML := fs.Bool("yaml", false, "print the report as YAML")
	manifest := fs.StringP("config", "c", "", "manifest name or path to check")
	fs.Usage = func() { printDoctorUsage(env.Stderr) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitUsage
	}

	result := runDoctor(env, checks, *manifest)

	if *asYAML {
		data, err := yamlutil.Marshal(result)
		if err != nil {
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
			return ExitGeneral
		}
		_, _ = env.Stdout.Write(data)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(env *Environment, checks doctorChecks, manifest string) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  env.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: env.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkChrome(result, checks)
	checkEnvironment(result, env.Getenv, checks)
	checkSystem(result, checks)
	checkManifest(result, env.Getenv, manifest)

	switch {
	case len(result.Errors) > 0:
		result.Status = statusErrors
	case len(result.Warnings) > 0:
		result.Status = statusWarnings
	}

	return result
}

// checkChrome detects the browser PDFs and live diagrams need.
func checkChrome(result *doctorResult, checks doctorChecks) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = checks.lookPath()
		if !found {
			result.Errors = append(result.Errors,
				"Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if !checks.fileExists(chromePath) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	if version, err := checks.chromeVersion(chromePath); err == nil {
		result.Chrome.Version = version
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, getenv func(string) string, checks doctorChecks) {
	result.Env.Container, result.Env.ContainerHint = isContainer(getenv, checks.fileExists)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer reports whether the process runs in a container, and which
// signal gave it away.
func isContainer(getenv func(string) string, exists func(string) bool) (bool, string) {
	if getenv("DOCBUILD_CONTAINER") == "1" {
		return true, "DOCBUILD_CONTAINER=1"
	}
	if exists("/.dockerenv") {
		return true, "/.dockerenv"
	}
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used to print pages is writable.
func checkSystem(result *doctorResult, checks doctorChecks) {
	tmpDir := checks.tempDir()
	f, err := os.CreateTemp(tmpDir, "docbuild-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	result.System.TempWritable = true
}

// checkManifest loads the manifest a build would use and lists missing
// sources. A missing manifest is a warning: doctor also runs before one exists.
func checkManifest(result *doctorResult, getenv func(string) string, name string) {
	if name == "" {
		name = getenv(envConfig)
	}
	if name == "" {
		name = config.DefaultConfigName
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		msg := fmt.Sprintf("Manifest: %v", err)
		if errors.Is(err, config.ErrConfigNotFound) {
			result.Warnings = append(result.Warnings, msg)
		} else {
			result.Errors = append(result.Errors, msg)
		}
		return
	}

	info := &manifestInfo{Dir: cfg.Dir, Documents: len(cfg.Documents)}
	_, missing := discoverDocuments(cfg)
	for _, m := range missing {
		info.Missing = append(info.Missing, m.InputPath)
		result.Errors = append(result.Errors, fmt.Sprintf("Document %s: %v", m.InputPath, m.Err))
	}
	result.Manifest = info
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "docbuild doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found (needed for PDFs and live diagrams in print)")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if r.Manifest != nil {
		fmt.Fprintln(w, "Manifest")
		fmt.Fprintf(w, "  [OK] %d document(s), manifest in %s\n", r.Manifest.Documents, r.Manifest.Dir)
		for _, m := range r.Manifest.Missing {
			fmt.Fprintf(w, "  [ERROR] Missing source: %s\n", m)
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to build")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

// printDoctorUsage prints help for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docbuild doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that Chrome, the temp directory and the manifest are ready for a build.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Manifest name or path (default: docbuild)")
	fmt.Fprintln(w, "      --yaml                Print the report as YAML")
}
