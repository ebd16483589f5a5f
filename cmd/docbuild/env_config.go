package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Environment variable names.
const (
	envPrefix  = "DOCBUILD_"
	envConfig  = "DOCBUILD_CONFIG"
	envWorkers = "DOCBUILD_WORKERS"
	envTimeout = "DOCBUILD_TIMEOUT"
)

// envOverrides holds values read from DOCBUILD_* variables.
// Precedence: CLI flags > environment > manifest > defaults.
type envOverrides struct {
	ConfigPath string
	Workers    int
	Timeout    time.Duration
}

// knownEnvVars lists valid DOCBUILD_* variables, used to catch typos.
var knownEnvVars = map[string]bool{
	envConfig:  true,
	envWorkers: true,
	envTimeout: true,
}

// loadEnvOverrides reads DOCBUILD_* variables. Unparsable or non-positive
// numbers and durations are reported to warn and ignored.
func loadEnvOverrides(getenv func(string) string, warn io.Writer) envOverrides {
	env := envOverrides{ConfigPath: getenv(envConfig)}

	if v := getenv(envWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			env.Workers = n
		} else {
			fmt.Fprintf(warn, "warning: ignoring %s=%q (want a positive integer)\n", envWorkers, v)
		}
	}

	if v := getenv(envTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			env.Timeout = d
		} else {
			fmt.Fprintf(warn, "warning: ignoring %s=%q (want a duration such as 90s)\n", envTimeout, v)
		}
	}

	return env
}

// warnUnknownEnvVars warns about DOCBUILD_* variables nobody reads.
func warnUnknownEnvVars(environ []string, w io.Writer) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}
