// Package config holds driver launch configuration: the executable
// override, extra args/env, per-call default timeout, and the
// DRIVER_VERSION override. It never caches protocol
// state; it only describes how to start the driver process.
package config

import (
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Options configures how the driver child process is launched and how long
// the core waits for it by default.
type Options struct {
	// Executable overrides the bundled driver location.
	Executable string `yaml:"executable"`
	// Args are appended after "run" when invoking the driver.
	Args []string `yaml:"args"`
	// Env holds additional KEY=VALUE environment entries passed to the
	// driver process, appended to the inherited environment.
	Env []string `yaml:"env"`
	// DriverVersion overrides the expected driver version (DRIVER_VERSION).
	DriverVersion string `yaml:"driverVersion"`
	// DefaultTimeout is the configured per-call default timeout. Zero means
	// no default timeout. No wait in this module reads it: Page.WaitForEvent
	// and rpc.ExpectEvent use only the timeout their caller passes.
	DefaultTimeout time.Duration `yaml:"defaultTimeout"`
	// Offline disables any network-fetching driver locator, for builds
	// that must not reach out to the network.
	Offline bool `yaml:"offline"`
}

// Load reads YAML configuration from r and layers environment variable
// overrides on top. A nil r skips the file layer and behaves like FromEnv.
func Load(r io.Reader) (Options, error) {
	var opts Options
	if r != nil {
		data, err := io.ReadAll(r)
		if err != nil {
			return Options{}, err
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, &opts); err != nil {
				return Options{}, err
			}
		}
	}
	applyEnv(&opts)
	return opts, nil
}

// FromEnv builds Options purely from environment variables, with no YAML
// file layer. This is the entry point most callers use.
func FromEnv() Options {
	var opts Options
	applyEnv(&opts)
	return opts
}

func applyEnv(opts *Options) {
	if v, ok := os.LookupEnv("PLAYWRIGHT_DRIVER_PATH"); ok && v != "" {
		opts.Executable = v
	}
	if v, ok := os.LookupEnv("DRIVER_VERSION"); ok && v != "" {
		opts.DriverVersion = v
	}
	if v, ok := os.LookupEnv("PLAYWRIGHT_DRIVER_OFFLINE"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			opts.Offline = b
		}
	}
	if v, ok := os.LookupEnv("PLAYWRIGHT_DEFAULT_TIMEOUT_MS"); ok {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			opts.DefaultTimeout = time.Duration(ms) * time.Millisecond
		}
	}
}
