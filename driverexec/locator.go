// Package driverexec defines the interface the core consumes from the
// (out-of-scope) driver download/platform-detection collaborator, plus the
// one concrete implementation the core ships that never performs a
// download: it only resolves an already-present executable.
package driverexec

import (
	"fmt"

	"github.com/oakline-labs/playwright-go/config"
	"github.com/oakline-labs/playwright-go/perrors"
)

// Locator resolves the driver executable, its invocation args, and its
// environment from launch Options. Real platform detection and archive
// download/unzip live in an external collaborator that implements this
// interface; the core only ever calls Locate.
type Locator interface {
	Locate(opts config.Options) (executable string, args []string, env []string, err error)
}

// EnvLocator resolves the driver purely from config.Options / environment
// variables. It never downloads or unzips anything: Locate fails with
// perrors.InitializationFailed when no executable is configured.
type EnvLocator struct{}

// Locate implements Locator.
func (EnvLocator) Locate(opts config.Options) (string, []string, []string, error) {
	if opts.Executable == "" {
		return "", nil, nil, &perrors.InitializationFailed{
			Cause: fmt.Errorf("no driver executable configured: set config.Options.Executable or PLAYWRIGHT_DRIVER_PATH"),
		}
	}
	args := append([]string{"run"}, opts.Args...)
	env := opts.Env
	if opts.DriverVersion != "" {
		env = append(append([]string{}, env...), "DRIVER_VERSION="+opts.DriverVersion)
	}
	return opts.Executable, args, env, nil
}
