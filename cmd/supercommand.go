// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/juju/cmd/v3"
	"github.com/juju/loggo"

	"github.com/juju/mongoinit/version"
)

const (
	// LoggingConfigEnvKey holds the default logging configuration
	// used by every command.
	LoggingConfigEnvKey = "MONGOINIT_LOGGING_CONFIG"

	// StartupLoggingConfigEnvKey configures logging before any
	// command line flags are parsed.
	StartupLoggingConfigEnvKey = "MONGOINIT_STARTUP_LOGGING_CONFIG"
)

func init() {
	// If the environment key is empty, ConfigureLoggers returns nil and does
	// nothing.
	err := loggo.ConfigureLoggers(os.Getenv(StartupLoggingConfigEnvKey))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR parsing %s: %s\n\n", StartupLoggingConfigEnvKey, err)
	}
}

var logger = loggo.GetLogger("mongoinit.cmd")

// NewSuperCommand is like cmd.NewSuperCommand but
// it adds mongoinit-specific functionality:
// - The default logging configuration is taken from the environment;
// - The version is configured to the current mongoinit version;
// - The command emits a log message when a command runs.
func NewSuperCommand(p cmd.SuperCommandParams) *cmd.SuperCommand {
	p.Log = &cmd.Log{
		DefaultConfig: os.Getenv(LoggingConfigEnvKey),
	}
	p.Version = version.Binary().String()
	p.NotifyRun = runNotifier
	return cmd.NewSuperCommand(p)
}

func runNotifier(name string) {
	logger.Infof("running %s [%s %s %s]", name, version.Current, runtime.Compiler, runtime.Version())
}
