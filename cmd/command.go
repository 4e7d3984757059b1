// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd

import (
	"github.com/juju/cmd/v3"
)

// Info returns a copy of info with the mongoinit defaults applied. Every
// command should wrap its Info through this so help output is uniform.
func Info(info *cmd.Info) *cmd.Info {
	infoCopy := *info
	infoCopy.FlagKnownAs = "option"
	infoCopy.ShowSuperFlags = []string{"show-log", "debug", "logging-config", "verbose", "quiet", "h", "help"}
	return &infoCopy
}
