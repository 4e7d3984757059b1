// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package version holds the version of the mongoinit binary.
package version

import (
	"runtime"

	jujuversion "github.com/juju/version/v2"
)

// The presence and format of this constant is very important.
// Release tooling reads it to name the release archive.
const version = "1.0.0"

// Current gives the current version of the binary.
var Current = jujuversion.MustParse(version)

// Binary returns the version of the running binary, including the
// operating system and architecture it was built for.
func Binary() jujuversion.Binary {
	return jujuversion.Binary{
		Number:  Current,
		Release: runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
}
