// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package mongo

import (
	"strings"

	"github.com/juju/errors"
	"github.com/juju/mgo/v3"
)

// Server error codes that mark a command as a no-op because its
// target already exists.
const (
	codeAlreadyInitialized = 23
	codeDuplicateKey       = 11000
	codeUserAlreadyExists  = 51003
)

// IsAlreadyInitialized reports whether err is the server refusing
// replSetInitiate because a replica set configuration already exists.
func IsAlreadyInitialized(err error) bool {
	if err == nil {
		return false
	}
	if qerr, ok := errors.Cause(err).(*mgo.QueryError); ok && qerr.Code != 0 {
		return qerr.Code == codeAlreadyInitialized
	}
	// Older servers and some proxies only give us the message.
	return strings.Contains(err.Error(), "already initialized")
}

// IsAlreadyExists reports whether err is the server refusing to
// create a user (or any other named resource) that already exists.
func IsAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	cause := errors.Cause(err)
	if qerr, ok := cause.(*mgo.QueryError); ok && qerr.Code != 0 {
		switch qerr.Code {
		case codeUserAlreadyExists, codeDuplicateKey:
			return true
		}
		return mgo.IsDup(cause)
	}
	return strings.Contains(err.Error(), "already exists")
}
