// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package bootstrap

import (
	"github.com/juju/collections/set"

	"github.com/juju/mongoinit/config"
	"github.com/juju/mongoinit/mongo"
	"github.com/juju/mongoinit/users"
)

// KindAdmin labels outcomes of administrative users.
const KindAdmin = "admin"

// UserResult is the outcome of creating one administrative user.
type UserResult struct {
	Username string
	Outcome  users.Outcome
	Err      error
}

// EnsureAdminUsers creates a root user for every configured server.
// A username that appears more than once is only sent once. Failures
// are reported and the remaining users are still attempted.
func EnsureAdminUsers(session mongo.Session, servers []config.Server, log Logger, recorder users.Recorder) []UserResult {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	seen := set.NewStrings()
	var results []UserResult
	for _, server := range servers {
		if seen.Contains(server.User) {
			log.Warningf("User %s is configured for more than one server, skipping %s", server.User, server.Endpoint)
			continue
		}
		seen.Add(server.User)

		outcome, err := users.Create(session, users.RootUser(server.User, server.Password))
		switch outcome {
		case users.Created:
			log.Infof("Created admin user: %s", server.User)
		case users.AlreadyExists:
			log.Infof("User %s already exists", server.User)
		default:
			log.Errorf("Error creating user %s: %v", server.User, err)
		}
		recorder.UserOutcome(KindAdmin, outcome)
		results = append(results, UserResult{
			Username: server.User,
			Outcome:  outcome,
			Err:      err,
		})
	}
	return results
}

// UsersFailed returns how many of results failed.
func UsersFailed(results []UserResult) int {
	failed := 0
	for _, r := range results {
		if r.Outcome == users.Failed {
			failed++
		}
	}
	return failed
}
