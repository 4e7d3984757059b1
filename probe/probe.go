// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package probe

import (
	"context"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"golang.org/x/sync/errgroup"

	"github.com/juju/mongoinit/mongo"
)

var logger = loggo.GetLogger("mongoinit.probe")

// DefaultLimit is the number of nodes probed at once.
const DefaultLimit = 4

// Result holds the outcome of probing one endpoint.
type Result struct {
	Endpoint  mongo.Endpoint
	Reachable bool
	Err       error
}

// Probe pings endpoint over a direct, unauthenticated connection. It
// never fails; an unreachable node is reported in the result.
func Probe(ctx context.Context, dial mongo.Dialer, ep mongo.Endpoint) Result {
	result := Result{Endpoint: ep}
	if err := ctx.Err(); err != nil {
		result.Err = errors.Trace(err)
		return result
	}
	info := mongo.DirectInfo(ep)
	opts := mongo.DefaultDialOpts()
	logger.Tracef("probing %s", mongo.URI(info, opts))

	session, err := dial(info, opts)
	if err != nil {
		result.Err = errors.Trace(err)
		return result
	}
	defer session.Close()

	if err := session.Ping(); err != nil {
		result.Err = errors.Annotate(err, "ping")
		return result
	}
	result.Reachable = true
	return result
}

// All probes every endpoint, at most limit at a time, and returns the
// results in the order of eps. A limit below one means DefaultLimit.
func All(ctx context.Context, dial mongo.Dialer, eps []mongo.Endpoint, limit int) []Result {
	if limit < 1 {
		limit = DefaultLimit
	}
	results := make([]Result, len(eps))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, ep := range eps {
		i, ep := i, ep
		g.Go(func() error {
			results[i] = Probe(ctx, dial, ep)
			return nil
		})
	}
	// Probes never return errors.
	_ = g.Wait()
	return results
}

// Unreachable returns the results for nodes that could not be reached.
func Unreachable(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Reachable {
			failed = append(failed, r)
		}
	}
	return failed
}
