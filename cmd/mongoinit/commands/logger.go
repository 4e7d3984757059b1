// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"

	"github.com/juju/mongoinit/metrics"
)

// contextLogger narrates progress to the operator. Informational
// lines and warnings go to stdout, errors to stderr.
type contextLogger struct {
	ctx *cmd.Context
}

func (l contextLogger) Errorf(format string, args ...interface{}) {
	fmt.Fprintf(l.ctx.Stderr, format+"\n", args...)
}

func (l contextLogger) Warningf(format string, args ...interface{}) {
	fmt.Fprintf(l.ctx.Stdout, format+"\n", args...)
}

func (l contextLogger) Infof(format string, args ...interface{}) {
	fmt.Fprintf(l.ctx.Stdout, format+"\n", args...)
}

func (l contextLogger) Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// writeMetrics writes the collected metrics to path when one was
// requested. A failure is logged and otherwise ignored.
func writeMetrics(ctx *cmd.Context, collector *metrics.Collector, path string) {
	if path == "" {
		return
	}
	path = ctx.AbsPath(path)
	if err := collector.WriteTextfile(path); err != nil {
		logger.Warningf("%v", err)
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		logger.Debugf("%v", errors.Trace(err))
		return
	}
	logger.Infof("wrote %s of metrics to %q", humanize.Bytes(uint64(info.Size())), path)
}
