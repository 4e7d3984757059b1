// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package testing

import (
	"fmt"
	"strings"
	"sync"

	gc "gopkg.in/check.v1"
)

// RecordingLogger keeps every message it is given so tests can assert
// on what an operator would have seen. Debug messages are not kept.
type RecordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (r *RecordingLogger) add(level, msg string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, level+": "+fmt.Sprintf(msg, args...))
}

func (r *RecordingLogger) Errorf(msg string, args ...interface{})   { r.add("ERROR", msg, args...) }
func (r *RecordingLogger) Warningf(msg string, args ...interface{}) { r.add("WARNING", msg, args...) }
func (r *RecordingLogger) Infof(msg string, args ...interface{})    { r.add("INFO", msg, args...) }
func (r *RecordingLogger) Debugf(string, ...interface{})            {}

// Messages returns the recorded messages in order, prefixed with
// their level.
func (r *RecordingLogger) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// CheckContains asserts that some recorded message equals expect.
func (r *RecordingLogger) CheckContains(c *gc.C, expect string) {
	messages := r.Messages()
	for _, m := range messages {
		if m == expect {
			return
		}
	}
	c.Errorf("message %q not logged; got:\n%s", expect, strings.Join(messages, "\n"))
}
