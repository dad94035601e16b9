// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package engine

// Logger adorns logxi with the session id every engine call site needs
// tagged onto its messages, since messages are read per-session.

import (
	"sync"

	logxi "github.com/karlmutch/logxi/v1"
)

// Logger wraps a logxi.Logger, tagging every message with a session id.
type Logger struct {
	log       logxi.Logger
	sessionID string
	mu        sync.Mutex
}

// NewLogger creates a Logger for component, tagged with sessionID.
func NewLogger(component string, sessionID string) *Logger {
	logxi.DisableCallstack()
	return &Logger{log: logxi.New(component), sessionID: sessionID}
}

func (l *Logger) tag(args []interface{}) []interface{} {
	return append(append([]interface{}{}, args...), "session", l.sessionID)
}

// Info logs an informational banner line.
func (l *Logger) Info(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.log.Info(msg, l.tag(args)...)
}

// Warn logs a warning.
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.log.Warn(msg, l.tag(args)...)
}

// Error logs an error.
func (l *Logger) Error(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.log.Error(msg, l.tag(args)...)
}
