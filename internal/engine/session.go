// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package engine

// This file implements the process-wide session manager: one-shot
// initialization of a session workdir, a unique session id, and a liveness
// marker file, guarded by a sync.Once so Initialize is safe to call more
// than once per process.

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/go-stack/stack"
	"github.com/jjeffery/kv" // MIT License
	"github.com/karlmutch/go-shortid"
)

const activeMarkerName = ".maestro.active"

// Session is the process-wide, read-only-after-init state shared by every
// exe call: the session id and the absolute session workdir.
type Session struct {
	ID      string
	Workdir string
}

var (
	sessionOnce  sync.Once
	sessionState *Session
	sessionErr   *Error
)

// Initialize performs one-shot session setup: it reads MAESTRO_SESSION_ID
// (else generates an adjective-animal pair), reads MAESTRO_WORKDIR (else
// "./maestro_work"), creates the session workdir, enforces that it holds no
// pre-existing subdirectories, and writes the liveness marker file. Only
// the first call per process runs these steps; subsequent calls return the
// same result without re-running side effects.
func Initialize() (*Session, *Error) {
	sessionOnce.Do(func() {
		sessionState, sessionErr = setupSession()
	})
	return sessionState, sessionErr
}

// CurrentSession returns the session established by Initialize, or an
// IOError if Initialize has not yet been called.
func CurrentSession() (*Session, *Error) {
	if sessionState == nil {
		return nil, NewIOError(nil, "maestro session has not been initialized")
	}
	return sessionState, nil
}

// Deinitialize best-effort removes the liveness marker.  Failures here are
// swallowed: a failed cleanup must never mask whatever error the caller is
// already unwinding from.
func Deinitialize() {
	if sessionState == nil {
		return
	}
	_ = os.Remove(filepath.Join(sessionState.Workdir, activeMarkerName))
}

func setupSession() (*Session, *Error) {
	sessionID := os.Getenv("MAESTRO_SESSION_ID")
	if sessionID == "" {
		sessionID = randomSessionID()
	}

	maestroWorkdir := os.Getenv("MAESTRO_WORKDIR")
	if maestroWorkdir == "" {
		maestroWorkdir = "./maestro_work"
	}
	absWorkdir, errGo := filepath.Abs(filepath.Join(maestroWorkdir, sessionID))
	if errGo != nil {
		return nil, NewIOError(errGo, "failed to resolve session workdir")
	}

	if errGo := os.MkdirAll(absWorkdir, 0o755); errGo != nil {
		return nil, NewIOError(errGo, "failed to create session workdir").With("workdir", absWorkdir)
	}

	if err := checkNoSubdirectories(absWorkdir); err != nil {
		return nil, err
	}

	marker := filepath.Join(absWorkdir, activeMarkerName)
	if errGo := os.WriteFile(marker, []byte(strconv.Itoa(os.Getpid())), 0o644); errGo != nil {
		return nil, NewIOError(errGo, "failed to write liveness marker").With("marker", marker)
	}

	logger := NewLogger("session", sessionID)
	logger.Info(":: New maestro session initialized", "workdir", absWorkdir)

	return &Session{ID: sessionID, Workdir: absWorkdir}, nil
}

func checkNoSubdirectories(dir string) *Error {
	entries, errGo := os.ReadDir(dir)
	if errGo != nil {
		return NewIOError(errGo, "failed to inspect session workdir").With("dir", dir)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			return NewDirectoryNotEmptyError(dir).With("stack", stack.Trace().TrimRuntime())
		}
	}
	return nil
}

func randomSessionID() string {
	adj := sessionAdjectives[randIndex(len(sessionAdjectives))]
	animal := sessionAnimals[randIndex(len(sessionAnimals))]
	return adj + "-" + animal
}

// processDirName generates a short lowercase identifier for a process
// workdir from a shortid, mapping every character outside [a-z0-9] to `_`.
func processDirName() (string, kv.Error) {
	id, errGo := shortid.Generate()
	if errGo != nil {
		return "", kv.Wrap(errGo, "failed to generate process directory id").With("stack", stack.Trace().TrimRuntime())
	}
	return strings.ToLower(strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, id)), nil
}
