// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package engine

// Retry support built on top of Process.Clone: a retry driver lives outside
// the engine, but the engine still owns the mechanics a retry needs — a
// collision-free name, and a way to preserve the failed attempt's
// artifacts before the name is reused.

import (
	"os"
	"path/filepath"

	"github.com/otiai10/copy"
)

// CloneRetry clones the process and suffixes its name with a short unique
// id, so a host-driven retry can resubmit under a fresh name without
// colliding with the original's still-present workdir (AlreadyExists).
func (p *Process) CloneRetry() (*Process, *Error) {
	clone, errKv := p.Clone()
	if errKv != nil {
		return nil, wrapError(KindIOError, errKv, "failed to clone process for retry").With("process", p.Name)
	}
	suffix, err := processDirName()
	if err != nil {
		return nil, wrapError(KindIOError, err, "failed to generate retry suffix").With("process", p.Name)
	}
	clone.Name = p.Name + "-" + suffix
	return clone, nil
}

// ArchiveWorkdir copies a process's workdir aside to "<name>.archived-<id>"
// before a retry driver reuses session state, preserving logs and outputs
// from the failed attempt for postmortem inspection.
func ArchiveWorkdir(session *Session, processName string) (string, *Error) {
	src := filepath.Join(session.Workdir, processName)
	if _, errGo := os.Stat(src); errGo != nil {
		return "", NewIOError(errGo, "process workdir does not exist").With("workdir", src)
	}

	suffix, err := processDirName()
	if err != nil {
		return "", wrapError(KindIOError, err, "failed to generate archive suffix").With("process", processName)
	}

	dest := filepath.Join(session.Workdir, processName+".archived-"+suffix)
	if errGo := copy.Copy(src, dest); errGo != nil {
		return "", NewIOError(errGo, "failed to archive process workdir").With("src", src, "dest", dest)
	}
	return dest, nil
}
