// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package engine

// Executor is a closed, tagged union over the two supported execution
// backends. A single non-nil pointer field carries the active variant's
// configuration; Kind names which one.

import "context"

// ExecutorKind names which backend an Executor dispatches to.
type ExecutorKind int

const (
	ExecutorLocal ExecutorKind = iota
	ExecutorSlurm
)

// Executor wraps exactly one of Local or Slurm, selected by Kind.
type Executor struct {
	Kind  ExecutorKind
	Local *LocalExecutor
	Slurm *SlurmExecutor
}

// NewLocalExecutor wraps a LocalExecutor as an Executor.
func NewLocalExecutor(e *LocalExecutor) *Executor {
	return &Executor{Kind: ExecutorLocal, Local: e}
}

// NewSlurmExecutor wraps a SlurmExecutor as an Executor.
func NewSlurmExecutor(e *SlurmExecutor) *Executor {
	return &Executor{Kind: ExecutorSlurm, Slurm: e}
}

// Exe dispatches to the wrapped backend's Exe method.
func (e *Executor) Exe(ctx context.Context, session *Session, process *Process) ([]string, *Error) {
	switch {
	case e.Kind == ExecutorLocal && e.Local != nil:
		return e.Local.Exe(ctx, session, process)
	case e.Kind == ExecutorSlurm && e.Slurm != nil:
		return e.Slurm.Exe(ctx, session, process)
	default:
		return nil, NewConfigError("executor has no backend configured").
			With("kind", e.Kind)
	}
}
