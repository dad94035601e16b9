// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package engine

// This file defines the error taxonomy used across the process execution
// engine.  Every failure site wraps the underlying error with a Kind so
// callers can classify it, and attaches a stack trace the way the rest of
// the errors in this code base do.

import (
	"github.com/go-stack/stack"
	"github.com/jjeffery/kv" // MIT License
)

// Kind enumerates the taxonomy of engine errors from the specification.
type Kind string

const (
	// KindDirectoryNotEmpty is raised when the session workdir already holds subdirectories at init.
	KindDirectoryNotEmpty Kind = "DirectoryNotEmpty"
	// KindAlreadyExists is raised when a process workdir already exists (duplicate process name).
	KindAlreadyExists Kind = "AlreadyExists"
	// KindNotFound is raised when a declared input or output path is missing.
	KindNotFound Kind = "NotFound"
	// KindProcessError is raised when a launcher child, or a Slurm job, ends with a non-zero exit code.
	KindProcessError Kind = "ProcessError"
	// KindSubmitError is raised when sbatch fails to submit a job.
	KindSubmitError Kind = "SubmitError"
	// KindConfigError is raised by the config loader (parse failure, cycle, unknown name, etc).
	KindConfigError Kind = "ConfigError"
	// KindIOError covers any filesystem, spawn, or pipe failure not otherwise classified.
	KindIOError Kind = "IOError"
)

// Error wraps a kv.Error with a Kind so that call sites can classify failures
// with a simple comparison instead of string matching.
type Error struct {
	kv.Error
	Kind Kind
}

// Is reports whether this error carries the given Kind, for use with errors.Is-style checks.
func (e *Error) Is(kind Kind) bool {
	return e != nil && e.Kind == kind
}

func newError(kind Kind, msg string) *Error {
	return &Error{
		Error: kv.NewError(msg).With("kind", string(kind), "stack", stack.Trace().TrimRuntime()),
		Kind:  kind,
	}
}

func wrapError(kind Kind, err error, msg string) *Error {
	if err == nil {
		return newError(kind, msg)
	}
	return &Error{
		Error: kv.Wrap(err, msg).With("kind", string(kind), "stack", stack.Trace().TrimRuntime()),
		Kind:  kind,
	}
}

// NewDirectoryNotEmptyError reports that a directory expected to be a fresh
// session workdir already contained subdirectories.
func NewDirectoryNotEmptyError(dir string) *Error {
	return newError(KindDirectoryNotEmpty, "session working directory already contains subdirectories").With("dir", dir)
}

// NewAlreadyExistsError reports that a process workdir already exists.
func NewAlreadyExistsError(name string) *Error {
	return newError(KindAlreadyExists,
		"Process working directory for \""+name+"\" already exists! Use a unique process name to avoid collisions.").
		With("process", name)
}

// NewNotFoundError reports missing input or output paths.
func NewNotFoundError(process string, label string, missing []string) *Error {
	return newError(KindNotFound, label+" path(s) not found for process \""+process+"\"").
		With("process", process, "missing", missing)
}

// NewProcessError reports a non-zero exit from a launcher or Slurm job.
func NewProcessError(msg string) *Error {
	return newError(KindProcessError, msg)
}

// NewSubmitError reports an sbatch submission failure.
func NewSubmitError(msg string) *Error {
	return newError(KindSubmitError, msg)
}

// NewConfigError reports a config-loading failure.
func NewConfigError(msg string) *Error {
	return newError(KindConfigError, msg)
}

// NewIOError wraps an arbitrary filesystem/spawn/pipe failure.
func NewIOError(err error, msg string) *Error {
	return wrapError(KindIOError, err, msg)
}

// With attaches additional key/value context, mirroring kv.Error.With but preserving the Kind.
func (e *Error) With(keyvals ...interface{}) *Error {
	e.Error = e.Error.With(keyvals...)
	return e
}
