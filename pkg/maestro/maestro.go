// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

// Package maestro is the public entry point a host program imports to
// declare and run shell-script processes locally, in a container, or on a
// Slurm cluster. It wires internal/config and internal/engine together
// behind a small surface: Initialize, LoadConfig, NewProcess, and Exe.
package maestro

import (
	"context"

	"github.com/scimaestro/maestro/internal/config"
	"github.com/scimaestro/maestro/internal/engine"
)

// Re-exported types so callers never need to import internal/engine
// directly.
type (
	Process       = engine.Process
	NamedPath     = engine.NamedPath
	NamedArg      = engine.NamedArg
	Container     = engine.Container
	ContainerKind = engine.ContainerKind
	Executor      = engine.Executor
	Session       = engine.Session
	Config        = config.Config
	Kind          = engine.Kind
	Error         = engine.Error
)

const (
	ContainerNone      = engine.ContainerNone
	ContainerDocker    = engine.ContainerDocker
	ContainerApptainer = engine.ContainerApptainer
	ContainerPodman    = engine.ContainerPodman
)

const (
	KindDirectoryNotEmpty = engine.KindDirectoryNotEmpty
	KindAlreadyExists     = engine.KindAlreadyExists
	KindNotFound          = engine.KindNotFound
	KindProcessError      = engine.KindProcessError
	KindSubmitError       = engine.KindSubmitError
	KindConfigError       = engine.KindConfigError
	KindIOError           = engine.KindIOError
)

// Initialize sets up the process-wide session: reads
// MAESTRO_SESSION_ID/MAESTRO_WORKDIR, creates the session workdir, and
// writes the liveness marker. Only the first call per process does this
// work; later calls return the first call's result.
func Initialize() (*Session, *Error) {
	return engine.Initialize()
}

// Deinitialize removes the session's liveness marker.
func Deinitialize() {
	engine.Deinitialize()
}

// CurrentSession returns the session established by Initialize.
func CurrentSession() (*Session, *Error) {
	return engine.CurrentSession()
}

// LoadConfig parses and resolves Maestro.toml. path overrides
// MAESTRO_CONFIG/./Maestro.toml when non-empty.
func LoadConfig(path string) (*Config, *Error) {
	return config.Load(path)
}

// RequireExecutor declares that an executor named name must be defined in
// the config loaded by LoadConfig.
func RequireExecutor(name string) { config.RequireExecutor(name) }

// RequireArg declares that an arg named name must be defined in the config
// loaded by LoadConfig.
func RequireArg(name string) { config.RequireArg(name) }

// RequireInput declares that an inputs entry named name must be defined in
// the config loaded by LoadConfig.
func RequireInput(name string) { config.RequireInput(name) }

// NewConfigError builds a ConfigError, for callers (such as the demo
// binary) that need to report a config problem the loader itself can't see,
// like a requested executor name not present in the resolved set.
func NewConfigError(msg string) *Error { return engine.NewConfigError(msg) }

// NewProcess builds a Process value: name, script body, optional container,
// and the input/output/arg bindings used to stage and export environment
// variables around the script.
func NewProcess(name, script string, container *Container, inputs []NamedPath, outputs []NamedPath, args []NamedArg) *Process {
	return engine.NewProcess(name, script, container, inputs, outputs, args)
}

// Exe runs process under session using the given executor, returning the
// absolute output paths followed by the process workdir.
func Exe(ctx context.Context, session *Session, executor *Executor, process *Process) ([]string, *Error) {
	return executor.Exe(ctx, session, process)
}
