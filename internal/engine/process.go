// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package engine

// This file implements the Process data model: an immutable description of
// one unit of work (name, script, typed inputs/outputs/args, optional
// container). Validation of file existence is deferred to staging time.

import (
	"strings"

	"github.com/go-stack/stack"
	"github.com/jjeffery/kv" // MIT License
	"github.com/mitchellh/copystructure"
)

// NamedPath is an ordered (variable name, path) pair used for inputs and outputs.
type NamedPath struct {
	Var  string
	Path string
}

// NamedArg is an ordered (variable name, literal value) pair used for args.
type NamedArg struct {
	Var   string
	Value string
}

// ContainerKind enumerates the supported container runtimes.
type ContainerKind int

const (
	// ContainerNone means the process is run directly on the host.
	ContainerNone ContainerKind = iota
	// ContainerDocker runs the process inside `docker run`.
	ContainerDocker
	// ContainerApptainer runs the process inside `apptainer exec`.
	ContainerApptainer
	// ContainerPodman runs the process inside `podman run`.
	ContainerPodman
)

// Container describes an optional container image a process is run inside.
type Container struct {
	Kind  ContainerKind
	Image string
}

// Process is an immutable description of one unit of work.
type Process struct {
	Name      string
	Script    string
	Inputs    []NamedPath
	Outputs   []NamedPath
	Args      []NamedArg
	Container *Container
}

// shebang is prepended to inline scripts that do not already start with one.
const shebang = "#!/bin/bash\n"

// NewProcess constructs a Process. No validation beyond storing values is
// performed; missing input files or name collisions surface later, at exe
// time, via the launcher builder and executors.
func NewProcess(name string, script string, container *Container, inputs []NamedPath, outputs []NamedPath, args []NamedArg) *Process {
	if !strings.HasPrefix(script, "#!") {
		script = shebang + script
	}
	return &Process{
		Name:      name,
		Script:    script,
		Inputs:    append([]NamedPath(nil), inputs...),
		Outputs:   append([]NamedPath(nil), outputs...),
		Args:      append([]NamedArg(nil), args...),
		Container: container,
	}
}

// Clone returns an independent deep copy of the process, so that a host
// program implementing its own retry policy can re-submit a failed process
// under a new name without aliasing the original's slices.
func (p *Process) Clone() (*Process, kv.Error) {
	dup, errGo := copystructure.Copy(p)
	if errGo != nil {
		return nil, kv.Wrap(errGo, "failed to clone process").With("process", p.Name, "stack", stack.Trace().TrimRuntime())
	}
	clone, ok := dup.(*Process)
	if !ok {
		return nil, kv.NewError("clone produced an unexpected type").With("process", p.Name, "stack", stack.Trace().TrimRuntime())
	}
	return clone, nil
}
