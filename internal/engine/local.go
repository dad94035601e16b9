// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package engine

// This file implements the local executor: runs the generated launcher as a
// child process, tees its output into the process log, waits for
// completion, and verifies declared outputs exist.

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/go-stack/stack"
)

// LocalExecutor runs processes as direct child processes of the host.
type LocalExecutor struct {
	StagingMode StagingMode
	Container   *Container
}

// Exe runs process locally and returns the absolute output paths followed
// by the process workdir.
func (e *LocalExecutor) Exe(ctx context.Context, session *Session, process *Process) ([]string, *Error) {
	container := process.Container
	if container == nil {
		container = e.Container
	}

	artifacts, err := prepScriptWorkdir(session, process, container)
	if err != nil {
		return nil, err
	}
	defer artifacts.close()

	staging := effectiveStaging(container, e.StagingMode)
	if err := artifacts.stageInputs(staging); err != nil {
		return nil, err
	}

	fmt.Fprintln(artifacts.LauncherFile, "echo \":: Launching local process\"")
	if err := artifacts.writeExecution(); err != nil {
		return nil, err
	}
	artifacts.LauncherFile.Close()
	artifacts.LauncherFile = nil

	// #nosec G204 -- the launcher path is generated by prepScriptWorkdir, not user input.
	cmd := exec.CommandContext(ctx, artifacts.LauncherPath)
	cmd.Dir = artifacts.Workdir
	cmd.Stdout = artifacts.LogHandle
	cmd.Stderr = artifacts.LogHandle

	runErr := cmd.Run()
	if runErr != nil {
		fmt.Fprintln(artifacts.LogHandle, ":: Process failed!")
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			fmt.Fprintf(artifacts.LogHandle, ":: Exit code: %d\n", exitErr.ExitCode())
		}
		return nil, NewProcessError(fmt.Sprintf(
			"Shell process exited with non-zero exit code. Logs at %s; stderr at %s",
			artifacts.LogPath, errFilePath(artifacts.Workdir))).
			With("process", process.Name, "stack", stack.Trace().TrimRuntime())
	}

	fmt.Fprintln(artifacts.LogHandle, ":: Process terminated successfully with exit code 0")

	if err := checkOutputsExist(process.Name, artifacts.Workdir, process.Outputs); err != nil {
		return nil, err
	}

	return outputPaths(artifacts.Workdir, process.Outputs), nil
}

func errFilePath(workdir string) string {
	return filepath.Join(workdir, errFileName)
}

func outputPaths(workdir string, outputs []NamedPath) []string {
	paths := make([]string, 0, len(outputs)+1)
	for _, out := range outputs {
		if out.Path == "" {
			continue
		}
		if filepath.IsAbs(out.Path) {
			paths = append(paths, out.Path)
		} else {
			paths = append(paths, filepath.Join(workdir, out.Path))
		}
	}
	paths = append(paths, workdir)
	return paths
}
