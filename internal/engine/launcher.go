// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package engine

// This file builds the per-process launcher: it creates the process workdir,
// writes the user script and a generated bash launcher that exports
// variables, stages inputs, and finally invokes the script (directly, or
// wrapped in a container run).

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-stack/stack"
	"github.com/rs/xid"

	"github.com/scimaestro/maestro/internal/defense"
)

const (
	scriptFileName   = ".maestro.sh"
	logFileName      = ".maestro.log"
	launcherFileName = ".maestro.launcher"
	outFileName      = ".maestro.out"
	errFileName      = ".maestro.err"
	inputsDirName    = "maestro_inputs"
)

// Artifacts holds the open handles and paths produced by prepScriptWorkdir
// and threaded through the rest of the launcher build / exe pipeline.
type Artifacts struct {
	Process      *Process
	Workdir      string
	LogPath      string
	LogHandle    *os.File
	LauncherPath string
	LauncherFile *os.File
	// Container is the container this one exe attempt runs under, resolved
	// by the caller from the process's own container or the executor's
	// default; kept here rather than written back onto Process so Process
	// stays immutable and safe to reuse across retries.
	Container *Container
	// RunID is a sortable, globally unique id for this one exe attempt,
	// distinct from the (filesystem-safe, short) ids processDirName mints;
	// it identifies a single execution in logs independent of retries
	// reusing the same process name convention.
	RunID string
}

// prepScriptWorkdir creates `${session}/${process.name}/`, writes the user
// script, and opens the log and launcher files. container is the resolved
// container this attempt runs under (the process's own, or the executor's
// default), recorded on the returned Artifacts for writeExecution to use.
func prepScriptWorkdir(session *Session, process *Process, container *Container) (*Artifacts, *Error) {
	workdir := filepath.Join(session.Workdir, process.Name)

	if _, errGo := os.Stat(workdir); errGo == nil {
		return nil, NewAlreadyExistsError(process.Name)
	} else if !os.IsNotExist(errGo) {
		return nil, NewIOError(errGo, "failed to stat process workdir").With("workdir", workdir)
	}

	if errGo := os.MkdirAll(workdir, 0o755); errGo != nil {
		return nil, NewIOError(errGo, "failed to create process workdir").With("workdir", workdir)
	}

	scriptPath := filepath.Join(workdir, scriptFileName)
	if errGo := writeExclusive(scriptPath, []byte(process.Script), 0o755); errGo != nil {
		return nil, NewIOError(errGo, "failed to write process script").With("script", scriptPath)
	}

	logPath := filepath.Join(workdir, logFileName)
	logHandle, errGo := os.OpenFile(logPath, os.O_CREATE|os.O_EXCL|os.O_APPEND|os.O_WRONLY, 0o644)
	if errGo != nil {
		return nil, NewIOError(errGo, "failed to create process log").With("log", logPath)
	}

	launcherPath := filepath.Join(workdir, launcherFileName)
	launcherFile, errGo := os.OpenFile(launcherPath, os.O_CREATE|os.O_EXCL|os.O_APPEND|os.O_WRONLY, 0o755)
	if errGo != nil {
		logHandle.Close()
		return nil, NewIOError(errGo, "failed to create launcher").With("launcher", launcherPath)
	}
	if _, errGo := fmt.Fprintln(launcherFile, "#!/bin/bash"); errGo != nil {
		return nil, NewIOError(errGo, "failed to write launcher shebang")
	}

	runID := xid.New().String()
	fmt.Fprintf(logHandle, ":: Run id: %s\n", runID)

	return &Artifacts{
		Process:      process,
		Workdir:      workdir,
		LogPath:      logPath,
		LogHandle:    logHandle,
		LauncherPath: launcherPath,
		LauncherFile: launcherFile,
		Container:    container,
		RunID:        runID,
	}, nil
}

func writeExclusive(path string, data []byte, mode os.FileMode) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(data)
	return err
}

// checkInputsExist verifies every declared input path exists before a
// launcher is ever run.
func checkInputsExist(processName string, inputs []NamedPath) *Error {
	var missing []string
	for _, in := range inputs {
		if _, err := os.Stat(in.Path); err != nil {
			missing = append(missing, in.Path)
		}
	}
	if len(missing) > 0 {
		return NewNotFoundError(processName, "Input", missing)
	}
	return nil
}

// checkOutputsExist verifies every declared output path (resolved against
// workdir) exists after execution.
func checkOutputsExist(processName string, workdir string, outputs []NamedPath) *Error {
	var missing []string
	for _, out := range outputs {
		p := out.Path
		if !filepath.IsAbs(p) {
			p = filepath.Join(workdir, p)
		}
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return NewNotFoundError(processName, "Output", missing)
	}
	return nil
}

// sanitizeVar replaces each run of whitespace inside a declared variable
// name with a single `_` and drops leading and trailing whitespace.
func sanitizeVar(v string) string {
	return strings.Join(strings.Fields(v), "_")
}

// shellQuote renders a value as a double-quoted shell literal, escaping
// backslash, double quote, backtick, and dollar sign so that `export
// VAR="..."` round-trips exactly even for adversarial values.
func shellQuote(value string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range value {
		switch r {
		case '\\', '"', '`', '$':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// stageInputs writes the launcher prologue: strict mode, banners, input
// staging, and exports for outputs and args, in that fixed order.
func (a *Artifacts) stageInputs(staging StagingMode) *Error {
	process := a.Process
	w := a.LauncherFile

	fmt.Fprintln(w, "set -euo pipefail")
	fmt.Fprintf(w, "echo \":: Process workdir initialized at %s\"\n", a.Workdir)
	fmt.Fprintf(w, "echo \":: Staging inputs to %s/\"\n", inputsDirName)
	fmt.Fprintf(w, "mkdir %s/\n", inputsDirName)

	if err := checkInputsExist(process.Name, process.Inputs); err != nil {
		return err
	}

	for _, in := range process.Inputs {
		v := sanitizeVar(in.Var)
		canonical, errGo := filepath.Abs(in.Path)
		if errGo == nil {
			canonical, errGo = filepath.EvalSymlinks(canonical)
		}
		if errGo != nil {
			return NewIOError(errGo, "failed to canonicalize input path").With("input", in.Path)
		}

		if staging == StagingNone {
			fmt.Fprintf(w, "export %s=%s\n", v, shellQuote(canonical))
			continue
		}

		staged := fmt.Sprintf("[%s]%s", v, filepath.Base(canonical))
		if escapes, errGo := defense.WillEscape(staged, inputsDirName); errGo != nil {
			return NewIOError(errGo, "failed to validate staged input path").With("input", in.Var)
		} else if escapes {
			return NewIOError(nil, "staged input path escapes maestro_inputs/").With("input", in.Var)
		}
		dest := filepath.Join(inputsDirName, staged)
		fmt.Fprintf(w, "export %s=%s\n", v, shellQuote(dest))
		fmt.Fprintf(w, "%s %s \"$%s\"\n", staging.shellCommand(), shellQuote(canonical), v)
	}

	for _, out := range process.Outputs {
		v := sanitizeVar(out.Var)
		fmt.Fprintf(w, "export %s=%s\n", v, shellQuote(out.Path))
	}

	for _, arg := range process.Args {
		v := sanitizeVar(arg.Var)
		fmt.Fprintf(w, "export %s=%s\n", v, shellQuote(arg.Value))
	}

	return nil
}

// envFlags returns the ordered "-e VAR" flags used by container invocations,
// one per declared input, arg, and output variable, names only.
func envFlags(process *Process) []string {
	flags := make([]string, 0, len(process.Inputs)+len(process.Outputs)+len(process.Args))
	for _, in := range process.Inputs {
		flags = append(flags, "-e "+sanitizeVar(in.Var))
	}
	for _, arg := range process.Args {
		flags = append(flags, "-e "+sanitizeVar(arg.Var))
	}
	for _, out := range process.Outputs {
		flags = append(flags, "-e "+sanitizeVar(out.Var))
	}
	return flags
}

// writeExecution appends the run line to the launcher: either a direct
// invocation of the script, or the script wrapped in a container run.
func (a *Artifacts) writeExecution() *Error {
	w := a.LauncherFile
	container := a.Container
	innerCmd := "./" + scriptFileName + " >> " + outFileName + " 2>> " + errFileName

	if container == nil {
		fmt.Fprintln(w, innerCmd)
		return nil
	}

	envs := strings.Join(envFlags(a.Process), " ")

	switch container.Kind {
	case ContainerDocker:
		fmt.Fprintf(w, "docker run --rm -v $(pwd):/maestro -w /maestro %s %s bash -c %s\n",
			envs, container.Image, shellQuote(innerCmd))
	case ContainerPodman:
		fmt.Fprintf(w, "podman run --rm -v $(pwd):/maestro -w /maestro %s %s bash -c %s\n",
			envs, container.Image, shellQuote(innerCmd))
	case ContainerApptainer:
		fmt.Fprintf(w, "apptainer exec --bind .:/maestro --workdir /maestro %s %s bash -c %s\n",
			envs, container.Image, shellQuote(innerCmd))
	default:
		return NewIOError(nil, "unknown container kind").With("stack", stack.Trace().TrimRuntime())
	}
	return nil
}

// effectiveStaging forces Copy staging whenever a container is configured,
// since the bind-mounted path must be a real file under the workdir.
func effectiveStaging(container *Container, configured StagingMode) StagingMode {
	if container != nil {
		return StagingCopy
	}
	return configured
}

// close releases the log and launcher file handles. Safe to call multiple times.
func (a *Artifacts) close() {
	if a.LauncherFile != nil {
		a.LauncherFile.Close()
		a.LauncherFile = nil
	}
	if a.LogHandle != nil {
		a.LogHandle.Close()
		a.LogHandle = nil
	}
}
