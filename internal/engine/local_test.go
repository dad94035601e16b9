// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLocalExecutorRunsScriptAndReturnsOutputs(t *testing.T) {
	session := &Session{ID: "test", Workdir: t.TempDir()}
	process := NewProcess("greet", "#!/bin/bash\necho hello > \"$out\"\n", nil,
		nil, []NamedPath{{Var: "out", Path: "out.txt"}}, nil)

	executor := &LocalExecutor{StagingMode: StagingCopy}
	outputs, err := executor.Exe(context.Background(), session, process)
	if err != nil {
		t.Fatal(err)
	}

	if len(outputs) != 2 {
		t.Fatalf("expected one output path plus the workdir, got %v", outputs)
	}
	outPath := filepath.Join(session.Workdir, "greet", "out.txt")
	if outputs[0] != outPath {
		t.Fatalf("expected first output to be %q, got %q", outPath, outputs[0])
	}

	contents, errGo := os.ReadFile(outPath)
	if errGo != nil {
		t.Fatal(errGo)
	}
	if strings.TrimSpace(string(contents)) != "hello" {
		t.Fatalf("expected script output %q, got %q", "hello", contents)
	}
}

func TestLocalExecutorReportsNonZeroExit(t *testing.T) {
	session := &Session{ID: "test", Workdir: t.TempDir()}
	process := NewProcess("fail", "#!/bin/bash\nexit 3\n", nil, nil, nil, nil)

	executor := &LocalExecutor{StagingMode: StagingCopy}
	_, err := executor.Exe(context.Background(), session, process)
	if err == nil {
		t.Fatal("expected a ProcessError for the non-zero exit")
	}
	if !err.Is(KindProcessError) {
		t.Fatalf("expected KindProcessError, got %v", err.Kind)
	}
}

func TestLocalExecutorReportsMissingOutput(t *testing.T) {
	session := &Session{ID: "test", Workdir: t.TempDir()}
	process := NewProcess("noop", "#!/bin/bash\ntrue\n", nil, nil,
		[]NamedPath{{Var: "out", Path: "never-written.txt"}}, nil)

	executor := &LocalExecutor{StagingMode: StagingCopy}
	_, err := executor.Exe(context.Background(), session, process)
	if err == nil {
		t.Fatal("expected a NotFound error for the declared output the script never wrote")
	}
	if !err.Is(KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err.Kind)
	}
}

func TestLocalExecutorRespectsContextCancellation(t *testing.T) {
	session := &Session{ID: "test", Workdir: t.TempDir()}
	process := NewProcess("slow", "#!/bin/bash\nsleep 5\n", nil, nil, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	executor := &LocalExecutor{StagingMode: StagingCopy}
	_, err := executor.Exe(ctx, session, process)
	if err == nil {
		t.Fatal("expected the cancelled context to terminate the child process with an error")
	}
}

func TestLocalExecutorStagesInputsByCopy(t *testing.T) {
	session := &Session{ID: "test", Workdir: t.TempDir()}
	srcDir := t.TempDir()
	srcFile := filepath.Join(srcDir, "in.txt")
	if err := os.WriteFile(srcFile, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	process := NewProcess("copy-input", "#!/bin/bash\ncat \"$in\" > \"$out\"\n", nil,
		[]NamedPath{{Var: "in", Path: srcFile}},
		[]NamedPath{{Var: "out", Path: "out.txt"}},
		nil)

	executor := &LocalExecutor{StagingMode: StagingCopy}
	_, err := executor.Exe(context.Background(), session, process)
	if err != nil {
		t.Fatal(err)
	}

	contents, errGo := os.ReadFile(filepath.Join(session.Workdir, "copy-input", "out.txt"))
	if errGo != nil {
		t.Fatal(errGo)
	}
	if string(contents) != "payload" {
		t.Fatalf("expected staged input to be readable by the script, got %q", contents)
	}
}
