// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package engine

import (
	"context"
	"path/filepath"
	"testing"
)

func TestExecutorDispatchesToLocal(t *testing.T) {
	session := &Session{ID: "test", Workdir: t.TempDir()}
	process := NewProcess("dispatch-local", "#!/bin/bash\necho hi > \"$out\"\n", nil,
		nil, []NamedPath{{Var: "out", Path: "out.txt"}}, nil)

	executor := NewLocalExecutor(&LocalExecutor{StagingMode: StagingCopy})
	outputs, err := executor.Exe(context.Background(), session, process)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(session.Workdir, "dispatch-local", "out.txt")
	if outputs[0] != want {
		t.Fatalf("expected output %q, got %q", want, outputs[0])
	}
}

func TestExecutorWithNoBackendConfigured(t *testing.T) {
	executor := &Executor{}
	session := &Session{ID: "test", Workdir: t.TempDir()}
	process := NewProcess("noop", "#!/bin/bash\ntrue\n", nil, nil, nil, nil)

	_, err := executor.Exe(context.Background(), session, process)
	if err == nil {
		t.Fatal("expected an error for an Executor with no backend set")
	}
	if !err.Is(KindConfigError) {
		t.Fatalf("expected KindConfigError, got %v", err.Kind)
	}
}
