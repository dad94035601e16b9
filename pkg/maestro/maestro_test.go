// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package maestro

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestPublicFacadeRunsALocalProcessEndToEnd(t *testing.T) {
	workdir := t.TempDir()
	os.Setenv("MAESTRO_SESSION_ID", "facade-test")
	os.Setenv("MAESTRO_WORKDIR", workdir)
	defer os.Unsetenv("MAESTRO_SESSION_ID")
	defer os.Unsetenv("MAESTRO_WORKDIR")

	configDir := t.TempDir()
	configPath := filepath.Join(configDir, "Maestro.toml")
	if err := os.WriteFile(configPath, []byte("[executor.default]\ntype = \"Local\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	executor, ok := cfg.Executors["default"]
	if !ok {
		t.Fatal("expected a \"default\" executor to resolve from config")
	}

	session, err := Initialize()
	if err != nil {
		t.Fatal(err)
	}
	defer Deinitialize()

	process := NewProcess("facade-hello", "#!/bin/bash\necho hi > \"$out\"\n", nil,
		nil, []NamedPath{{Var: "out", Path: "out.txt"}}, nil)

	outputs, err := Exe(context.Background(), session, executor, process)
	if err != nil {
		t.Fatal(err)
	}

	want := filepath.Join(session.Workdir, "facade-hello", "out.txt")
	if outputs[0] != want {
		t.Fatalf("expected output %q, got %q", want, outputs[0])
	}
}

func TestRequireExecutorValidatesAgainstConfig(t *testing.T) {
	configDir := t.TempDir()
	configPath := filepath.Join(configDir, "Maestro.toml")
	if err := os.WriteFile(configPath, []byte("[executor.default]\ntype = \"Local\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	RequireExecutor("missing-executor")
	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("expected LoadConfig to fail when a required executor is absent")
	}
	if !err.Is(KindConfigError) {
		t.Fatalf("expected KindConfigError, got %v", err.Kind)
	}
}
