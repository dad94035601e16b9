// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package engine

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestShellQuoteRoundTripsAdversarialValues(t *testing.T) {
	cases := []string{
		`plain`,
		`has space`,
		`double"quote`,
		"back`tick",
		`dollar$sign`,
		`$(command substitution)`,
		"embedded\nnewline",
		`back\slash`,
	}
	for _, value := range cases {
		quoted := shellQuote(value)
		if !strings.HasPrefix(quoted, `"`) || !strings.HasSuffix(quoted, `"`) {
			t.Fatalf("shellQuote(%q) = %q, expected a double-quoted literal", value, quoted)
		}
		script := "printf '%s' " + quoted
		out, err := exec.Command("/bin/sh", "-c", script).Output()
		if err != nil {
			t.Fatalf("shellQuote(%q) produced a script the shell rejected: %v", value, err)
		}
		if string(out) != value {
			t.Fatalf("shellQuote(%q) round-tripped as %q", value, string(out))
		}
	}
}

func TestSanitizeVarReplacesWhitespace(t *testing.T) {
	if got := sanitizeVar("my   var\tname"); got != "my_var_name" {
		t.Fatalf("sanitizeVar collapsed whitespace incorrectly: %q", got)
	}
}

func TestCheckInputsExistReportsMissing(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present.txt")
	if err := os.WriteFile(present, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.txt")

	err := checkInputsExist("proc", []NamedPath{{Var: "a", Path: present}, {Var: "b", Path: missing}})
	if err == nil {
		t.Fatal("expected a NotFound error for the missing input")
	}
	if !err.Is(KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err.Kind)
	}
}

func TestCheckOutputsExistResolvesRelativePaths(t *testing.T) {
	workdir := t.TempDir()
	if err := os.WriteFile(filepath.Join(workdir, "out.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := checkOutputsExist("proc", workdir, []NamedPath{{Var: "out", Path: "out.txt"}}); err != nil {
		t.Fatalf("expected the relative output to resolve against workdir, got %v", err)
	}
	if err := checkOutputsExist("proc", workdir, []NamedPath{{Var: "out", Path: "missing.txt"}}); err == nil {
		t.Fatal("expected a NotFound error for the missing output")
	}
}

func TestPrepScriptWorkdirRejectsDuplicateProcessName(t *testing.T) {
	session := &Session{ID: "test", Workdir: t.TempDir()}
	process := NewProcess("dup", "echo hi\n", nil, nil, nil, nil)

	artifacts, err := prepScriptWorkdir(session, process, nil)
	if err != nil {
		t.Fatal(err)
	}
	artifacts.close()

	_, err = prepScriptWorkdir(session, process, nil)
	if err == nil {
		t.Fatal("expected AlreadyExists on the second call with the same process name")
	}
	if !err.Is(KindAlreadyExists) {
		t.Fatalf("expected KindAlreadyExists, got %v", err.Kind)
	}
}

func TestStageInputsNoneExportsCanonicalPath(t *testing.T) {
	session := &Session{ID: "test", Workdir: t.TempDir()}
	srcDir := t.TempDir()
	srcFile := filepath.Join(srcDir, "in.txt")
	if err := os.WriteFile(srcFile, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	process := NewProcess("stage-none", "echo\n", nil,
		[]NamedPath{{Var: "in", Path: srcFile}}, nil, nil)

	artifacts, err := prepScriptWorkdir(session, process, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer artifacts.close()

	if err := artifacts.stageInputs(StagingNone); err != nil {
		t.Fatal(err)
	}
	artifacts.LauncherFile.Close()
	artifacts.LauncherFile = nil

	contents, errGo := os.ReadFile(artifacts.LauncherPath)
	if errGo != nil {
		t.Fatal(errGo)
	}
	canonical, errGo := filepath.EvalSymlinks(srcFile)
	if errGo != nil {
		t.Fatal(errGo)
	}
	if want := "export in=" + shellQuote(canonical); !strings.Contains(string(contents), want) {
		t.Fatalf("expected %q in the launcher, got:\n%s", want, contents)
	}
}
