// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package engine

import (
	"testing"

	"github.com/go-test/deep"
)

func TestNewProcessAddsShebang(t *testing.T) {
	p := NewProcess("noop", "echo hi\n", nil, nil, nil, nil)
	if p.Script != "#!/bin/bash\necho hi\n" {
		t.Fatalf("expected shebang to be prepended, got %q", p.Script)
	}
}

func TestNewProcessKeepsExistingShebang(t *testing.T) {
	p := NewProcess("noop", "#!/bin/sh\necho hi\n", nil, nil, nil, nil)
	if p.Script != "#!/bin/sh\necho hi\n" {
		t.Fatalf("expected existing shebang to be preserved, got %q", p.Script)
	}
}

func TestNewProcessCopiesSlices(t *testing.T) {
	inputs := []NamedPath{{Var: "in", Path: "/tmp/a"}}
	p := NewProcess("copy", "echo\n", nil, inputs, nil, nil)

	inputs[0].Path = "/tmp/mutated"
	if p.Inputs[0].Path != "/tmp/a" {
		t.Fatalf("NewProcess must copy its input slice, got %q", p.Inputs[0].Path)
	}
}

func TestProcessClone(t *testing.T) {
	p := NewProcess("clone-me", "echo hi\n", &Container{Kind: ContainerDocker, Image: "alpine"},
		[]NamedPath{{Var: "in", Path: "/tmp/a"}},
		[]NamedPath{{Var: "out", Path: "out.txt"}},
		[]NamedArg{{Var: "n", Value: "1"}},
	)

	clone, err := p.Clone()
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(p, clone); diff != nil {
		t.Fatalf("clone differs from original: %v", diff)
	}

	clone.Inputs[0].Path = "/tmp/b"
	if p.Inputs[0].Path != "/tmp/a" {
		t.Fatal("mutating the clone's inputs must not affect the original")
	}

	clone.Container.Image = "ubuntu"
	if p.Container.Image != "alpine" {
		t.Fatal("mutating the clone's container must not affect the original")
	}
}

func TestCloneRetrySuffixesName(t *testing.T) {
	p := NewProcess("job", "echo\n", nil, nil, nil, nil)

	retry, err := p.CloneRetry()
	if err != nil {
		t.Fatal(err)
	}
	if retry.Name == p.Name {
		t.Fatalf("expected CloneRetry to mint a distinct name, got the same %q", retry.Name)
	}
	if len(retry.Name) <= len(p.Name)+1 {
		t.Fatalf("expected a non-empty suffix appended to %q, got %q", p.Name, retry.Name)
	}
}
