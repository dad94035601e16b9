// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package engine

import (
	"errors"
	"testing"
)

func TestErrorIsClassifiesByKind(t *testing.T) {
	err := NewAlreadyExistsError("dup")
	if !err.Is(KindAlreadyExists) {
		t.Fatal("expected error to report KindAlreadyExists")
	}
	if err.Is(KindIOError) {
		t.Fatal("error must not report a kind it wasn't constructed with")
	}
}

func TestErrorIsNilSafe(t *testing.T) {
	var err *Error
	if err.Is(KindIOError) {
		t.Fatal("a nil *Error must never report a kind")
	}
}

func TestWrapErrorPreservesUnderlying(t *testing.T) {
	underlying := errors.New("disk full")
	err := wrapError(KindIOError, underlying, "failed to write")
	if !err.Is(KindIOError) {
		t.Fatal("expected KindIOError")
	}
	if err.Error.Error() == "" {
		t.Fatal("expected a non-empty wrapped message")
	}
}

func TestWithPreservesKind(t *testing.T) {
	err := NewNotFoundError("proc", "Input", []string{"/a", "/b"}).With("extra", "context")
	if !err.Is(KindNotFound) {
		t.Fatal("With must not change the error's Kind")
	}
}
