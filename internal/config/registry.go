// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package config

// Registry lets a user-authored workflow package declare which config
// names it depends on: it calls RequireExecutor/RequireArg/RequireInput,
// typically from an init() func. Load validates every registered name
// resolves, recording the registration call site so a failure can point
// back at the requiring code.

import (
	"sync"

	"github.com/go-stack/stack"

	"github.com/scimaestro/maestro/internal/engine"
)

type requirement struct {
	name  string
	trace stack.CallStack
}

var (
	registryMu sync.Mutex
	reqExecs   []requirement
	reqArgs    []requirement
	reqInputs  []requirement
)

// RequireExecutor declares that an executor named name must be defined by
// the time Load runs.
func RequireExecutor(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	reqExecs = append(reqExecs, requirement{name: name, trace: stack.Trace().TrimRuntime()})
}

// RequireArg declares that an arg named name must be defined by the time
// Load runs.
func RequireArg(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	reqArgs = append(reqArgs, requirement{name: name, trace: stack.Trace().TrimRuntime()})
}

// RequireInput declares that an inputs entry named name must be defined by
// the time Load runs.
func RequireInput(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	reqInputs = append(reqInputs, requirement{name: name, trace: stack.Trace().TrimRuntime()})
}

// resetRegistry clears all registered requirements; used by tests so one
// test's requirements don't leak into another's Load call.
func resetRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()
	reqExecs, reqArgs, reqInputs = nil, nil, nil
}

func validateRegistry(cfg *Config) *engine.Error {
	registryMu.Lock()
	defer registryMu.Unlock()

	for _, r := range reqExecs {
		if _, ok := cfg.Executors[r.name]; !ok {
			return engine.NewConfigError("required executor \"" + r.name + "\" is not defined").
				With("requested_at", r.trace)
		}
	}
	for _, r := range reqArgs {
		if _, ok := cfg.Args[r.name]; !ok {
			return engine.NewConfigError("required arg \"" + r.name + "\" is not defined").
				With("requested_at", r.trace)
		}
	}
	for _, r := range reqInputs {
		if _, ok := cfg.Inputs[r.name]; !ok {
			return engine.NewConfigError("required inputs entry \"" + r.name + "\" is not defined").
				With("requested_at", r.trace)
		}
	}
	return nil
}
