// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package config

// Raw, pre-merge representations of the TOML config schema. Executor
// entries decode into a generic map so that concrete and
// `inherit = "parent"` nodes can share one shape until resolveExecutor
// tells them apart.

import (
	"github.com/scimaestro/maestro/internal/engine"
)

// fileConfig is the top-level shape of Maestro.toml.
type fileConfig struct {
	Executor map[string]map[string]interface{} `toml:"executor"`
	Args     map[string]string                 `toml:"args"`
	Inputs   map[string][]string               `toml:"inputs"`
}

// Config is the fully resolved, validated configuration produced by Load.
type Config struct {
	Executors map[string]*engine.Executor
	Args      map[string]string
	Inputs    map[string][]string
}

// spec is the resolved, concrete form of a single executor entry, prior
// to translation into an engine.Executor.
type spec struct {
	Type        string
	StagingMode *string
	Container   *engine.Container

	PollRate          *string
	Modules           []string
	Cpus              *uint64
	Memory            *engine.Memory
	Gpus              *uint64
	Tasks             *uint64
	Nodes             *uint64
	Partition         *string
	Time              *engine.SlurmTime
	Account           *string
	MailUser          *string
	MailType          []engine.MailType
	AdditionalOptions []engine.Option
}

var localKnownKeys = map[string]bool{
	"type": true, "staging_mode": true, "container": true,
}

var slurmOnlyKeys = map[string]bool{
	"poll_rate": true, "modules": true, "cpus": true, "memory": true,
	"gpus": true, "tasks": true, "nodes": true, "partition": true,
	"time": true, "account": true, "mail_user": true, "mail_type": true,
	"additional_options": true,
}

var slurmKnownKeys = func() map[string]bool {
	m := map[string]bool{}
	for k := range localKnownKeys {
		m[k] = true
	}
	for k := range slurmOnlyKeys {
		m[k] = true
	}
	return m
}()
