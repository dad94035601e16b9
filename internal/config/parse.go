// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package config

import (
	"fmt"

	"github.com/go-stack/stack"

	"github.com/scimaestro/maestro/internal/engine"
)

// parseExecutorSpec parses a concrete (non-inherit) executor table into a
// spec, rejecting unknown fields and fields that belong to the other
// executor type.
func parseExecutorSpec(name string, raw map[string]interface{}) (*spec, *engine.Error) {
	rawType, ok := raw["type"].(string)
	if !ok {
		return nil, engine.NewConfigError("executor \"" + name + "\" is missing a \"type\" field").
			With("stack", stack.Trace().TrimRuntime())
	}

	var known map[string]bool
	switch rawType {
	case "Local":
		known = localKnownKeys
	case "Slurm":
		known = slurmKnownKeys
	default:
		return nil, engine.NewConfigError("executor \"" + name + "\" has unknown type \"" + rawType + "\"").
			With("stack", stack.Trace().TrimRuntime())
	}

	if err := rejectUnknownFields(name, raw, known); err != nil {
		return nil, err
	}

	s := &spec{Type: rawType}

	if v, ok := raw["staging_mode"].(string); ok {
		s.StagingMode = &v
	}
	if raw["container"] != nil {
		c, err := parseContainer(name, raw["container"])
		if err != nil {
			return nil, err
		}
		s.Container = c
	}

	if rawType == "Local" {
		return s, nil
	}

	if v, ok := raw["poll_rate"].(string); ok {
		s.PollRate = &v
	}
	if v, ok := raw["modules"].([]interface{}); ok {
		for _, m := range v {
			if str, ok := m.(string); ok {
				s.Modules = append(s.Modules, str)
			}
		}
	}
	s.Cpus = asUint64(raw["cpus"])
	s.Gpus = asUint64(raw["gpus"])
	s.Tasks = asUint64(raw["tasks"])
	s.Nodes = asUint64(raw["nodes"])
	if v, ok := raw["partition"].(string); ok {
		s.Partition = &v
	}
	if v, ok := raw["account"].(string); ok {
		s.Account = &v
	}
	if v, ok := raw["mail_user"].(string); ok {
		s.MailUser = &v
	}

	if raw["memory"] != nil {
		m, err := parseMemory(name, raw["memory"])
		if err != nil {
			return nil, err
		}
		s.Memory = m
	}
	if raw["time"] != nil {
		t, err := parseSlurmTime(name, raw["time"])
		if err != nil {
			return nil, err
		}
		s.Time = t
	}
	if v, ok := raw["mail_type"].([]interface{}); ok {
		for _, m := range v {
			str, ok := m.(string)
			if !ok {
				continue
			}
			s.MailType = append(s.MailType, engine.MailType(str))
		}
	}
	if v, ok := raw["additional_options"].([]interface{}); ok {
		opts, err := parseAdditionalOptions(name, v)
		if err != nil {
			return nil, err
		}
		s.AdditionalOptions = opts
	}

	return s, nil
}

func rejectUnknownFields(name string, raw map[string]interface{}, known map[string]bool) *engine.Error {
	for k := range raw {
		if !known[k] {
			return engine.NewConfigError(fmt.Sprintf("executor %q has unknown field %q", name, k)).
				With("stack", stack.Trace().TrimRuntime())
		}
	}
	return nil
}

func parseContainer(name string, v interface{}) (*engine.Container, *engine.Error) {
	raw, ok := v.(map[string]interface{})
	if !ok {
		return nil, engine.NewConfigError("executor \"" + name + "\" has a malformed container table").
			With("stack", stack.Trace().TrimRuntime())
	}
	kindStr, _ := raw["type"].(string)
	var kind engine.ContainerKind
	switch kindStr {
	case "Docker":
		kind = engine.ContainerDocker
	case "Apptainer":
		kind = engine.ContainerApptainer
	case "Podman":
		kind = engine.ContainerPodman
	default:
		return nil, engine.NewConfigError("executor \"" + name + "\" container has unknown type \"" + kindStr + "\"").
			With("stack", stack.Trace().TrimRuntime())
	}
	image, _ := raw["image"].(string)
	return &engine.Container{Kind: kind, Image: image}, nil
}

// parseMemory accepts { type = "PerNode"|"PerCpu", amount = N, unit = "MB"|"GB" }.
// unit defaults to "MB" when absent.
func parseMemory(name string, v interface{}) (*engine.Memory, *engine.Error) {
	raw, ok := v.(map[string]interface{})
	if !ok {
		return nil, engine.NewConfigError("executor \"" + name + "\" has a malformed memory table").
			With("stack", stack.Trace().TrimRuntime())
	}
	kindStr, _ := raw["type"].(string)
	var unit engine.MemoryUnit
	switch kindStr {
	case "PerNode":
		unit = engine.MemoryPerNode
	case "PerCpu":
		unit = engine.MemoryPerCpu
	default:
		return nil, engine.NewConfigError("executor \"" + name + "\" memory has unknown type \"" + kindStr + "\"").
			With("stack", stack.Trace().TrimRuntime())
	}
	amount := asUint64(raw["amount"])
	if amount == nil {
		return nil, engine.NewConfigError("executor \"" + name + "\" memory is missing \"amount\"").
			With("stack", stack.Trace().TrimRuntime())
	}
	unitStr, _ := raw["unit"].(string)
	mem := engine.MemoryFromMB(unit, *amount)
	if unitStr == "GB" {
		mem = engine.MemoryFromGB(unit, *amount)
	}
	return &mem, nil
}

func parseSlurmTime(name string, v interface{}) (*engine.SlurmTime, *engine.Error) {
	raw, ok := v.(map[string]interface{})
	if !ok {
		return nil, engine.NewConfigError("executor \"" + name + "\" has a malformed time table").
			With("stack", stack.Trace().TrimRuntime())
	}
	days := asUint64(raw["days"])
	hours := asUint64(raw["hours"])
	mins := asUint64(raw["mins"])
	secs := asUint64(raw["secs"])
	t := engine.SlurmTime{}
	if days != nil {
		t.Days = uint16(*days)
	}
	if hours != nil {
		t.Hours = uint16(*hours)
	}
	if mins != nil {
		t.Mins = uint8(*mins)
	}
	if secs != nil {
		t.Secs = uint8(*secs)
	}
	return &t, nil
}

func parseAdditionalOptions(name string, raw []interface{}) ([]engine.Option, *engine.Error) {
	opts := make([]engine.Option, 0, len(raw))
	for _, entry := range raw {
		pair, ok := entry.([]interface{})
		if !ok || len(pair) != 2 {
			return nil, engine.NewConfigError("executor \"" + name + "\" additional_options entry must be a [flag, value] pair").
				With("stack", stack.Trace().TrimRuntime())
		}
		flag, ok1 := pair[0].(string)
		value, ok2 := pair[1].(string)
		if !ok1 || !ok2 {
			return nil, engine.NewConfigError("executor \"" + name + "\" additional_options entries must be strings").
				With("stack", stack.Trace().TrimRuntime())
		}
		opts = append(opts, engine.Option{Flag: flag, Value: value})
	}
	return opts, nil
}

func asUint64(v interface{}) *uint64 {
	switch n := v.(type) {
	case int64:
		if n < 0 {
			return nil
		}
		u := uint64(n)
		return &u
	case int:
		if n < 0 {
			return nil
		}
		u := uint64(n)
		return &u
	default:
		return nil
	}
}
