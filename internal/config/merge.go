// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package config

// Executor inheritance resolution: walks `inherit = "parent"` chains,
// detecting cycles and unknown parents, then applies overrides deepest-first
// using the Local<-Local / Slurm<-Slurm merge rules.

import (
	"fmt"

	"github.com/go-stack/stack"

	"github.com/scimaestro/maestro/internal/engine"
)

// resolveExecutor resolves a single named executor entry, following any
// inherit chain. chain tracks visited names for cycle detection.
func resolveExecutor(name string, table map[string]map[string]interface{}, chain []string) (*spec, *engine.Error) {
	for _, visited := range chain {
		if visited == name {
			return nil, engine.NewConfigError("Circular dependence on executor " + name).
				With("stack", stack.Trace().TrimRuntime())
		}
	}

	raw, ok := table[name]
	if !ok {
		return nil, engine.NewConfigError("Unable to resolve inherited executor " + name).
			With("stack", stack.Trace().TrimRuntime())
	}

	parent, isInherit := raw["inherit"].(string)
	if !isInherit {
		return parseExecutorSpec(name, raw)
	}

	base, err := resolveExecutor(parent, table, append(chain, name))
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		if k == "inherit" {
			continue
		}
		overrides[k] = v
	}

	known := localKnownKeys
	if base.Type == "Slurm" {
		known = slurmKnownKeys
	}
	if err := rejectUnknownFields(name, overrides, known); err != nil {
		return nil, err
	}

	return mergeExecutor(name, parent, base, overrides)
}

// mergeExecutor applies overrides onto base following the Local<-Local /
// Slurm<-Slurm merge rules.
func mergeExecutor(childName, parentName string, base *spec, overrides map[string]interface{}) (*spec, *engine.Error) {
	if rawType, ok := overrides["type"].(string); ok && rawType != base.Type {
		return nil, engine.NewConfigError(fmt.Sprintf(
			"Attempted to inherit from an executor of a different type: %s from %s", rawType, base.Type)).
			With("child", childName, "parent", parentName, "stack", stack.Trace().TrimRuntime())
	}

	if base.Type == "Local" {
		for k, v := range overrides {
			if k == "type" {
				continue
			}
			if slurmOnlyKeys[k] && !isEmptyOverride(v) {
				return nil, engine.NewConfigError(
					"Attempted to inherit from an executor of a different type: Slurm from Local").
					With("child", childName, "parent", parentName, "stack", stack.Trace().TrimRuntime())
			}
		}
	}

	merged := *base // shallow copy; pointer fields are replaced wholesale below, not mutated in place.

	if v, ok := overrides["staging_mode"].(string); ok {
		merged.StagingMode = &v
	}
	if overrides["container"] != nil {
		c, err := parseContainer(childName, overrides["container"])
		if err != nil {
			return nil, err
		}
		merged.Container = c
	}

	if base.Type != "Slurm" {
		return &merged, nil
	}

	if v, ok := overrides["poll_rate"].(string); ok {
		merged.PollRate = &v
	}
	if v, ok := overrides["modules"].([]interface{}); ok {
		var overrideModules []string
		for _, m := range v {
			if str, ok := m.(string); ok {
				overrideModules = append(overrideModules, str)
			}
		}
		merged.Modules = append(overrideModules, base.Modules...)
	}
	if v := asUint64(overrides["cpus"]); v != nil {
		merged.Cpus = v
	}
	if v := asUint64(overrides["gpus"]); v != nil {
		merged.Gpus = v
	}
	if v := asUint64(overrides["tasks"]); v != nil {
		merged.Tasks = v
	}
	if v := asUint64(overrides["nodes"]); v != nil {
		merged.Nodes = v
	}
	if v, ok := overrides["partition"].(string); ok {
		merged.Partition = &v
	}
	if v, ok := overrides["account"].(string); ok {
		merged.Account = &v
	}
	if v, ok := overrides["mail_user"].(string); ok {
		merged.MailUser = &v
	}
	if overrides["memory"] != nil {
		m, err := parseMemory(childName, overrides["memory"])
		if err != nil {
			return nil, err
		}
		merged.Memory = m
	}
	if overrides["time"] != nil {
		t, err := parseSlurmTime(childName, overrides["time"])
		if err != nil {
			return nil, err
		}
		merged.Time = t
	}
	if v, ok := overrides["mail_type"].([]interface{}); ok {
		merged.MailType = nil
		for _, m := range v {
			if str, ok := m.(string); ok {
				merged.MailType = append(merged.MailType, engine.MailType(str))
			}
		}
	}
	if v, ok := overrides["additional_options"].([]interface{}); ok {
		overrideOpts, err := parseAdditionalOptions(childName, v)
		if err != nil {
			return nil, err
		}
		merged.AdditionalOptions = append(overrideOpts, base.AdditionalOptions...)
	}

	return &merged, nil
}

func isEmptyOverride(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case []interface{}:
		return len(x) == 0
	case string:
		return x == ""
	default:
		return false
	}
}
