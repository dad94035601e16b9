// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-stack/stack"

	"github.com/scimaestro/maestro/internal/engine"
)

const defaultConfigPath = "Maestro.toml"

// Load reads and resolves the Maestro TOML config. path, if empty, is
// taken from MAESTRO_CONFIG, falling back to "Maestro.toml".
func Load(path string) (*Config, *engine.Error) {
	if path == "" {
		path = os.Getenv("MAESTRO_CONFIG")
	}
	if path == "" {
		path = defaultConfigPath
	}

	data, errGo := os.ReadFile(path)
	if errGo != nil {
		return nil, engine.NewIOError(errGo, "failed to read config file").
			With("path", path, "stack", stack.Trace().TrimRuntime())
	}

	var raw fileConfig
	meta, errGo := toml.Decode(string(data), &raw)
	if errGo != nil {
		return nil, engine.NewConfigError("failed to parse config file: " + errGo.Error()).
			With("path", path, "stack", stack.Trace().TrimRuntime())
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, engine.NewConfigError("unknown top-level field \"" + undecoded[0].String() + "\" in config file").
			With("path", path, "stack", stack.Trace().TrimRuntime())
	}

	cfg := &Config{
		Executors: make(map[string]*engine.Executor, len(raw.Executor)),
		Args:      raw.Args,
		Inputs:    raw.Inputs,
	}
	if cfg.Args == nil {
		cfg.Args = map[string]string{}
	}
	if cfg.Inputs == nil {
		cfg.Inputs = map[string][]string{}
	}

	for name := range raw.Executor {
		resolved, err := resolveExecutor(name, raw.Executor, nil)
		if err != nil {
			return nil, err
		}
		executor, err := toExecutor(name, resolved)
		if err != nil {
			return nil, err
		}
		cfg.Executors[name] = executor
	}

	for inputName, paths := range cfg.Inputs {
		for _, p := range paths {
			if _, errGo := os.Stat(p); errGo != nil {
				return nil, engine.NewConfigError("input file \"" + p + "\" for inputs entry \"" + inputName + "\" does not exist").
					With("stack", stack.Trace().TrimRuntime())
			}
		}
	}

	if err := validateRegistry(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
