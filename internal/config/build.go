// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package config

import (
	"time"

	"github.com/go-stack/stack"

	"github.com/scimaestro/maestro/internal/engine"
)

func parseStagingMode(name string, v *string) (engine.StagingMode, *engine.Error) {
	if v == nil {
		return engine.StagingCopy, nil
	}
	switch *v {
	case "Copy":
		return engine.StagingCopy, nil
	case "Symlink":
		return engine.StagingSymlink, nil
	case "None":
		return engine.StagingNone, nil
	default:
		return 0, engine.NewConfigError("executor \"" + name + "\" has unknown staging_mode \"" + *v + "\"").
			With("stack", stack.Trace().TrimRuntime())
	}
}

// toExecutor translates a resolved spec into a concrete engine.Executor.
func toExecutor(name string, s *spec) (*engine.Executor, *engine.Error) {
	staging, err := parseStagingMode(name, s.StagingMode)
	if err != nil {
		return nil, err
	}

	if s.Type == "Local" {
		return engine.NewLocalExecutor(&engine.LocalExecutor{
			StagingMode: staging,
			Container:   s.Container,
		}), nil
	}

	pollRate := 5 * time.Second
	if s.PollRate != nil {
		d, errGo := time.ParseDuration(*s.PollRate)
		if errGo != nil {
			return nil, engine.NewConfigError("executor \"" + name + "\" has an unparseable poll_rate \"" + *s.PollRate + "\"").
				With("stack", stack.Trace().TrimRuntime())
		}
		pollRate = d
	}

	cfg := engine.SlurmConfig{
		Cpus:              s.Cpus,
		Memory:            s.Memory,
		Gpus:              s.Gpus,
		Tasks:             s.Tasks,
		Nodes:             s.Nodes,
		Partition:         s.Partition,
		Time:              s.Time,
		Account:           s.Account,
		MailUser:          s.MailUser,
		MailType:          s.MailType,
		AdditionalOptions: s.AdditionalOptions,
	}

	return engine.NewSlurmExecutor(&engine.SlurmExecutor{
		PollRate:    pollRate,
		StagingMode: staging,
		Modules:     s.Modules,
		Container:   s.Container,
		Config:      cfg,
	}), nil
}
