// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package engine

// SlurmConfig and its constituent types describe the #SBATCH directives
// emitted ahead of a job's launcher script.

import (
	"fmt"
	"strings"
)

// MemoryUnit distinguishes per-node from per-cpu memory requests; the flag
// name (mem vs mem-per-cpu) disambiguates, the rendered amount is identical.
type MemoryUnit int

const (
	MemoryPerNode MemoryUnit = iota
	MemoryPerCpu
)

// Memory is a quantity of RAM, stored internally in megabytes.
type Memory struct {
	Unit MemoryUnit
	MB   uint64
}

// MemoryFromMB builds a Memory value directly in megabytes.
func MemoryFromMB(unit MemoryUnit, mb uint64) Memory { return Memory{Unit: unit, MB: mb} }

// MemoryFromGB builds a Memory value from gigabytes.
func MemoryFromGB(unit MemoryUnit, gb uint64) Memory { return Memory{Unit: unit, MB: gb * 1024} }

func (m Memory) flag() string {
	if m.Unit == MemoryPerCpu {
		return "mem-per-cpu"
	}
	return "mem"
}

func (m Memory) render() string { return fmt.Sprintf("%dM", m.MB) }

// SlurmTime is a Slurm duration in d-hh:mm:ss form.
type SlurmTime struct {
	Days  uint16
	Hours uint16
	Mins  uint8
	Secs  uint8
}

func (t SlurmTime) String() string {
	return fmt.Sprintf("%d-%02d:%02d:%02d", t.Days, t.Hours, t.Mins, t.Secs)
}

// MailType enumerates the subset of sbatch --mail-type flags Maestro exposes.
type MailType string

const (
	MailNone          MailType = "NONE"
	MailAll           MailType = "ALL"
	MailBegin         MailType = "BEGIN"
	MailEnd           MailType = "END"
	MailFail          MailType = "FAIL"
	MailRequeue       MailType = "REQUEUE"
	MailInvalidDepend MailType = "INVALID_DEPEND"
	MailStageOut      MailType = "STAGE_OUT"
	MailTimeLimit50   MailType = "TIME_LIMIT_50"
	MailTimeLimit80   MailType = "TIME_LIMIT_80"
	MailTimeLimit90   MailType = "TIME_LIMIT_90"
	MailTimeLimit     MailType = "TIME_LIMIT"
	MailArrayTasks    MailType = "ARRAY_TASKS"
)

// Option is a free-form additional sbatch flag/value pair.
type Option struct {
	Flag  string
	Value string
}

// SlurmConfig is the set of #SBATCH directives emitted ahead of a job's
// launcher script.
type SlurmConfig struct {
	Cpus              *uint64
	Memory            *Memory
	Gpus              *uint64
	Tasks             *uint64
	Nodes             *uint64
	Partition         *string
	Time              *SlurmTime
	Account           *string
	MailUser          *string
	MailType          []MailType
	AdditionalOptions []Option
}

// Directives renders the #SBATCH lines in a fixed order: cpus-per-task,
// gpus, mem|mem-per-cpu, ntasks, nodes, partition, time, account,
// mail-user, mail-type, then additional options in insertion order.
func (c SlurmConfig) Directives() string {
	var b strings.Builder
	writeU64 := func(flag string, v *uint64) {
		if v != nil {
			fmt.Fprintf(&b, "#SBATCH --%s=%d\n", flag, *v)
		}
	}
	writeStr := func(flag string, v *string) {
		if v != nil {
			fmt.Fprintf(&b, "#SBATCH --%s=%s\n", flag, *v)
		}
	}

	writeU64("cpus-per-task", c.Cpus)
	writeU64("gpus", c.Gpus)
	if c.Memory != nil {
		fmt.Fprintf(&b, "#SBATCH --%s=%s\n", c.Memory.flag(), c.Memory.render())
	}
	writeU64("ntasks", c.Tasks)
	writeU64("nodes", c.Nodes)
	writeStr("partition", c.Partition)
	if c.Time != nil {
		fmt.Fprintf(&b, "#SBATCH --time=%s\n", c.Time.String())
	}
	writeStr("account", c.Account)
	writeStr("mail-user", c.MailUser)
	if len(c.MailType) > 0 {
		names := make([]string, len(c.MailType))
		for i, m := range c.MailType {
			names[i] = string(m)
		}
		fmt.Fprintf(&b, "#SBATCH --mail-type=%s\n", strings.Join(names, ","))
	}
	for _, opt := range c.AdditionalOptions {
		fmt.Fprintf(&b, "#SBATCH --%s=%s\n", opt.Flag, opt.Value)
	}
	return b.String()
}
