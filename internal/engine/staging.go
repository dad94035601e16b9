// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package engine

// StagingMode controls how declared input files appear under
// maestro_inputs/ inside a process workdir.

type StagingMode int

const (
	// StagingCopy copies each input into maestro_inputs/ via `cp -r`.
	StagingCopy StagingMode = iota
	// StagingSymlink symlinks each input into maestro_inputs/ via `ln -s`.
	StagingSymlink
	// StagingNone exports the canonicalized absolute source path directly, no staging.
	StagingNone
)

// shellCommand returns the shell command used to materialize a staged input.
func (s StagingMode) shellCommand() string {
	switch s {
	case StagingCopy:
		return "cp -r"
	case StagingSymlink:
		return "ln -s"
	default:
		return ""
	}
}
