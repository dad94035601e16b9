// Copyright 2018-2021 (c) Cognizant Digital Business, Evolutionary AI. All rights reserved. Issued under the Apache 2.0 License.

package main

// maestro-demo wires a Maestro.toml config to a hand-written Process value
// and runs it. It is not a scaffolding CLI: it carries no subcommands for
// authoring new processes or configs.

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/karlmutch/envflag"
	logxi "github.com/karlmutch/logxi/v1"

	"github.com/scimaestro/maestro/pkg/maestro"
)

var (
	// Spew controls the verbose dump of the resolved config, enabled with -dump.
	Spew *spew.ConfigState

	configOpt   = flag.String("config", "", "path to Maestro.toml (defaults to MAESTRO_CONFIG or ./Maestro.toml)")
	dumpOpt     = flag.Bool("dump", false, "dump the resolved configuration before running")
	executorOpt = flag.String("executor", "default", "name of the [executor.<name>] table to run the demo process under")

	logger logxi.Logger
)

func init() {
	Spew = spew.NewDefaultConfig()
	Spew.Indent = "    "
	Spew.SortKeys = true
}

func main() {
	envflag.Parse()

	level := os.Getenv("MAESTRO_LOG_LEVEL")
	if level == "" {
		level = "INFO"
	}
	if _, set := os.LookupEnv("LOGXI"); !set {
		os.Setenv("LOGXI", "*="+level)
	}
	logxi.DisableCallstack()
	logger = logxi.New("maestro-demo")

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run() *maestro.Error {
	maestro.RequireExecutor(*executorOpt)

	cfg, err := maestro.LoadConfig(*configOpt)
	if err != nil {
		return err
	}

	if *dumpOpt {
		fmt.Println(Spew.Sdump(cfg))
	}

	executor, ok := cfg.Executors[*executorOpt]
	if !ok {
		_ = logger.Error("executor not found", "name", *executorOpt)
		return maestro.NewConfigError("executor \"" + *executorOpt + "\" not found")
	}

	session, err := maestro.Initialize()
	if err != nil {
		return err
	}
	defer maestro.Deinitialize()

	process := maestro.NewProcess("hello", "#!/bin/bash\necho hi > \"$out\"\n", nil,
		nil,
		[]maestro.NamedPath{{Var: "out", Path: "out.txt"}},
		nil,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outputs, err := maestro.Exe(ctx, session, executor, process)
	if err != nil {
		return err
	}

	for _, p := range outputs {
		fmt.Println(p)
	}
	return nil
}
