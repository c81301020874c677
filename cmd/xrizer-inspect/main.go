// Command xrizer-inspect is an interactive inspector for the input/
// tracking core. It drives a session over a simulated backend runtime:
// devices are attached, inputs scripted and cycles synced from the
// prompt, and every surface of the core can be polled in between.
//
// Usage:
//
//	xrizer-inspect [flags]
//
// Flags:
//
//	-config <file>    YAML configuration file
//	-manifest <file>  Action manifest (overrides config)
//	-bindings <dir>   Default bindings directory (overrides config)
//	-log <file>       Event log output (overrides config)
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/testerpester2/xrizer/internal/testharness/fakert"
	"github.com/testerpester2/xrizer/pkg/binding"
	"github.com/testerpester2/xrizer/pkg/config"
	"github.com/testerpester2/xrizer/pkg/log"
	"github.com/testerpester2/xrizer/pkg/runtime"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	manifest := flag.String("manifest", "", "Action manifest path (overrides config)")
	bindingsDir := flag.String("bindings", "", "Default bindings directory (overrides config)")
	logFile := flag.String("log", "", "Event log output path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *manifest != "" {
		cfg.ManifestPath = *manifest
	}
	if *bindingsDir != "" {
		cfg.DefaultBindingsDir = *bindingsDir
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}

	var model *binding.Model
	if cfg.ManifestPath != "" {
		model, err = runtime.LoadModel(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading bindings: %v\n", err)
			os.Exit(1)
		}
	} else {
		model, err = binding.NewModel(&binding.Manifest{}, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	var logger log.Logger = log.NoopLogger{}
	if cfg.LogFile != "" {
		fl, err := log.NewFileLogger(cfg.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer fl.Close()
		logger = fl
	}

	rt := fakert.New()
	session := runtime.NewSession(cfg, rt, model, logger)
	defer session.Close()

	shell, err := newShell(session, rt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	shell.run(ctx, cancel)
}
