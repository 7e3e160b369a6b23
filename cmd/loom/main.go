// Package main is the entry point for the Loom editor.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/loom/internal/app"
	"github.com/dshills/loom/internal/config"
	"github.com/dshills/loom/internal/term"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		logPath     string
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&logPath, "log", "", "Write logs to this file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Loom - modal terminal editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: loom [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("Loom %s (%s)\n", version, commit)
		return 0
	}

	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: config: %v\n", err)
		return 1
	}

	opts := []app.Option{app.WithConfig(cfg)}
	if logPath != "" {
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: log file: %v\n", err)
			return 1
		}
		defer logFile.Close()
		opts = append(opts, app.WithLogOutput(logFile))
	} else {
		// The terminal UI owns stderr; drop logs unless a file is given.
		opts = append(opts, app.WithLogger(app.NullLogger))
	}

	path := flag.Arg(0)
	application, err := app.New(path, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer application.Close()

	if err := application.LoadInitScript(); err != nil {
		application.Logger().Warn("init script: %v", err)
	}

	// Live-reload the config file while running.
	if watcher, err := config.Watch(configPath); err == nil {
		watcher.OnReload(application.ApplyConfig)
		defer watcher.Close()
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		application.Quit()
	}()

	ui, err := term.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: terminal: %v\n", err)
		return 1
	}
	if err := ui.Run(application); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
