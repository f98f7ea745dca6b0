package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/olehluchkiv/cattr/internal/annotator"
	"github.com/olehluchkiv/cattr/internal/config"
	"github.com/olehluchkiv/cattr/internal/logging"
)

const usage = "Usage: annotate [flags] <input C file> <output C file> 'annotation_1:f1,f2;annotation_2:f1,f4,f5'"

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run executes one annotate invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// Flags may follow the positional arguments: "annotate in.c out.c hot:foo -strict".
	flags, positional := reorderArgs(args)

	fs := flag.NewFlagSet("annotate", flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.Usage = func() {
		fmt.Fprintln(stdout, usage)
		fs.PrintDefaults()
	}
	configFile := fs.String("config", "", "TOML config file")
	strict := fs.Bool("strict", false, "reject malformed spec entries instead of skipping them")
	logFile := fs.String("log-file", "", "also write JSON logs to this file")
	logLevel := fs.String("log-level", "", "log level (debug, info, warn, error)")

	if err := fs.Parse(flags); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	positional = append(positional, fs.Args()...)

	if len(positional) != 3 {
		fs.Usage()
		return 1
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	config.ApplyFlagOverrides(cfg, *logLevel, *logFile, *strict)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid log level %q: %v\n", cfg.Logging.Level, err)
		return 1
	}
	logger, logCleanup, err := logging.Setup(cfg.Logging.File, level)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to setup logging: %v\n", err)
		return 1
	}
	defer logCleanup()
	logger = logger.With("run_id", uuid.NewString())

	req := annotator.Request{
		Input:  positional[0],
		Output: positional[1],
		Spec:   positional[2],
		Strict: cfg.Strict,
	}
	res, err := annotator.AnnotateFile(ctx, req, logger.With("component", "annotator"))
	if err != nil {
		logger.Error("annotation failed", "input", req.Input, "error", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Input: %s\n", res.Spec)
	fmt.Fprintf(stdout, "Annotated file saved as: %s\n", req.Output)
	return 0
}

// reorderArgs separates flags and positional arguments so flags can appear
// in any position. Flags that take a value (e.g., -config file.toml) consume
// the next arg.
func reorderArgs(args []string) (flags, positional []string) {
	valueFlagSet := map[string]bool{
		"-config": true, "-log-file": true, "-log-level": true,
		"--config": true, "--log-file": true, "--log-level": true,
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if strings.HasPrefix(arg, "-") && arg != "-" {
			flags = append(flags, arg)
			if !strings.Contains(arg, "=") && valueFlagSet[arg] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, arg)
		}
	}
	return flags, positional
}
