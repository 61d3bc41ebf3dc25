// Command relay runs a fixed pool of workers taking strict round-robin
// turns printing slices of a cyclic character sequence.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ygrebnov/relay"
)

var version = "dev"

func main() {
	var (
		sequence    = flag.String("sequence", "", "character sequence to cycle through (required)")
		charCount   = flag.Int("chars", 0, "characters emitted per turn (required, > 0)")
		workers     = flag.Int("workers", 0, "number of workers taking turns (required, > 0)")
		configFile  = flag.String("config", "", "config file path (.toml, .yaml or .yml); flags override file values")
		duration    = flag.Duration("duration", 0, "stop after this long (0 = run until interrupted)")
		maxTurns    = flag.Int("turns", 0, "stop after this many turns (0 = unlimited)")
		logLevel    = flag.String("log-level", "info", "log level (trace, debug, info, warn, error)")
		quiet       = flag.Bool("quiet", false, "suppress log output, keep turn lines")
		showVersion = flag.Bool("version", false, "print version and exit")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `relay - round-robin turn-taking printer

Usage:
  relay [options]

Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # three workers, two characters per turn
  relay -sequence abcdef -chars 2 -workers 3

  # bounded run
  relay -sequence abcdef -chars 2 -workers 3 -duration 5s

  # settings from a file, workers overridden on the command line
  relay -config relay.toml -workers 5
`)
	}
	flag.Parse()

	if *showVersion {
		fmt.Println("relay", version)
		return
	}

	// Flags override file values only when given explicitly.
	explicitLevel := ""
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "log-level" {
			explicitLevel = *logLevel
		}
	})

	settings := defaultSettings()
	if *configFile != "" {
		fc, err := loadFileConfig(*configFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "relay:", err)
			os.Exit(2)
		}
		settings.applyFile(fc)
	}
	settings.applyFlags(*sequence, *charCount, *workers, *maxTurns, *duration, explicitLevel)

	if err := settings.validate(); err != nil {
		fmt.Fprintln(os.Stderr, "relay:", err)
		fmt.Fprintln(os.Stderr)
		flag.Usage()
		os.Exit(2)
	}

	runID := uuid.NewString()
	logger := newLogger(settings.LogLevel, *quiet).With().
		Str("app", "relay").
		Str("run_id", runID).
		Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if settings.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.Duration)
		defer cancel()
	}

	r, err := relay.New(ctx,
		relay.WithSequence(settings.Sequence),
		relay.WithCharCount(settings.CharCount),
		relay.WithWorkers(settings.Workers),
		relay.WithLogger(logger),
		relay.WithRunID(runID),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "relay:", err)
		os.Exit(2)
	}

	logger.Info().
		Str("sequence", settings.Sequence).
		Int("chars", settings.CharCount).
		Int("workers", settings.Workers).
		Msg("starting")

	r.Start(ctx)

	// Single consumer: each line is fully written before the next turn's
	// write begins, so output never interleaves.
	out := bufio.NewWriter(os.Stdout)
	emitted := 0
	for t := range r.Turns() {
		fmt.Fprintf(out, "ThreadId %d : %s\n", t.Worker, t.Chars)
		out.Flush()
		emitted++
		if settings.Turns > 0 && emitted >= settings.Turns {
			break
		}
	}
	r.Close()
	<-r.Done()

	logger.Info().Int("turns", emitted).Msg("stopped")
}

// newLogger builds the console logger. Quiet mode drops everything below
// error so turn lines stay readable on a terminal.
func newLogger(level string, quiet bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	if quiet {
		lvl = zerolog.ErrorLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(lvl).With().Timestamp().Logger()
}
