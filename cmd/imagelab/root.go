package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"imagelab/internal/codec"
	"imagelab/internal/engine"
	"imagelab/internal/logger"
	"imagelab/internal/session"
	"imagelab/internal/shutdown"
	"imagelab/internal/timing"
)

const (
	AppName    = "imagelab"
	AppVersion = "1.0.0"
)

// app carries the state shared by every subcommand.
type app struct {
	logLevel string
	stats    bool

	logger   logger.Logger
	timing   *timing.Tracker
	shutdown *shutdown.Manager
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           AppName,
		Short:         "Apply classical image-processing operators to image files",
		Version:       AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.shutdown != nil {
				a.shutdown.Shutdown()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (default from LOG_LEVEL)")
	root.PersistentFlags().BoolVar(&a.stats, "stats", false, "print per-operator timings when done")

	root.AddCommand(
		newOperatorsCommand(),
		newApplyCommand(a),
		newHistogramCommand(a),
		newRecipeCommand(a),
		newCompareCommand(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	level := logger.LevelFromEnv()
	if a.logLevel != "" {
		parsed, err := logger.ParseLevel(a.logLevel)
		if err != nil {
			return err
		}
		level = parsed
	}

	a.logger = logger.NewConsoleLogger(cmd.ErrOrStderr(), level)
	a.timing = timing.NewTracker()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a.shutdown = shutdown.NewManager(ctx, a.logger)
	a.shutdown.Listen()
	if a.stats {
		out := cmd.OutOrStdout()
		a.shutdown.Register(func() { a.printStats(out) })
	}
	return nil
}

func (a *app) engine() *engine.Engine {
	return engine.New(a.logger, a.timing)
}

func (a *app) codec() *codec.Codec {
	return codec.New(a.logger, a.timing)
}

func (a *app) session(opts session.Options) *session.Session {
	return session.New(a.engine(), a.codec(), a.logger, opts)
}

func (a *app) printStats(w io.Writer) {
	ops := a.timing.Operations()
	if len(ops) == 0 {
		return
	}
	fmt.Fprintln(w, "timings:")
	for _, op := range ops {
		fmt.Fprintf(w, "  %-24s %4d call(s)  avg %v\n",
			op, len(a.timing.GetTimings(op)), a.timing.GetAverageTime(op).Round(time.Microsecond))
	}
}
