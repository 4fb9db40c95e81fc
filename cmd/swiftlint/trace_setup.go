package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rbrovko/SwiftLint/internal/trace"
)

// setupTracing reads the trace settings and attaches a tracer to the command
// context. It returns a cleanup function that stops the heartbeat and flushes
// and closes the tracer. In ring mode the retained events are written to the
// trace output on cleanup.
func setupTracing(cmd *cobra.Command, a *app) (func(), error) {
	output := a.v.GetString(traceFlagName)
	level, err := trace.ParseLevel(a.v.GetString(traceLevelFlagName))
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	if level == trace.LevelOff && output == "" {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}
	if level == trace.LevelOff {
		level = trace.LevelPhase
	}
	if output == "" {
		output = "-"
	}

	mode, err := trace.ParseMode(a.v.GetString(traceModeFlagName))
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	heartbeatInterval := a.v.GetDuration(traceHeartbeatFlagName)

	cfg := trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: output,
		RingSize:   a.v.GetInt(traceRingSizeFlagName),
		Heartbeat:  heartbeatInterval,
	}
	if output == "-" {
		cfg.Output = cmd.ErrOrStderr()
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	var heartbeat *trace.Heartbeat
	if heartbeatInterval > 0 {
		heartbeat = trace.StartHeartbeat(tracer, heartbeatInterval)
	}
	a.logger.Debug("tracing enabled", "level", level.String(), "mode", mode.String(), "output", output)

	return func() {
		if heartbeat != nil {
			heartbeat.Stop()
		}
		if ring, ok := tracer.(*trace.RingTracer); ok {
			if err := dumpRing(ring, output, cmd.ErrOrStderr()); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}

func dumpRing(ring *trace.RingTracer, output string, stderr io.Writer) error {
	format := trace.FormatText
	switch filepath.Ext(output) {
	case ".ndjson", ".json", ".jsonl":
		format = trace.FormatNDJSON
	}
	if output == "-" {
		return ring.Dump(stderr, format)
	}
	// #nosec G304 -- trace path is provided by the user
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := ring.Dump(f, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
