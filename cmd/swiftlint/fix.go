package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/rbrovko/SwiftLint/internal/diag"
	"github.com/rbrovko/SwiftLint/internal/diagfmt"
	"github.com/rbrovko/SwiftLint/internal/driver"
	"github.com/rbrovko/SwiftLint/internal/observ"
	"github.com/rbrovko/SwiftLint/internal/source"
)

type fixFlags struct {
	format string
	diff   bool
}

func newFixCmd(a *app) *cobra.Command {
	var f fixFlags
	cmd := &cobra.Command{
		Use:     "fix [paths...]",
		Aliases: []string{"autocorrect"},
		Short:   "Correct violations in place",
		Long: `Apply the corrections of every correctable rule to the given files and
directories. Rules run one after another on each file; the corrected content
is written once per file, atomically. Violations inside disabled regions are
left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, a, &f, args)
		},
	}
	cmd.Flags().StringVar(&f.format, "format", "pretty", "output format (pretty|json)")
	cmd.Flags().BoolVar(&f.diff, "diff", false, "print a unified diff instead of writing files")
	return cmd
}

func runFix(cmd *cobra.Command, a *app, f *fixFlags, args []string) error {
	format := strings.ToLower(f.format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", f.format)
	}
	mode, err := readUIMode(a.v.GetString(uiFlagName))
	if err != nil {
		return err
	}
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	colored, err := a.useColor(stdout)
	if err != nil {
		return err
	}

	p, err := a.loadProject(args)
	if err != nil {
		return err
	}
	opts := driver.FixOptions{Options: p.driverOptions(a), DryRun: f.diff}

	start := time.Now()
	batch := func(ctx context.Context, o driver.Options) ([]driver.FixResult, error) {
		return driver.Fix(ctx, p.fs, p.files, driver.FixOptions{Options: o, DryRun: opts.DryRun})
	}
	var results []driver.FixResult
	if shouldUseTUI(mode, stdout, format) && !f.diff && len(p.files) > 0 {
		results, err = runWithUI(cmd.Context(), stdout, "correcting", p.files, &opts.Options, batch)
	} else {
		results, err = batch(cmd.Context(), opts.Options)
	}
	if err != nil {
		return err
	}

	var (
		corrections []diag.Correction
		failures    []diagfmt.FailureJSON
		reports     = make([]observ.Report, 0, len(results))
		changed     int
	)
	for i := range results {
		r := &results[i]
		reports = append(reports, r.Timing)
		if r.Err != nil {
			failures = append(failures, diagfmt.FailureJSON{File: r.Path, Error: r.Err.Error()})
			continue
		}
		corrections = append(corrections, r.Corrections...)
		for _, s := range r.Skipped {
			a.logger.Info("correction skipped", "path", r.Path, "rule", s.Rule, "reason", s.Reason)
		}
		if r.Changed() {
			changed++
		}
	}

	switch {
	case f.diff:
		for i := range results {
			if err := writeDiff(stdout, &results[i], p.fs); err != nil {
				return err
			}
		}
	case format == "json":
		if err := diagfmt.CorrectionsJSON(stdout, corrections, p.fs, diagfmt.PathModeRelative); err != nil {
			return err
		}
	default:
		if err := diagfmt.Corrections(stdout, corrections, p.fs, diagfmt.PrettyOpts{Color: colored, PathMode: diagfmt.PathModeRelative}); err != nil {
			return err
		}
	}
	printFailures(stderr, failures)

	if !a.v.GetBool(quietFlagName) && format != "json" {
		verb := "Corrected"
		if f.diff {
			verb = "Would correct"
		}
		fmt.Fprintf(stderr, "Done correcting %d files! %s %d violations in %d files.\n", len(results), verb, len(corrections), changed)
	}
	if a.v.GetBool(timingsFlagName) {
		printTimings(stderr, reports, len(results), time.Since(start))
	}
	a.logger.Info("fix finished", "files", len(results), "corrections", len(corrections), "changed", changed, "failures", len(failures))

	if len(failures) > 0 {
		return errViolations
	}
	return nil
}

// writeDiff prints the unified diff between the loaded and the corrected
// content of one file.
func writeDiff(w io.Writer, r *driver.FixResult, fs *source.FileSet) error {
	if !r.Changed() {
		return nil
	}
	path := r.Original.FormatPath("relative", fs.BaseDir())
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(r.Original.Content)),
		B:        difflib.SplitLines(string(r.Final.Content)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}
