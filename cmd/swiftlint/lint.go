package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rbrovko/SwiftLint/internal/diag"
	"github.com/rbrovko/SwiftLint/internal/diagfmt"
	"github.com/rbrovko/SwiftLint/internal/driver"
	"github.com/rbrovko/SwiftLint/internal/observ"
)

type lintFlags struct {
	format    string
	strict    bool
	cache     bool
	cacheDir  string
	withFixes bool
	context   int
}

func newLintCmd(a *app) *cobra.Command {
	var f lintFlags
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Report style violations",
		Long: `Lint the given files and directories (default: the configuration root).
Directories are searched for *.swift files, honouring .gitignore and the
[paths] section of the configuration.

Structural rules read <file>.structure.json sidecars produced by an external
parser; files without a fresh sidecar are checked by textual rules only.

Exit status is 2 when an error-severity violation or a file failure remains.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, a, &f, args)
		},
	}
	cmd.Flags().StringVar(&f.format, "format", "pretty", "output format (pretty|short|json)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "treat warnings as errors")
	cmd.Flags().BoolVar(&f.cache, "cache", false, "reuse results of unchanged files from the on-disk cache")
	cmd.Flags().StringVar(&f.cacheDir, "cache-dir", "", "cache directory (default: $XDG_CACHE_HOME/swiftlint)")
	cmd.Flags().BoolVar(&f.withFixes, "with-fixes", false, "show available corrections")
	cmd.Flags().IntVar(&f.context, "context", 0, "source lines shown above each violation")
	return cmd
}

func runLint(cmd *cobra.Command, a *app, f *lintFlags, args []string) error {
	format := strings.ToLower(f.format)
	switch format {
	case "pretty", "short", "json":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, short or json)", f.format)
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
	opts := p.driverOptions(a)
	if f.cache {
		cache, err := openCache(f.cacheDir)
		if err != nil {
			a.logger.Warn("cache disabled", "err", err)
		} else {
			opts.Cache = cache
			opts.CacheSalt = p.salt
		}
	}

	start := time.Now()
	batch := func(ctx context.Context, o driver.Options) ([]driver.FileResult, error) {
		return driver.Lint(ctx, p.fs, p.files, o)
	}
	var results []driver.FileResult
	if shouldUseTUI(mode, stdout, format) && len(p.files) > 0 {
		results, err = runWithUI(cmd.Context(), stdout, "linting", p.files, &opts, batch)
	} else {
		results, err = batch(cmd.Context(), opts)
	}
	if err != nil {
		return err
	}

	bag, failures, reports := collectLint(results, f.strict)
	serious := 0
	for _, d := range bag.Items() {
		if d.Severity >= diag.SevError {
			serious++
		}
	}

	switch format {
	case "json":
		if err := diagfmt.JSONWithFailures(stdout, bag, p.fs, failures, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			IncludeNotes:     true,
			IncludeFixes:     f.withFixes,
			IncludePreviews:  f.withFixes,
		}); err != nil {
			return err
		}
	case "short":
		if err := diagfmt.Short(stdout, bag, p.fs); err != nil {
			return err
		}
		printFailures(stderr, failures)
	default:
		if err := diagfmt.Pretty(stdout, bag, p.fs, diagfmt.PrettyOpts{
			Color:     colored,
			Context:   f.context,
			PathMode:  diagfmt.PathModeRelative,
			ShowNotes: true,
			ShowFixes: f.withFixes,
		}); err != nil {
			return err
		}
		printFailures(stderr, failures)
		if !a.v.GetBool(quietFlagName) {
			errColored, _ := a.useColor(stderr)
			if err := diagfmt.Summary(stderr, bag.Len(), serious, len(results), errColored); err != nil {
				return err
			}
		}
	}

	if a.v.GetBool(timingsFlagName) {
		printTimings(stderr, reports, len(results), time.Since(start))
	}
	a.logger.Info("lint finished", "files", len(results), "violations", bag.Len(), "serious", serious, "failures", len(failures))

	if serious > 0 || len(failures) > 0 {
		return errViolations
	}
	return nil
}

// collectLint merges per-file results in path order. Each file's bag is
// sorted on its own since file IDs follow load order, not path order.
func collectLint(results []driver.FileResult, strict bool) (*diag.Bag, []diagfmt.FailureJSON, []observ.Report) {
	bag := diag.NewBag(0)
	var failures []diagfmt.FailureJSON
	reports := make([]observ.Report, 0, len(results))
	for _, r := range results {
		reports = append(reports, r.Timing)
		if r.Err != nil {
			failures = append(failures, diagfmt.FailureJSON{File: r.Path, Error: r.Err.Error()})
			continue
		}
		if r.Diagnostics == nil {
			continue
		}
		r.Diagnostics.Sort()
		bag.Merge(r.Diagnostics)
	}
	if strict {
		bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
			d.Severity = diag.SevError
			return d
		})
	}
	return bag, failures, reports
}

func printFailures(w io.Writer, failures []diagfmt.FailureJSON) {
	for _, f := range failures {
		fmt.Fprintf(w, "swiftlint: %s: %s\n", f.File, f.Error)
	}
}

func openCache(dir string) (*driver.DiskCache, error) {
	if dir != "" {
		return driver.OpenDiskCacheAt(dir)
	}
	return driver.OpenDiskCache("swiftlint")
}
