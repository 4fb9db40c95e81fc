package driver

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rbrovko/SwiftLint/internal/diag"
	"github.com/rbrovko/SwiftLint/internal/fix"
	"github.com/rbrovko/SwiftLint/internal/lint"
	"github.com/rbrovko/SwiftLint/internal/observ"
	"github.com/rbrovko/SwiftLint/internal/source"
	"github.com/rbrovko/SwiftLint/internal/trace"
)

// Options configures a batch run.
type Options struct {
	Engine   *lint.Engine
	Provider TreeProvider
	// Jobs limits the number of files processed at once (0 = GOMAXPROCS).
	Jobs int
	// MaxDiagnostics caps diagnostics per file (0 = unlimited).
	MaxDiagnostics int
	// Cache, when set, is consulted and filled by Lint.
	Cache *DiskCache
	// CacheSalt identifies configuration and version in cache keys.
	CacheSalt string
	Sink      ProgressSink
	Logger    *slog.Logger
}

func (o *Options) defaults(n int) int {
	if o.Provider == nil {
		o.Provider = SidecarProvider{}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, n))
}

// FileResult is the lint outcome of one file.
type FileResult struct {
	Path        string
	File        *source.File
	Diagnostics *diag.Bag
	// Err is a transport failure: unreadable file or malformed sidecar.
	Err error
	// Stale is set when sidecars did not match the content; structural
	// rules were skipped.
	Stale  bool
	Cached bool
	Timing observ.Report
}

// Lint lints paths in parallel. Results are in the order of paths. The
// batch continues past per-file failures, which are recorded in
// FileResult.Err. Cancellation is observed between files.
func Lint(ctx context.Context, fs *source.FileSet, paths []string, opts Options) ([]FileResult, error) {
	results := make([]FileResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	jobs := opts.defaults(len(paths))
	tracer := trace.FromContext(ctx)
	run := trace.Begin(tracer, trace.ScopeDriver, "lint", trace.CurrentSpan(ctx).SpanID)
	defer run.End("")

	for _, p := range paths {
		emit(opts.Sink, Event{File: p, Stage: StageLoad, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = lintFile(gctx, fs, path, run.ID(), &opts)
			return nil
		})
	}
	err := g.Wait()
	return results, err
}

func lintFile(ctx context.Context, fs *source.FileSet, path string, parent uint64, opts *Options) FileResult {
	res := FileResult{Path: path}
	start := time.Now()
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "file:"+path, parent)
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})
	timer := observ.NewTimer()

	fail := func(stage Stage, err error) FileResult {
		res.Err = err
		res.Timing = timer.Report()
		opts.Logger.Warn("file failed", "path", path, "stage", string(stage), "err", err)
		emit(opts.Sink, Event{File: path, Stage: stage, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		span.End(err.Error())
		return res
	}

	emit(opts.Sink, Event{File: path, Stage: StageLoad, Status: StatusWorking})
	idx := timer.Begin("load")
	id, err := fs.Load(path)
	timer.End(idx, "")
	if err != nil {
		return fail(StageLoad, fmt.Errorf("failed to load file: %w", err))
	}
	res.File = fs.Get(id)

	emit(opts.Sink, Event{File: path, Stage: StageTree, Status: StatusWorking})
	idx = timer.Begin("tree")
	trees, err := opts.Provider.Trees(res.File)
	timer.End(idx, "")
	if err != nil {
		return fail(StageTree, err)
	}
	res.Stale = trees.Stale
	if trees.Stale {
		opts.Logger.Info("stale sidecar, structural rules skipped", "path", path)
	}

	var key Digest
	if opts.Cache != nil {
		key = Key(res.File.Hash, trees.Digest, opts.CacheSalt)
		var payload DiskPayload
		hit, err := opts.Cache.Get(key, &payload)
		if err != nil {
			opts.Logger.Debug("cache read failed", "path", path, "err", err)
		}
		if hit {
			res.Diagnostics = fromPayload(&payload, res.File.ID, opts.MaxDiagnostics)
			res.Cached = true
			res.Timing = timer.Report()
			emit(opts.Sink, Event{File: path, Stage: StageLint, Status: StatusDone, Elapsed: time.Since(start)})
			span.WithExtra("cached", "true").End("")
			return res
		}
	}

	emit(opts.Sink, Event{File: path, Stage: StageLint, Status: StatusWorking})
	idx = timer.Begin("lint")
	out := opts.Engine.Lint(ctx, lint.Input{File: res.File, Tree: trees.Tree, Syntax: trees.Syntax})
	timer.End(idx, fmt.Sprintf("%d violations", out.Diagnostics.Len()))
	res.Diagnostics = out.Diagnostics

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, toPayload(path, out.Diagnostics.Items(), trees.Stale)); err != nil {
			opts.Logger.Debug("cache write failed", "path", path, "err", err)
		}
	}

	res.Timing = timer.Report()
	emit(opts.Sink, Event{File: path, Stage: StageLint, Status: StatusDone, Elapsed: time.Since(start)})
	span.WithExtra("violations", fmt.Sprint(out.Diagnostics.Len())).End("")
	return res
}

// FixOptions configures Fix.
type FixOptions struct {
	Options
	// DryRun computes corrections without writing files.
	DryRun bool
}

// FixResult is the correction outcome of one file.
type FixResult struct {
	Path string
	// Original is the snapshot loaded from disk; Final the corrected one.
	Original    *source.File
	Final       *source.File
	Corrections []diag.Correction
	Skipped     []fix.SkippedFix
	Written     bool
	Err         error
	Timing      observ.Report
}

// Changed reports whether the corrected content differs from the original.
func (r *FixResult) Changed() bool {
	return r.Original != nil && r.Final != nil && r.Final.ID != r.Original.ID
}

// Fix corrects paths in parallel. Within a file the correctable rules run
// one after another; the final content is written once, atomically.
func Fix(ctx context.Context, fs *source.FileSet, paths []string, opts FixOptions) ([]FixResult, error) {
	results := make([]FixResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	jobs := opts.defaults(len(paths))
	run := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "fix", trace.CurrentSpan(ctx).SpanID)
	defer run.End("")

	for _, p := range paths {
		emit(opts.Sink, Event{File: p, Stage: StageLoad, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = fixFile(gctx, fs, path, run.ID(), &opts)
			return nil
		})
	}
	err := g.Wait()
	return results, err
}

func fixFile(ctx context.Context, fs *source.FileSet, path string, parent uint64, opts *FixOptions) FixResult {
	res := FixResult{Path: path}
	start := time.Now()
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "file:"+path, parent)
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})
	timer := observ.NewTimer()

	fail := func(stage Stage, err error) FixResult {
		res.Err = err
		res.Timing = timer.Report()
		opts.Logger.Warn("file failed", "path", path, "stage", string(stage), "err", err)
		emit(opts.Sink, Event{File: path, Stage: stage, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		span.End(err.Error())
		return res
	}

	emit(opts.Sink, Event{File: path, Stage: StageLoad, Status: StatusWorking})
	idx := timer.Begin("load")
	id, err := fs.Load(path)
	timer.End(idx, "")
	if err != nil {
		return fail(StageLoad, fmt.Errorf("failed to load file: %w", err))
	}
	res.Original = fs.Get(id)
	res.Final = res.Original

	idx = timer.Begin("tree")
	trees, err := opts.Provider.Trees(res.Original)
	timer.End(idx, "")
	if err != nil {
		return fail(StageTree, err)
	}

	emit(opts.Sink, Event{File: path, Stage: StageFix, Status: StatusWorking})
	idx = timer.Begin("fix")
	out, err := opts.Engine.Correct(ctx, fs, lint.Input{File: res.Original, Tree: trees.Tree, Syntax: trees.Syntax})
	timer.End(idx, "")
	if err != nil {
		return fail(StageFix, err)
	}
	res.Final = out.File
	res.Corrections = out.Corrections
	res.Skipped = out.Skipped

	if res.Changed() && !opts.DryRun {
		emit(opts.Sink, Event{File: path, Stage: StageWrite, Status: StatusWorking})
		idx = timer.Begin("write")
		content, err := source.Encode(res.Final.Content, res.Final.Flags)
		if err == nil {
			err = fix.WriteFile(path, content)
		}
		timer.End(idx, "")
		if err != nil {
			return fail(StageWrite, err)
		}
		res.Written = true
	}

	res.Timing = timer.Report()
	emit(opts.Sink, Event{File: path, Stage: StageFix, Status: StatusDone, Elapsed: time.Since(start)})
	span.WithExtra("corrections", fmt.Sprint(len(res.Corrections))).End("")
	return res
}
