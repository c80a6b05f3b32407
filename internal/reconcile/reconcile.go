// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile keeps derived meshes in step with their source scenes.
// Each pass lists the sources in the input directory, derives one output
// path per source, and runs the converter for every output that is missing
// or older than its source. Run repeats passes on a fixed interval.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/meshwatch/internal/converter"
	"github.com/pdiddy/meshwatch/pkg/types"
)

const (
	// DefaultInterval is the pause between passes.
	DefaultInterval = 1 * time.Second
	// DefaultSourceExt is the extension of Cinema 4D scene files.
	DefaultSourceExt = ".c4d"
	// DefaultOutputExt is the extension of exported meshes.
	DefaultOutputExt = ".boba"
)

// ctimeLayout matches the C library's ctime(3) output.
const ctimeLayout = "Mon Jan _2 15:04:05 2006"

// Recorder receives a record for every converter invocation.
type Recorder interface {
	Record(ctx context.Context, rec types.ConversionRecord) error
}

// PassResult holds the outcome of one reconciliation pass.
type PassResult struct {
	Scanned   int
	Converted int
	UpToDate  int
}

// Options configures a Reconciler.
type Options struct {
	// InputDir is scanned non-recursively for sources.
	InputDir string
	// OutputDir receives the derived artifacts.
	OutputDir string
	// SourceExt selects sources by extension (default ".c4d").
	SourceExt string
	// OutputExt is appended to the source base name (default ".boba").
	OutputExt string
	// Interval is the pause between passes (default 1s).
	Interval time.Duration

	// Recorder, when set, is told about every conversion.
	Recorder Recorder
	// Logger is used for structured logging (default slog.Default()).
	Logger *slog.Logger
	// Out receives the per-conversion status line (default io.Discard).
	Out io.Writer
}

// Reconciler runs reconciliation passes.
type Reconciler struct {
	opts  Options
	conv  converter.Converter
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Reconciler that converts through conv.
func New(conv converter.Converter, opts Options) *Reconciler {
	if opts.SourceExt == "" {
		opts.SourceExt = DefaultSourceExt
	}
	if opts.OutputExt == "" {
		opts.OutputExt = DefaultOutputExt
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Reconciler{
		opts:  opts,
		conv:  conv,
		now:   time.Now,
		sleep: sleepContext,
	}
}

// DerivedPath returns the output path for source: outputDir joined with the
// source's base name, its extension replaced by outputExt. The directory the
// source lives in plays no part.
func DerivedPath(outputDir, source, outputExt string) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, stem+outputExt)
}

// IsStale applies the fail-open rule: an output whose timestamp cannot be
// read must be rebuilt, otherwise it is rebuilt only when the source is
// strictly newer. The returned error concerns the source alone.
func IsStale(source, output string) (bool, types.StaleReason, error) {
	srcInfo, err := os.Stat(source)
	if err != nil {
		return false, types.StaleNone, fmt.Errorf("reading source timestamp %s: %w", source, err)
	}

	outInfo, err := os.Stat(output)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return true, types.StaleMissing, nil
	case err != nil:
		return true, types.StaleUnreadable, nil
	}

	if srcInfo.ModTime().After(outInfo.ModTime()) {
		return true, types.StaleNewer, nil
	}
	return false, types.StaleNone, nil
}

// Sources lists the files in dir whose extension matches ext, compared
// without regard to case. Hidden files (leading dot) are skipped, as a "*"
// glob would, and subdirectories are not descended into.
func Sources(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}

	var sources []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		sources = append(sources, filepath.Join(dir, entry.Name()))
	}
	return sources, nil
}

// Pass performs one scan of the input directory and converts every stale
// source. Converter exit status does not stop the pass; a converter that
// cannot be launched does.
func (r *Reconciler) Pass(ctx context.Context) (PassResult, error) {
	sources, err := Sources(r.opts.InputDir, r.opts.SourceExt)
	if err != nil {
		return PassResult{}, err
	}

	var result PassResult
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Scanned++

		output := DerivedPath(r.opts.OutputDir, source, r.opts.OutputExt)
		stale, reason, err := IsStale(source, output)
		if err != nil {
			return result, err
		}
		if !stale {
			result.UpToDate++
			continue
		}

		if err := r.convert(ctx, source, output, reason); err != nil {
			return result, err
		}
		result.Converted++
	}
	return result, nil
}

func (r *Reconciler) convert(ctx context.Context, source, output string, reason types.StaleReason) error {
	started := r.now()
	fmt.Fprintf(r.opts.Out, "[%s] Converting: %s -> %s\n", started.Format(ctimeLayout), source, output)
	r.opts.Logger.Debug("converting",
		slog.String("source", source),
		slog.String("output", output),
		slog.String("reason", string(reason)))

	outcome, err := r.conv.Convert(ctx, source, output)
	if err != nil {
		return fmt.Errorf("converting %s: %w", source, err)
	}
	if outcome.ExitCode != 0 {
		r.opts.Logger.Debug("converter exited non-zero",
			slog.String("source", source),
			slog.Int("exit_code", outcome.ExitCode))
	}

	if r.opts.Recorder != nil {
		rec := types.ConversionRecord{
			Source:    source,
			Output:    output,
			Reason:    reason,
			StartedAt: started,
			Duration:  outcome.Duration,
			ExitCode:  outcome.ExitCode,
		}
		// The conversion already ran; its row is kept even when ctx was
		// cancelled while the exporter was busy.
		if err := r.opts.Recorder.Record(context.WithoutCancel(ctx), rec); err != nil {
			r.opts.Logger.Warn("journal write failed",
				slog.String("source", source),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

// Run performs passes until ctx is cancelled, pausing for the configured
// interval after each one. It returns nil on cancellation and the pass
// error otherwise.
func (r *Reconciler) Run(ctx context.Context) error {
	r.opts.Logger.Info("watching",
		slog.String("input", r.opts.InputDir),
		slog.String("output", r.opts.OutputDir),
		slog.Duration("interval", r.opts.Interval))

	for {
		result, err := r.Pass(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if result.Converted > 0 {
			r.opts.Logger.Info("pass complete",
				slog.Int("scanned", result.Scanned),
				slog.Int("converted", result.Converted),
				slog.Int("up_to_date", result.UpToDate))
		}

		if err := r.sleep(ctx, r.opts.Interval); err != nil {
			return nil
		}
	}
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
