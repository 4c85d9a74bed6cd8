package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"mediabatch/internal/batch"
	"mediabatch/internal/config"
	"mediabatch/internal/encoder"
	"mediabatch/internal/exifmeta"
	"mediabatch/internal/journal"
	"mediabatch/internal/logging"
	"mediabatch/internal/overlay"
	"mediabatch/internal/sentinel"
	"mediabatch/internal/staging"
	"mediabatch/internal/walk"
)

const timestampTrack = "timestamps.mov"

// Stitcher encodes each bucket of images into its own short clip.
type Stitcher struct {
	filter      batch.Filter
	buckets     int
	params      encoder.Params
	stagingRoot string
	overlay     bool
	overlayW    int
	overlayH    int
	deps        Deps

	timestamp func(path string) string
	render    func(path, text string, width, height int) error
}

// NewStitcher builds a stitch processor from cfg.
func NewStitcher(cfg *config.Config, deps Deps) *Stitcher {
	return &Stitcher{
		filter: batch.Filter{
			Prefix:     cfg.Stitch.Prefix,
			Extensions: cfg.Stitch.Extensions,
		},
		buckets: cfg.Stitch.BucketCount,
		params: encoder.Params{
			Codec:     cfg.Stitch.Codec,
			Quality:   cfg.Encoder.Quality,
			FrameRate: cfg.Stitch.FrameRate,
		},
		stagingRoot: cfg.Paths.StagingDir,
		overlay:     cfg.Stitch.TimestampOverlay,
		overlayW:    cfg.Stitch.OverlayWidth,
		overlayH:    cfg.Stitch.OverlayHeight,
		deps:        deps,
		timestamp:   exifmeta.Timestamp,
		render:      overlay.WritePNG,
	}
}

// Name implements Processor.
func (s *Stitcher) Name() string { return "stitch" }

// Filter implements Processor.
func (s *Stitcher) Filter() batch.Filter { return s.filter }

// BucketCount implements Processor.
func (s *Stitcher) BucketCount() int { return s.buckets }

// Process implements Processor. Empty buckets produce no unit.
func (s *Stitcher) Process(ctx context.Context, dir walk.Directory, buckets []batch.Bucket) ([]UnitResult, error) {
	var results []UnitResult
	for _, b := range buckets {
		if len(b.Files) == 0 {
			continue
		}
		res, err := s.processBucket(logging.WithUnit(ctx, b.Label()), dir, b)
		results = append(results, res)
		if err != nil {
			return results, err
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}
	}
	return results, nil
}

func (s *Stitcher) processBucket(ctx context.Context, dir walk.Directory, b batch.Bucket) (UnitResult, error) {
	logger := s.deps.logger(ctx, "stitch")
	label := b.Label()
	bucketDir := filepath.Join(dir.Path, label)
	output := filepath.Join(bucketDir, label+".mov")
	unit := UnitResult{Label: label, Output: output, Files: len(b.Files)}

	done, err := sentinel.Exists(bucketDir)
	if err != nil {
		return unit, err
	}
	if done {
		logger.Info("bucket already encoded; skipping")
		unit.Status = journal.StatusSkipped
		return unit, nil
	}

	sources := make([]string, len(b.Files))
	for i, name := range b.Files {
		sources[i] = filepath.Join(dir.Path, name)
	}
	logger.Info("stitching images", logging.Int("images", len(sources)), logging.String("output", output))

	if s.deps.DryRun {
		s.deps.encode(ctx, logger, encoder.Invocation{
			Label: "sequence",
			Args:  encoder.SequenceArgs(encoder.ImagePattern, s.params, output),
		}, &unit)
		return unit, nil
	}

	if err := os.MkdirAll(bucketDir, 0o755); err != nil {
		return unit, fmt.Errorf("create bucket directory: %w", err)
	}
	work, err := staging.NewUnit(s.stagingRoot, label)
	if err != nil {
		return unit, err
	}
	defer func() {
		if err := work.Remove(); err != nil {
			logging.WarnWithContext(logger, "failed to remove staging directory", "staging_cleanup_failed",
				logging.String("path", work.Path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "removed later by stale cleanup"),
			)
		}
	}()

	if err := work.Stage(encoder.ImagePattern, sources); err != nil {
		return unit, err
	}
	if n := work.Copies(); n > 0 {
		logger.Debug("staged by copy", logging.Int("copies", n))
	}

	var ok bool
	if s.overlay {
		ok, err = s.encodeWithOverlay(ctx, logger, work, sources, output, &unit)
		if err != nil {
			return unit, err
		}
	} else {
		ok = s.deps.encode(ctx, logger, encoder.Invocation{
			Label: "sequence",
			Dir:   work.Path,
			Args:  encoder.SequenceArgs(encoder.ImagePattern, s.params, output),
		}, &unit)
	}
	if !ok {
		return unit, nil
	}
	if err := sentinel.Mark(bucketDir); err != nil {
		return unit, err
	}
	return unit, nil
}

func (s *Stitcher) encodeWithOverlay(ctx context.Context, logger *slog.Logger, work *staging.Unit, sources []string, output string, unit *UnitResult) (bool, error) {
	unknown := 0
	for i, src := range sources {
		text := s.timestamp(src)
		if text == exifmeta.Unknown {
			unknown++
		}
		if err := s.render(work.Join(fmt.Sprintf(encoder.TimestampPattern, i)), text, s.overlayW, s.overlayH); err != nil {
			return false, fmt.Errorf("render overlay for %s: %w", filepath.Base(src), err)
		}
	}
	if unknown > 0 {
		logger.Info("images without capture time", logging.Int("count", unknown))
	}

	track := work.Join(timestampTrack)
	if !s.deps.encode(ctx, logger, encoder.Invocation{
		Label: "timestamps",
		Dir:   work.Path,
		Args:  encoder.TimestampTrackArgs(encoder.TimestampPattern, s.params.FrameRate, track),
	}, unit) {
		return false, nil
	}
	defer os.Remove(track)

	return s.deps.encode(ctx, logger, encoder.Invocation{
		Label: "overlay",
		Dir:   work.Path,
		Args:  encoder.OverlayArgs(encoder.ImagePattern, track, s.params, output),
	}, unit), nil
}
