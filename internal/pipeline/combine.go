package pipeline

import (
	"context"
	"path/filepath"

	"mediabatch/internal/batch"
	"mediabatch/internal/config"
	"mediabatch/internal/encoder"
	"mediabatch/internal/logging"
	"mediabatch/internal/walk"
)

// Combiner concatenates every matching clip of a directory into one video.
type Combiner struct {
	filter     batch.Filter
	outputName string
	params     encoder.Params
	deps       Deps
}

// NewCombiner builds a combine processor from cfg.
func NewCombiner(cfg *config.Config, deps Deps) *Combiner {
	return &Combiner{
		filter: batch.Filter{
			Prefix:     cfg.Combine.Prefix,
			Extensions: cfg.Combine.Extensions,
			Exclude:    []string{cfg.Combine.OutputName},
		},
		outputName: cfg.Combine.OutputName,
		params: encoder.Params{
			Size:    cfg.Combine.Size,
			Codec:   cfg.Combine.Codec,
			Quality: cfg.Encoder.Quality,
		},
		deps: deps,
	}
}

// Name implements Processor.
func (c *Combiner) Name() string { return "combine" }

// Filter implements Processor.
func (c *Combiner) Filter() batch.Filter { return c.filter }

// BucketCount implements Processor. Combine always uses one bucket.
func (c *Combiner) BucketCount() int { return 1 }

// Process implements Processor.
func (c *Combiner) Process(ctx context.Context, dir walk.Directory, buckets []batch.Bucket) ([]UnitResult, error) {
	var files []string
	for _, b := range buckets {
		files = append(files, b.Files...)
	}
	ctx = logging.WithUnit(ctx, c.outputName)
	logger := c.deps.logger(ctx, "combine")

	inputs := make([]string, len(files))
	for i, name := range files {
		inputs[i] = filepath.Join(dir.Path, name)
	}
	output := filepath.Join(dir.Path, c.outputName)
	unit := UnitResult{Label: c.Name(), Output: output, Files: len(files)}

	logger.Info("combining videos", logging.Int("clips", len(files)), logging.String("output", output))
	c.deps.encode(ctx, logger, encoder.Invocation{
		Label: "concat",
		Dir:   dir.Path,
		Args:  encoder.ConcatArgs(inputs, c.params, output),
	}, &unit)
	if err := ctx.Err(); err != nil {
		return []UnitResult{unit}, err
	}
	return []UnitResult{unit}, nil
}
