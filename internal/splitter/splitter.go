// Package splitter cuts a video file into parts according to a SplitConfig.
package splitter

import (
	"context"

	"github.com/splitgate/vidsplit/internal/domain/model"
)

// Part describes one produced output file.
type Part struct {
	// Path is the absolute path of the generated file.
	Path string
	// Duration is the part's length in seconds.
	Duration float64
}

// Splitter defines the interface for video splitting operations.
// Implementations cut the input file into sequential parts and write
// them into the output directory.
type Splitter interface {
	// Split divides the input video per the given configuration.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - inputPath: Absolute path to the source video file
	//   - outputDir: Directory where part files will be written (must exist)
	//   - baseName: Filename stem for generated parts ({baseName}_part_001.mp4, ...)
	//   - cfg: Validated split configuration
	//
	// Parts are returned in playback order.
	Split(ctx context.Context, inputPath, outputDir, baseName string, cfg model.SplitConfig) ([]Part, error)
}
