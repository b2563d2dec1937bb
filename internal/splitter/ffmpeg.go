package splitter

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/splitgate/vidsplit/internal/domain/model"
)

// FFmpegConfig holds configuration for the FFmpeg splitter.
type FFmpegConfig struct {
	// FFmpegPath is the path to the ffmpeg binary.
	// If empty, "ffmpeg" will be used (assumes it's in PATH).
	FFmpegPath string

	// FFprobePath is the path to the ffprobe binary, used to read the
	// source duration before cutting.
	// If empty, "ffprobe" will be used.
	FFprobePath string

	// VideoCodec is the video codec used when re-encoding.
	// Default: libx264
	VideoCodec string

	// VideoPreset controls the encoding speed/quality tradeoff.
	// Options: ultrafast, superfast, veryfast, faster, fast, medium, slow, slower, veryslow
	// Default: fast
	VideoPreset string

	// AudioCodec is the audio codec used when re-encoding.
	// Default: aac
	AudioCodec string

	// OutputFormat is the container extension for parts when the split
	// config does not name one.
	// Default: mp4
	OutputFormat string
}

// DefaultFFmpegConfig returns an FFmpegConfig with production-ready defaults.
func DefaultFFmpegConfig() FFmpegConfig {
	return FFmpegConfig{
		FFmpegPath:   "ffmpeg",
		FFprobePath:  "ffprobe",
		VideoCodec:   "libx264",
		VideoPreset:  "fast",
		AudioCodec:   "aac",
		OutputFormat: "mp4",
	}
}

// FFmpegSplitter implements Splitter using the FFmpeg CLI.
type FFmpegSplitter struct {
	config FFmpegConfig
}

// Compile-time verification that FFmpegSplitter implements Splitter.
var _ Splitter = (*FFmpegSplitter)(nil)

// NewFFmpegSplitter creates a new FFmpeg-based splitter.
func NewFFmpegSplitter(cfg FFmpegConfig) *FFmpegSplitter {
	return &FFmpegSplitter{
		config: cfg,
	}
}

// segment is one contiguous cut of the source timeline.
type segment struct {
	start float64
	end   float64
}

// Split probes the source duration, derives the segment boundaries from
// the config, and cuts each segment with a separate ffmpeg invocation.
func (s *FFmpegSplitter) Split(ctx context.Context, inputPath, outputDir, baseName string, cfg model.SplitConfig) ([]Part, error) {
	if err := s.validateInput(inputPath); err != nil {
		return nil, err
	}
	if err := s.validateOutputDir(outputDir); err != nil {
		return nil, err
	}

	total, err := s.probeDuration(ctx, inputPath)
	if err != nil {
		return nil, fmt.Errorf("probe source duration: %w", err)
	}

	segments, err := buildSegments(total, cfg)
	if err != nil {
		return nil, err
	}

	format := cfg.OutputFormat
	if format == "" {
		format = s.config.OutputFormat
	}

	parts := make([]Part, 0, len(segments))
	for i, seg := range segments {
		outputPath := filepath.Join(outputDir, fmt.Sprintf("%s_part_%03d.%s", baseName, i+1, format))

		args := s.buildCutArgs(inputPath, outputPath, seg, cfg.PreserveQuality)
		cmd := exec.CommandContext(ctx, s.config.FFmpegPath, args...)
		cmd.Stdout = nil // Discard stdout
		cmd.Stderr = nil // Discard stderr (FFmpeg outputs progress to stderr)

		if err := cmd.Run(); err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("splitting cancelled: %w", ctx.Err())
			}
			return nil, fmt.Errorf("ffmpeg execution failed for part %d: %w", i+1, err)
		}

		parts = append(parts, Part{
			Path:     outputPath,
			Duration: seg.end - seg.start,
		})
	}

	return parts, nil
}

// buildSegments translates the split config into concrete cut boundaries.
// Time points outside (0, total) are dropped; if every point is dropped
// the whole file becomes a single part.
func buildSegments(total float64, cfg model.SplitConfig) ([]segment, error) {
	switch cfg.Method {
	case model.SplitMethodTimeBased:
		points := make([]float64, 0, len(cfg.TimePoints))
		for _, p := range cfg.TimePoints {
			if p > 0 && p < total {
				points = append(points, p)
			}
		}
		sort.Float64s(points)

		var segments []segment
		start := 0.0
		for _, p := range points {
			if p == start {
				continue // duplicate point
			}
			segments = append(segments, segment{start: start, end: p})
			start = p
		}
		segments = append(segments, segment{start: start, end: total})
		return segments, nil

	case model.SplitMethodIntervals:
		if cfg.IntervalDuration <= 0 {
			return nil, model.ErrInvalidInterval
		}
		var segments []segment
		for start := 0.0; start < total; start += cfg.IntervalDuration {
			end := start + cfg.IntervalDuration
			if end > total {
				end = total
			}
			segments = append(segments, segment{start: start, end: end})
		}
		if len(segments) == 0 {
			segments = append(segments, segment{start: 0, end: total})
		}
		return segments, nil

	default:
		return nil, model.ErrInvalidSplitMethod
	}
}

// buildCutArgs constructs the FFmpeg command arguments for one segment.
// Seeking is placed after -i so the cut lands on exact timestamps even
// in stream-copy mode.
func (s *FFmpegSplitter) buildCutArgs(inputPath, outputPath string, seg segment, preserveQuality bool) []string {
	args := []string{
		"-i", inputPath,
		"-ss", formatSeconds(seg.start),
		"-to", formatSeconds(seg.end),
	}

	if preserveQuality {
		args = append(args, "-c", "copy")
	} else {
		args = append(args,
			"-c:v", s.config.VideoCodec,
			"-preset", s.config.VideoPreset,
			"-c:a", s.config.AudioCodec,
		)
	}

	args = append(args,
		"-avoid_negative_ts", "make_zero",
		"-y", // Overwrite output files without asking
		outputPath,
	)
	return args
}

// probeDuration reads the container duration in seconds via ffprobe.
func (s *FFmpegSplitter) probeDuration(ctx context.Context, inputPath string) (float64, error) {
	cmd := exec.CommandContext(ctx, s.config.FFprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inputPath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = nil

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("probe cancelled: %w", ctx.Err())
		}
		return 0, fmt.Errorf("ffprobe execution failed: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(out.String()), 64)
	if err != nil {
		return 0, fmt.Errorf("parse probed duration %q: %w", out.String(), err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("probed duration must be positive, got %f", duration)
	}

	return duration, nil
}

// formatSeconds renders a timestamp the way ffmpeg expects it.
func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}

// validateInput checks if the input file exists and is readable.
func (s *FFmpegSplitter) validateInput(inputPath string) error {
	info, err := os.Stat(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input file does not exist: %s", inputPath)
		}
		return fmt.Errorf("failed to access input file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("input path is a directory, expected a file: %s", inputPath)
	}

	return nil
}

// validateOutputDir checks if the output directory exists.
func (s *FFmpegSplitter) validateOutputDir(outputDir string) error {
	info, err := os.Stat(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("output directory does not exist: %s", outputDir)
		}
		return fmt.Errorf("failed to access output directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("output path is not a directory: %s", outputDir)
	}

	return nil
}
