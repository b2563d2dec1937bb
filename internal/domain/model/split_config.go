package model

import "errors"

// SplitMethod selects how a video is divided.
type SplitMethod string

const (
	SplitMethodTimeBased SplitMethod = "time_based"
	SplitMethodIntervals SplitMethod = "intervals"
)

var (
	ErrNoTimePoints       = errors.New("no time points specified for time-based splitting")
	ErrInvalidInterval    = errors.New("invalid interval duration specified")
	ErrInvalidSplitMethod = errors.New("invalid split method specified")
)

// SplitConfig is the user-specified splitting configuration.
// It is validated up front and carried on the job record; it is
// interpreted by the worker, never by the API process.
type SplitConfig struct {
	Method           SplitMethod `json:"method"`
	TimePoints       []float64   `json:"time_points,omitempty"`
	IntervalDuration float64     `json:"interval_duration,omitempty"`
	PreserveQuality  bool        `json:"preserve_quality"`
	OutputFormat     string      `json:"output_format,omitempty"`
}

// Validate checks the configuration is executable.
func (c *SplitConfig) Validate() error {
	switch c.Method {
	case SplitMethodTimeBased:
		if len(c.TimePoints) == 0 {
			return ErrNoTimePoints
		}
	case SplitMethodIntervals:
		if c.IntervalDuration <= 0 {
			return ErrInvalidInterval
		}
	default:
		return ErrInvalidSplitMethod
	}
	return nil
}
