package model

import (
	"path"
	"strings"
)

// Estimation constants. Clients assert on these exact values, so they
// are part of the wire contract: duration assumes ~60 MiB per minute of
// video, floored at one minute, with a five-minute default when the
// object size is unknown.
const (
	bytesPerMinute         = 60 * 1024 * 1024
	minDurationSeconds     = 60
	defaultDurationSeconds = 300
)

var containerFormats = map[string]string{
	"mp4":  "MP4",
	"avi":  "AVI",
	"mov":  "QuickTime",
	"mkv":  "Matroska",
	"webm": "WebM",
	"flv":  "Flash Video",
	"wmv":  "Windows Media",
	"m4v":  "MP4",
	"mpg":  "MPEG",
	"mpeg": "MPEG",
}

// VideoStream is a placeholder video stream descriptor. Values are not
// probed from the real file.
type VideoStream struct {
	Index     int    `json:"index"`
	Codec     string `json:"codec"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	FrameRate string `json:"frame_rate"`
}

// AudioStream is a placeholder audio stream descriptor.
type AudioStream struct {
	Index      int    `json:"index"`
	Codec      string `json:"codec"`
	Channels   int    `json:"channels"`
	SampleRate int    `json:"sample_rate"`
}

// MediaMetadata is a derived, non-authoritative record recomputed on
// every request from the object's current size. It is never persisted.
type MediaMetadata struct {
	Format          string        `json:"format"`
	Duration        int64         `json:"duration"`
	Size            int64         `json:"size"`
	VideoStreams    []VideoStream `json:"video_streams"`
	AudioStreams    []AudioStream `json:"audio_streams"`
	SubtitleStreams []string      `json:"subtitle_streams"`
	Chapters        []string      `json:"chapters"`
}

// EstimateMetadata derives synthetic media metadata from a filename and
// byte size alone. Pure and deterministic: no container probing happens,
// and the stream descriptors are fixed placeholders.
func EstimateMetadata(filename string, size int64) MediaMetadata {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")

	format, ok := containerFormats[ext]
	if !ok {
		format = ext
	}

	duration := int64(defaultDurationSeconds)
	if size > 0 {
		duration = size * 60 / bytesPerMinute
		if duration < minDurationSeconds {
			duration = minDurationSeconds
		}
	}

	return MediaMetadata{
		Format:   format,
		Duration: duration,
		Size:     size,
		VideoStreams: []VideoStream{
			{Index: 0, Codec: "h264", Width: 1920, Height: 1080, FrameRate: "30/1"},
		},
		AudioStreams: []AudioStream{
			{Index: 1, Codec: "aac", Channels: 2, SampleRate: 48000},
		},
		SubtitleStreams: []string{},
		Chapters:        []string{},
	}
}
