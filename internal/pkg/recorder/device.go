package recorder

import (
	"context"
	"time"
)

// Constraints are capture parameters requested from a device
type Constraints struct {
	SampleRate       int
	Channels         int
	EchoCancellation bool
	NoiseSuppression bool
	AutoGainControl  bool
	// MimeType requested container/codec, empty means device default
	MimeType      string
	BitsPerSecond int
	// TimeSlice how often captured data is flushed to Stream.Chunks
	TimeSlice time.Duration
}

// Device is the platform audio capture facility
type Device interface {
	IsTypeSupported(mimeType string) bool
	Open(ctx context.Context, c *Constraints) (Stream, error)
}

// Stream is an active capture.
// Chunks channel is closed by the stream after Stop once all data is flushed
type Stream interface {
	Chunks() <-chan []byte
	MimeType() string
	Stop() error
	Release() error
}

// DefaultMimeTypes preference list for capture, the last empty value means device default
var DefaultMimeTypes = []string{
	"audio/wav",
	"audio/webm;codecs=pcm",
	"audio/webm;codecs=opus",
	"audio/webm",
	"audio/mp4",
	"",
}

func selectMimeType(d Device, types []string) string {
	for _, t := range types {
		if t != "" && d.IsTypeSupported(t) {
			return t
		}
	}
	return ""
}

func defaultConstraints(mimeType string) *Constraints {
	return &Constraints{
		SampleRate:    44100,
		Channels:      1,
		MimeType:      mimeType,
		BitsPerSecond: 256000,
		TimeSlice:     500 * time.Millisecond,
	}
}
