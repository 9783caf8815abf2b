package utils

import (
	"testing"
)

func TestExtForMime(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{mime: "audio/wav", want: ".wav"},
		{mime: "audio/x-wav", want: ".wav"},
		{mime: "audio/webm;codecs=opus", want: ".webm"},
		{mime: "audio/webm; codecs=pcm", want: ".webm"},
		{mime: "audio/mp4", want: ".mp4"},
		{mime: "AUDIO/OGG", want: ".ogg"},
		{mime: "", want: ".webm"},
		{mime: "audio/flac", want: ".webm"},
	}
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			if got := ExtForMime(tt.mime); got != tt.want {
				t.Errorf("ExtForMime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParamTrue(t *testing.T) {
	tests := []struct {
		v    string
		want bool
	}{
		{v: "true", want: true},
		{v: "TRUE", want: true},
		{v: "1", want: true},
		{v: "0", want: false},
		{v: "", want: false},
		{v: "false", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.v, func(t *testing.T) {
			if got := ParamTrue(tt.v); got != tt.want {
				t.Errorf("ParamTrue() = %v, want %v", got, tt.want)
			}
		})
	}
}
