package ffmpeg

import (
	"strings"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/rs/zerolog"
)

// logWriter passes ffmpeg stderr lines to the app log, zero level is debug
type logWriter struct {
	level zerolog.Level
}

func (w *logWriter) Write(p []byte) (int, error) {
	for _, l := range strings.Split(string(p), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			goapp.Log.WithLevel(w.level).Str("src", "ffmpeg").Msg(goapp.Sanitize(l))
		}
	}
	return len(p), nil
}
