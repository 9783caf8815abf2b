package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/voicedon/internal/pkg/recorder"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

type outFormat struct {
	format   string
	codec    string
	mimeType string
	bitRate  bool
}

var (
	wavFormat  = outFormat{format: "wav", codec: "pcm_s16le", mimeType: "audio/wav"}
	webmFormat = outFormat{format: "webm", codec: "libopus", mimeType: "audio/webm;codecs=opus", bitRate: true}

	formats = map[string]outFormat{
		"audio/wav":              wavFormat,
		"audio/webm;codecs=opus": webmFormat,
		"audio/webm":             webmFormat,
	}
)

// Device captures audio with an ffmpeg subprocess
type Device struct {
	inputFormat string
	input       string
	bin         string
}

// NewDevice creates device, inputFormat and input are ffmpeg's -f and -i values, e.g. pulse and default
func NewDevice(inputFormat, input, bin string) (*Device, error) {
	if inputFormat == "" {
		return nil, fmt.Errorf("no input format")
	}
	if input == "" {
		return nil, fmt.Errorf("no input")
	}
	return &Device{inputFormat: inputFormat, input: input, bin: bin}, nil
}

// IsTypeSupported checks if mime type can be produced
func (d *Device) IsTypeSupported(mimeType string) bool {
	_, ok := formats[strings.ToLower(mimeType)]
	return ok
}

// Open starts ffmpeg process
func (d *Device) Open(ctx context.Context, c *recorder.Constraints) (recorder.Stream, error) {
	if c.EchoCancellation || c.NoiseSuppression || c.AutoGainControl {
		return nil, fmt.Errorf("audio processing is not supported")
	}
	of := wavFormat
	if c.MimeType != "" {
		var ok bool
		if of, ok = formats[strings.ToLower(c.MimeType)]; !ok {
			return nil, fmt.Errorf("unsupported mime type '%s'", c.MimeType)
		}
	}
	cmd := d.command(c, of)
	goapp.Log.Debug().Str("cmd", strings.Join(cmd.Args, " ")).Msg("ffmpeg")
	return startStream(cmd, of.mimeType, c.TimeSlice)
}

func (d *Device) command(c *recorder.Constraints, of outFormat) *exec.Cmd {
	out := ffmpeg.KwArgs{"c:a": of.codec, "f": of.format}
	if c.SampleRate > 0 {
		out["ar"] = c.SampleRate
	}
	if c.Channels > 0 {
		out["ac"] = c.Channels
	}
	if of.bitRate && c.BitsPerSecond > 0 {
		out["b:a"] = c.BitsPerSecond
	}
	res := ffmpeg.Input(d.input, ffmpeg.KwArgs{"f": d.inputFormat}).
		Output("pipe:", out).
		GlobalArgs("-hide_banner", "-nostdin", "-loglevel", "error").
		Compile()
	if d.bin != "" {
		res.Path = d.bin
		res.Args[0] = d.bin
		res.Err = nil
	}
	return res
}
