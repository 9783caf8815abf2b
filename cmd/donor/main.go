package main

import (
	"context"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/voicedon/internal/pkg/backend"
	"github.com/airenas/voicedon/internal/pkg/control"
	"github.com/airenas/voicedon/internal/pkg/donation"
	"github.com/airenas/voicedon/internal/pkg/events"
	"github.com/airenas/voicedon/internal/pkg/recorder"
	"github.com/airenas/voicedon/internal/pkg/recorder/ffmpeg"
	"github.com/airenas/voicedon/internal/pkg/sequencer"
	"github.com/airenas/voicedon/internal/pkg/status"
	"github.com/airenas/voicedon/internal/pkg/tasks"
	"github.com/airenas/voicedon/internal/pkg/utils"
	"github.com/airenas/voicedon/internal/pkg/workflow"
	"github.com/google/uuid"
	"github.com/labstack/gommon/color"
)

func main() {
	goapp.StartWithDefault()

	printBanner()

	cfg := goapp.Config
	data := &control.Data{}
	data.Port = defaultV(cfg.GetInt("port"), 8000)

	ts, err := tasks.FromConfig(cfg)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't load tasks")
	}
	data.Tasks = ts

	id := uuid.NewString()
	hub := events.NewHub()
	data.WSHandler = hub

	device, err := ffmpeg.NewDevice(defaultV(cfg.GetString("capture.format"), "pulse"),
		defaultV(cfg.GetString("capture.device"), "default"), cfg.GetString("capture.ffmpeg"))
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init capture device")
	}
	session, err := recorder.NewSession(device, workflow.NewRecorderListener(id, hub))
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init recording session")
	}
	seq, err := sequencer.New(ts)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init sequencer")
	}
	client, err := backend.NewClient(defaultV(cfg.GetString("backend.url"), "http://localhost:5000/api"),
		cfg.GetDuration("backend.timeout"), cfg.GetInt("backend.retries"))
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init backend client")
	}
	orchestrator, err := donation.NewOrchestrator(client, ts)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init orchestrator")
	}
	poller, err := status.NewPoller(client)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init poller")
	}
	poller.Configure(cfg.GetDuration("poll.initialDelay"), cfg.GetDuration("poll.interval"), cfg.GetInt("poll.maxAttempts"))

	ctx, cancelFunc := context.WithCancel(context.Background())
	ctrl, err := workflow.New(ctx, &workflow.Data{ID: id, Recorder: session, Sequencer: seq, Submitter: orchestrator,
		Poller: poller, Publisher: hub, Watch: cfg.GetBool("donation.watch")})
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init controller")
	}
	data.Controller = ctrl
	goapp.Log.Info().Str("ID", id).Int("tasks", len(ts)).Msg("session")

	go utils.RunPerfEndpoint(cfg.GetInt("debug.port"))

	goapp.Log.Info().Msg("starting web service")
	if err := control.StartWebServer(data); err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't start web server")
	}
	goapp.Log.Info().Msg("exit web service")
	cancelFunc()
	session.Reset()
	doneCh := make(chan struct{})
	go func() {
		defer close(doneCh)
		ctrl.Wait()
	}()
	select {
	case <-doneCh:
		goapp.Log.Info().Msg("All code returned. Now exit. Bye")
	case <-time.After(time.Second * 15):
		goapp.Log.Warn().Msg("Timeout gracefull shutdown")
	}
}

func defaultV[T comparable](v, d T) T {
	var e T
	if v == e {
		return d
	}
	return v
}

var (
	version = "DEV"
)

func printBanner() {
	banner := `
                  _              __
 _   ______  (_)________  ____/ /___  ____
| | / / __ \/ / ___/ _ \/ __  / __ \/ __ \
| |/ / /_/ / / /__/  __/ /_/ / /_/ / / / /
|___/\____/_/\___/\___/\__,_/\____/_/ /_/  v: %s

%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("https://github.com/airenas/voicedon"))
}
