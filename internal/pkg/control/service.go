package control

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/voicedon/internal/pkg/donation"
	"github.com/airenas/voicedon/internal/pkg/events"
	"github.com/airenas/voicedon/internal/pkg/questionnaire"
	"github.com/airenas/voicedon/internal/pkg/recorder"
	"github.com/airenas/voicedon/internal/pkg/sequencer"
	"github.com/airenas/voicedon/internal/pkg/tasks"
	"github.com/airenas/voicedon/internal/pkg/utils"
	"github.com/airenas/voicedon/internal/pkg/workflow"
	"github.com/facebookgo/grace/gracehttp"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
)

// Controller drives the donation session
type Controller interface {
	ID() string
	State() *workflow.State
	Begin() error
	ApplyQuestionnaire(s *questionnaire.Snapshot) error
	SetCondition(id string, checked bool) error
	Continue() error
	Toggle(ctx context.Context) (*recorder.Record, error)
	Next() error
	Finish() (*donation.BatchResult, error)
	SubmitLegacy() (*donation.Result, error)
	Exit() error
	Record(task int) *recorder.Record
}

// WSConnHandler handles page websocket connections
type WSConnHandler interface {
	HandleConnection(events.WsConn) error
}

// Data keeps data required for service work
type Data struct {
	Port       int
	Controller Controller
	WSHandler  WSConnHandler
	Tasks      []tasks.Task
}

// StartWebServer starts echo web service
func StartWebServer(data *Data) error {
	goapp.Log.Info().Msgf("Starting HTTP voice donation control service at %d", data.Port)
	if err := validate(data); err != nil {
		return err
	}

	portStr := strconv.Itoa(data.Port)

	e := initRoutes(data)

	e.Server.Addr = ":" + portStr
	e.Server.ReadHeaderTimeout = 5 * time.Second
	e.Server.ReadTimeout = 10 * time.Second
	// submit waits for all uploads
	e.Server.WriteTimeout = 15 * time.Minute

	gracehttp.SetLogger(log.New(goapp.Log, "", 0))

	return gracehttp.Serve(e.Server)
}

func validate(data *Data) error {
	if data.Controller == nil {
		return errors.New("no controller")
	}
	if data.WSHandler == nil {
		return errors.New("no WSHandler")
	}
	if len(data.Tasks) == 0 {
		return errors.New("no tasks")
	}
	return nil
}

var promMdlw *prometheus.Prometheus

func init() {
	promMdlw = prometheus.NewPrometheus("voicedon_control", nil)
}

func initRoutes(data *Data) *echo.Echo {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("1M"))
	promMdlw.Use(e)

	e.GET("/live", live(data))
	e.GET("/state", state(data))
	e.GET("/tasks", taskList(data))
	e.GET("/recording/:task", recording(data))
	e.GET("/subscribe", subscribeHandler(data))

	e.PUT("/questionnaire", questionnaireHandler(data))
	e.POST("/questionnaire/condition", condition(data))
	e.POST("/begin", action(data, "begin", data.Controller.Begin))
	e.POST("/continue", action(data, "continue", data.Controller.Continue))
	e.POST("/record/toggle", toggle(data))
	e.POST("/task/next", action(data, "next", data.Controller.Next))
	e.POST("/submit", submit(data))
	e.POST("/submit/legacy", submitLegacy(data))
	e.POST("/exit", action(data, "exit", data.Controller.Exit))

	goapp.Log.Info().Msg("Routes:")
	for _, r := range e.Routes() {
		goapp.Log.Info().Msgf("  %s %s", r.Method, r.Path)
	}
	return e
}

func live(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`{"service":"OK"}`))
	}
}

func state(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, data.Controller.State())
	}
}

type taskInfo struct {
	Number      int    `json:"number"`
	Type        string `json:"type"`
	MinDuration int    `json:"minDuration"`
	MaxDuration int    `json:"maxDuration"`
}

func taskList(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		res := make([]taskInfo, 0, len(data.Tasks))
		for _, t := range data.Tasks {
			res = append(res, taskInfo{Number: t.Number, Type: t.Type,
				MinDuration: int(t.MinDuration / time.Second), MaxDuration: int(t.MaxDuration / time.Second)})
		}
		return c.JSON(http.StatusOK, res)
	}
}

func recording(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		task, err := strconv.Atoi(c.Param("task"))
		if err != nil || task < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "wrong task number")
		}
		rec := data.Controller.Record(task)
		if rec == nil {
			return echo.NewHTTPError(http.StatusNotFound, "no recording")
		}
		return c.Blob(http.StatusOK, rec.MimeType, rec.Data)
	}
}

func questionnaireHandler(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		defer goapp.Estimate("questionnaire method")()

		var input questionnaire.Snapshot
		if err := c.Bind(&input); err != nil {
			goapp.Log.Warn().Err(err).Msg("can't bind questionnaire")
			return echo.NewHTTPError(http.StatusBadRequest, "can't decode questionnaire")
		}
		if err := data.Controller.ApplyQuestionnaire(&input); err != nil {
			return mapErr(err)
		}
		return c.JSON(http.StatusOK, data.Controller.State())
	}
}

func condition(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		id := c.QueryParam("id")
		if id == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "no condition id")
		}
		if err := data.Controller.SetCondition(id, utils.ParamTrue(c.QueryParam("checked"))); err != nil {
			return mapErr(err)
		}
		return c.JSON(http.StatusOK, data.Controller.State())
	}
}

func action(data *Data, name string, f func() error) func(echo.Context) error {
	return func(c echo.Context) error {
		goapp.Log.Info().Str("ID", data.Controller.ID()).Str("action", name).Send()
		if err := f(); err != nil {
			return mapErr(err)
		}
		return c.JSON(http.StatusOK, data.Controller.State())
	}
}

func toggle(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		if _, err := data.Controller.Toggle(c.Request().Context()); err != nil {
			return mapErr(err)
		}
		return c.JSON(http.StatusOK, data.Controller.State())
	}
}

func submit(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		defer goapp.Estimate("submit method")()

		res, err := data.Controller.Finish()
		if err != nil {
			return mapErr(err)
		}
		return c.JSON(http.StatusOK, res)
	}
}

func submitLegacy(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		defer goapp.Estimate("submit legacy method")()

		res, err := data.Controller.SubmitLegacy()
		if err != nil {
			return mapErr(err)
		}
		return c.JSON(http.StatusOK, res)
	}
}

func mapErr(err error) error {
	var ve *questionnaire.ValidationError
	var ce *recorder.ContinueError
	switch {
	case errors.Is(err, workflow.ErrWrongStep), errors.Is(err, sequencer.ErrIncompleteTask),
		errors.Is(err, sequencer.ErrNoMoreTasks), errors.Is(err, donation.ErrIncompleteSubmission),
		errors.Is(err, recorder.ErrNotRecording), errors.Is(err, recorder.ErrEmptyRecording),
		errors.As(err, &ve), errors.As(err, &ce):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, recorder.ErrDeviceAccess):
		goapp.Log.Error().Err(err).Send()
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	goapp.Log.Error().Err(err).Send()
	return echo.NewHTTPError(http.StatusInternalServerError, "Service error")
}

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	}}

func subscribeHandler(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		ws, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			goapp.Log.Error().Err(err).Send()
			return err
		}
		defer ws.Close()

		return data.WSHandler.HandleConnection(ws)
	}
}
