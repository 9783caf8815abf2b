package donation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/voicedon/internal/pkg/backend/api"
	"github.com/airenas/voicedon/internal/pkg/questionnaire"
	"github.com/airenas/voicedon/internal/pkg/recorder"
	"github.com/airenas/voicedon/internal/pkg/tasks"
	"github.com/airenas/voicedon/internal/pkg/utils"
	"go.uber.org/multierr"
)

// ErrIncompleteSubmission is returned when not all tasks have recordings
var ErrIncompleteSubmission = errors.New("all recording tasks must be completed before submission")

const unknownError = "unknown error occurred"

// Client submits one recording to the backend
type Client interface {
	Submit(ctx context.Context, data *api.UploadData) (*api.SubmitResponse, error)
}

// Unit is one recording with its questionnaire.
// DonationID is empty for a single recording donation
type Unit struct {
	DonationID    string
	Task          tasks.Task
	TotalTasks    int
	Record        *recorder.Record
	Questionnaire *questionnaire.Data
}

// Result of one unit submission
type Result struct {
	TaskNumber  int    `json:"taskNumber"`
	Success     bool   `json:"success"`
	RecordingID string `json:"recordingId,omitempty"`
	Status      string `json:"status,omitempty"`
	Error       string `json:"error,omitempty"`
}

// BatchResult of a multi task donation
type BatchResult struct {
	DonationID string    `json:"donationId"`
	Success    bool      `json:"success"`
	Results    []*Result `json:"results"`
	Error      string    `json:"error,omitempty"`
}

// Orchestrator packages and submits donations
type Orchestrator struct {
	client Client
	tasks  []tasks.Task
	now    func() time.Time
}

// NewOrchestrator creates orchestrator for the task set
func NewOrchestrator(client Client, ts []tasks.Task) (*Orchestrator, error) {
	if client == nil {
		return nil, fmt.Errorf("no client")
	}
	if err := tasks.Validate(ts); err != nil {
		return nil, fmt.Errorf("wrong tasks: %w", err)
	}
	return &Orchestrator{client: client, tasks: ts, now: time.Now}, nil
}

// SubmitAll submits recordings of all tasks under one new donation ID.
// Submissions are sequential in task order, the first failure stops the batch
func (o *Orchestrator) SubmitAll(ctx context.Context, records map[int]*recorder.Record,
	q *questionnaire.Data) (*BatchResult, error) {
	defer goapp.Estimate("submit donation")()
	if err := o.checkComplete(records); err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("no questionnaire")
	}
	id, err := NewID(o.now())
	if err != nil {
		return nil, err
	}
	goapp.Log.Info().Str("ID", id).Int("tasks", len(o.tasks)).Msg("submit donation")
	res := &BatchResult{DonationID: id}
	var errs error
	for _, t := range o.tasks {
		r := o.SubmitSingle(ctx, &Unit{DonationID: id, Task: t, TotalTasks: len(o.tasks), Record: records[t.Number],
			Questionnaire: q})
		res.Results = append(res.Results, r)
		if !r.Success {
			errs = multierr.Append(errs, fmt.Errorf("task %d: %s", t.Number, r.Error))
			break
		}
	}
	res.Success = errs == nil
	if errs != nil {
		res.Error = errs.Error()
		goapp.Log.Error().Str("ID", id).Str("error", res.Error).Msg("donation failed")
	} else {
		goapp.Log.Info().Str("ID", id).Msg("donation submitted")
	}
	batchesMetric.WithLabelValues(resultLabel(res.Success)).Inc()
	return res, nil
}

func (o *Orchestrator) checkComplete(records map[int]*recorder.Record) error {
	if len(records) != len(o.tasks) {
		return fmt.Errorf("%w: got %d of %d", ErrIncompleteSubmission, len(records), len(o.tasks))
	}
	for _, t := range o.tasks {
		if r := records[t.Number]; r == nil || r.Size() == 0 {
			return fmt.Errorf("%w: no recording for task %d", ErrIncompleteSubmission, t.Number)
		}
	}
	return nil
}

// SubmitSingle submits one unit, failures are reported in Result
func (o *Orchestrator) SubmitSingle(ctx context.Context, u *Unit) *Result {
	res := o.submitSingle(ctx, u)
	submissionsMetric.WithLabelValues(resultLabel(res.Success)).Inc()
	return res
}

func (o *Orchestrator) submitSingle(ctx context.Context, u *Unit) *Result {
	res := &Result{TaskNumber: u.Task.Number}
	if u.Record == nil || u.Record.Size() == 0 {
		res.Error = recorder.ErrEmptyRecording.Error()
		return res
	}
	q := u.Questionnaire
	if u.DonationID != "" {
		q = q.WithTaskMetadata(&questionnaire.TaskMetadata{TaskNumber: u.Task.Number, TaskType: u.Task.Type,
			TotalTasks: u.TotalTasks, DonationID: u.DonationID})
	}
	qb, err := json.Marshal(q)
	if err != nil {
		res.Error = fmt.Sprintf("can't marshal questionnaire: %v", err)
		return res
	}
	goapp.Log.Info().Str("ID", u.DonationID).Int("task", u.Task.Number).Int("size", u.Record.Size()).Msg("submit recording")
	resp, err := o.client.Submit(ctx, &api.UploadData{FileName: fileName(u), MimeType: u.Record.MimeType,
		Audio: bytes.NewReader(u.Record.Data), Questionnaire: string(qb)})
	if err != nil {
		goapp.Log.Error().Err(err).Str("ID", u.DonationID).Int("task", u.Task.Number).Msg("submit failed")
		res.Error = err.Error()
		return res
	}
	if !resp.Success {
		res.Error = firstNonEmpty(resp.Message, resp.Error, unknownError)
		goapp.Log.Error().Str("ID", u.DonationID).Int("task", u.Task.Number).Str("error", goapp.Sanitize(res.Error)).Msg("submit rejected")
		return res
	}
	res.Success = true
	res.RecordingID = resp.RecordingID
	res.Status = resp.Status
	goapp.Log.Info().Str("ID", u.DonationID).Int("task", u.Task.Number).Str("recordingID", resp.RecordingID).
		Str("status", resp.Status).Msg("submitted")
	return res
}

func fileName(u *Unit) string {
	ext := utils.ExtForMime(u.Record.MimeType)
	if u.DonationID == "" {
		return "voice_donation" + ext
	}
	return fmt.Sprintf("task%d_%s%s", u.Task.Number, u.Task.Type, ext)
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
