package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/voicedon/internal/pkg/donation"
	"github.com/airenas/voicedon/internal/pkg/events"
	"github.com/airenas/voicedon/internal/pkg/questionnaire"
	"github.com/airenas/voicedon/internal/pkg/recorder"
	"github.com/airenas/voicedon/internal/pkg/sequencer"
	"github.com/airenas/voicedon/internal/pkg/status"
	"github.com/airenas/voicedon/internal/pkg/tasks"
)

// Step is a page shown to the user
type Step string

const (
	// StepWelcome is the start page, session data is empty
	StepWelcome Step = "welcome"
	// StepQuestionnaire collects donor answers
	StepQuestionnaire Step = "questionnaire"
	// StepRecording records the current task
	StepRecording Step = "recording"
	// StepProcessing is shown while uploading or waiting for the legacy status
	StepProcessing Step = "processing"
	// StepSuccess is shown after the backend accepted the donation
	StepSuccess Step = "success"
)

var (
	// ErrWrongStep is returned when action is not available at the current step
	ErrWrongStep = errors.New("action is not allowed at the current step")
)

// Recorder is a recording session
type Recorder interface {
	Toggle(ctx context.Context, task tasks.Task) (*recorder.Record, error)
	Record() *recorder.Record
	Reset()
	State() recorder.State
	Elapsed() time.Duration
}

// Submitter sends recordings to the backend
type Submitter interface {
	SubmitAll(ctx context.Context, records map[int]*recorder.Record, q *questionnaire.Data) (*donation.BatchResult, error)
	SubmitSingle(ctx context.Context, u *donation.Unit) *donation.Result
}

// Poller waits for final processing status
type Poller interface {
	Poll(ctx context.Context, ID string) *status.Result
}

// Publisher pushes events to the page
type Publisher interface {
	Publish(id string, ev *events.Event)
}

// Data keeps components required for the controller
type Data struct {
	ID        string
	Recorder  Recorder
	Sequencer *sequencer.Sequencer
	Submitter Submitter
	Poller    Poller
	Publisher Publisher
	// Watch polls a submitted multi task donation in background
	Watch bool
}

// State is a snapshot for the page
type State struct {
	ID          string   `json:"id"`
	Step        Step     `json:"step"`
	Task        int      `json:"task"`
	TaskType    string   `json:"taskType"`
	TotalTasks  int      `json:"totalTasks"`
	IsLast      bool     `json:"isLast"`
	MinDuration int      `json:"minDuration"`
	MaxDuration int      `json:"maxDuration"`
	Recording   bool     `json:"recording"`
	Elapsed     int      `json:"elapsed"`
	HasRecord   bool     `json:"hasRecord"`
	Completed   []int    `json:"completedTasks"`
	FormValid   bool     `json:"formValid"`
	FormErrors  []string `json:"formErrors,omitempty"`
	DonationID  string   `json:"donationId,omitempty"`
	RecordingID string   `json:"recordingId,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Controller owns one donation session and moves it through the steps
type Controller struct {
	data *Data
	ctx  context.Context
	wg   sync.WaitGroup

	lock        sync.Mutex
	step        Step
	form        *questionnaire.Form
	donationID  string
	recordingID string
	lastError   string
	pollCancel  context.CancelFunc
}

// New creates controller, ctx bounds submissions and background polling
func New(ctx context.Context, data *Data) (*Controller, error) {
	if err := validate(data); err != nil {
		return nil, err
	}
	return &Controller{data: data, ctx: ctx, step: StepWelcome, form: questionnaire.NewForm()}, nil
}

func validate(data *Data) error {
	if data == nil {
		return fmt.Errorf("no data")
	}
	if data.ID == "" {
		return fmt.Errorf("no ID")
	}
	if data.Recorder == nil {
		return fmt.Errorf("no recorder")
	}
	if data.Sequencer == nil {
		return fmt.Errorf("no sequencer")
	}
	if data.Submitter == nil {
		return fmt.Errorf("no submitter")
	}
	if data.Poller == nil {
		return fmt.Errorf("no poller")
	}
	if data.Publisher == nil {
		return fmt.Errorf("no publisher")
	}
	return nil
}

// ID returns session ID
func (c *Controller) ID() string {
	return c.data.ID
}

// State returns current state snapshot
func (c *Controller) State() *State {
	c.lock.Lock()
	defer c.lock.Unlock()
	seq := c.data.Sequencer
	task := seq.Current()
	res := &State{ID: c.data.ID, Step: c.step, Task: task.Number, TaskType: task.Type, TotalTasks: len(seq.Tasks()),
		IsLast: seq.IsLast(), MinDuration: int(task.MinDuration / time.Second), MaxDuration: int(task.MaxDuration / time.Second),
		Recording: c.data.Recorder.State() == recorder.Recording, Elapsed: int(c.data.Recorder.Elapsed() / time.Second),
		DonationID: c.donationID, RecordingID: c.recordingID, Error: c.lastError, Completed: []int{}}
	if r := c.data.Recorder.Record(); r != nil && r.TaskNumber == task.Number {
		res.HasRecord = true
	}
	for _, t := range seq.Tasks() {
		if seq.Record(t.Number) != nil {
			res.Completed = append(res.Completed, t.Number)
		}
	}
	if err := c.form.Validate(); err != nil {
		var ve *questionnaire.ValidationError
		if errors.As(err, &ve) {
			res.FormErrors = ve.Problems
		}
	} else {
		res.FormValid = true
	}
	return res
}

// Begin moves from welcome to the questionnaire
func (c *Controller) Begin() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.step != StepWelcome {
		return ErrWrongStep
	}
	c.setStep(StepQuestionnaire)
	return nil
}

// ApplyQuestionnaire replaces questionnaire inputs
func (c *Controller) ApplyQuestionnaire(s *questionnaire.Snapshot) error {
	return c.updateForm(func(f *questionnaire.Form) { f.Apply(s) })
}

// SetCondition checks or unchecks one health condition
func (c *Controller) SetCondition(id string, checked bool) error {
	return c.updateForm(func(f *questionnaire.Form) { f.SetCondition(id, checked) })
}

func (c *Controller) updateForm(upd func(f *questionnaire.Form)) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.step != StepQuestionnaire {
		return ErrWrongStep
	}
	upd(c.form)
	valid := c.form.Validate() == nil
	c.publish(&events.Event{Type: events.TypeForm, Valid: &valid})
	return nil
}

// Continue validates the questionnaire and starts recording step
func (c *Controller) Continue() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.step != StepQuestionnaire {
		return ErrWrongStep
	}
	if err := c.form.Validate(); err != nil {
		return err
	}
	c.data.Recorder.Reset()
	c.data.Sequencer.Reset()
	c.lastError = ""
	c.setStep(StepRecording)
	return nil
}

// Toggle starts or stops recording of the current task
func (c *Controller) Toggle(ctx context.Context) (*recorder.Record, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.step != StepRecording {
		return nil, ErrWrongStep
	}
	task := c.data.Sequencer.Current()
	rec, err := c.data.Recorder.Toggle(ctx, task)
	if err != nil {
		c.notice(err.Error())
		return nil, err
	}
	if rec != nil {
		c.publish(&events.Event{Type: events.TypeRecorded, Task: task.Number})
	}
	return rec, nil
}

// Next stores the recording and moves to the next task
func (c *Controller) Next() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.step != StepRecording {
		return ErrWrongStep
	}
	if err := c.data.Sequencer.AdvanceToNext(c.data.Recorder); err != nil {
		c.notice(err.Error())
		return err
	}
	c.setStep(StepRecording)
	return nil
}

// Finish submits all task recordings as one donation, the submission is bound to the controller context
func (c *Controller) Finish() (*donation.BatchResult, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.step != StepRecording {
		return nil, ErrWrongStep
	}
	q := c.form.Collect()
	res, err := c.data.Sequencer.FinalizeAndSubmit(c.ctx, c.data.Recorder, sequencer.SubmitFunc(
		func(ctx context.Context, records map[int]*recorder.Record) (*donation.BatchResult, error) {
			var res *donation.BatchResult
			var err error
			c.processing(func() { res, err = c.data.Submitter.SubmitAll(ctx, records, q) })
			return res, err
		}))
	if err != nil {
		c.setStep(StepRecording)
		c.notice(err.Error())
		return nil, err
	}
	if !res.Success {
		c.lastError = res.Error
		c.setStep(StepRecording)
		c.notice(fmt.Sprintf("Error submitting recordings: %s", res.Error))
		return res, nil
	}
	c.donationID = res.DonationID
	c.lastError = ""
	c.setStep(StepSuccess)
	if c.data.Watch {
		c.goBackground(func() { c.watch(res.DonationID) })
	}
	return res, nil
}

// SubmitLegacy submits the current recording alone and waits for processing in background
func (c *Controller) SubmitLegacy() (*donation.Result, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.step != StepRecording {
		return nil, ErrWrongStep
	}
	task := c.data.Sequencer.Current()
	rec := c.data.Recorder.Record()
	if rec == nil || rec.Size() == 0 || rec.TaskNumber != task.Number {
		c.notice(sequencer.ErrIncompleteTask.Error())
		return nil, sequencer.ErrIncompleteTask
	}
	u := &donation.Unit{Task: task, TotalTasks: 1, Record: rec, Questionnaire: c.form.Collect()}
	var res *donation.Result
	c.processing(func() { res = c.data.Submitter.SubmitSingle(c.ctx, u) })
	if !res.Success {
		c.lastError = res.Error
		c.setStep(StepRecording)
		c.notice(fmt.Sprintf("There was an error submitting your donation: %s", res.Error))
		return res, nil
	}
	c.recordingID = res.RecordingID
	if status.From(res.Status) == status.Processing {
		id := res.RecordingID
		ctx, cf := context.WithCancel(c.ctx)
		c.pollCancel = cf
		c.goBackground(func() { c.pollLegacy(ctx, id) })
		return res, nil
	}
	c.setStep(StepSuccess)
	return res, nil
}

// Exit drops all session data and returns to welcome.
// A running legacy status poll is canceled, an upload in progress can not be interrupted
func (c *Controller) Exit() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.step == StepProcessing {
		if c.pollCancel == nil {
			return ErrWrongStep
		}
		goapp.Log.Info().Str("ID", c.data.ID).Str("recordingID", c.recordingID).Msg("cancel polling on exit")
		c.stopPoll()
	}
	c.data.Recorder.Reset()
	c.data.Sequencer.Reset()
	c.form.Reset()
	c.donationID, c.recordingID, c.lastError = "", "", ""
	c.setStep(StepWelcome)
	return nil
}

// Record returns recording of the task for playback
func (c *Controller) Record(task int) *recorder.Record {
	c.lock.Lock()
	defer c.lock.Unlock()
	if r := c.data.Recorder.Record(); r != nil && r.TaskNumber == task {
		return r
	}
	return c.data.Sequencer.Record(task)
}

// Wait waits for background routines to finish
func (c *Controller) Wait() {
	c.wg.Wait()
}

// processing shows processing step and runs f without the lock.
// Other actions are rejected at this step so the state is not changed meanwhile
func (c *Controller) processing(f func()) {
	c.setStep(StepProcessing)
	c.lock.Unlock()
	defer c.lock.Lock()
	f()
}

func (c *Controller) pollLegacy(ctx context.Context, id string) {
	r := c.data.Poller.Poll(ctx, id)
	c.lock.Lock()
	defer c.lock.Unlock()
	if ctx.Err() != nil {
		// canceled by Exit or shutdown, the session may already be a new one
		goapp.Log.Info().Str("ID", id).Msg("polling canceled")
		return
	}
	c.stopPoll()
	if c.step != StepProcessing {
		return
	}
	switch r.Outcome {
	case status.OutcomeCompleted:
		c.setStep(StepSuccess)
	case status.OutcomeCanceled:
		goapp.Log.Info().Str("ID", id).Msg("polling canceled")
	default:
		c.lastError = r.Error
		c.setStep(StepRecording)
		if r.Outcome == status.OutcomeFailed {
			c.notice(fmt.Sprintf("Processing failed: %s", r.Error))
		} else {
			c.notice(r.Error)
		}
	}
}

func (c *Controller) stopPoll() {
	if c.pollCancel != nil {
		c.pollCancel()
		c.pollCancel = nil
	}
}

func (c *Controller) watch(id string) {
	r := c.data.Poller.Poll(c.ctx, id)
	if r.Outcome == status.OutcomeCanceled {
		return
	}
	goapp.Log.Info().Str("ID", id).Str("outcome", r.Outcome.String()).Msg("donation processed")
	c.publish(&events.Event{Type: events.TypeProcessed, DonationID: id, Status: r.Outcome.String(), Message: r.Error})
}

func (c *Controller) goBackground(f func()) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		f()
	}()
}

func (c *Controller) setStep(s Step) {
	goapp.Log.Info().Str("ID", c.data.ID).Str("from", string(c.step)).Str("to", string(s)).Msg("step")
	c.step = s
	task := c.data.Sequencer.Current()
	c.publish(&events.Event{Type: events.TypeStep, Step: string(s), Task: task.Number, DonationID: c.donationID})
}

func (c *Controller) notice(msg string) {
	c.publish(&events.Event{Type: events.TypeNotice, Message: msg})
}

func (c *Controller) publish(ev *events.Event) {
	c.data.Publisher.Publish(c.data.ID, ev)
}
