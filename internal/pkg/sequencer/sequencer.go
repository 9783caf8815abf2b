package sequencer

import (
	"context"
	"errors"
	"fmt"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/voicedon/internal/pkg/donation"
	"github.com/airenas/voicedon/internal/pkg/recorder"
	"github.com/airenas/voicedon/internal/pkg/tasks"
)

var (
	// ErrIncompleteTask is returned when the current task has no recording
	ErrIncompleteTask = errors.New("please record audio before proceeding")
	// ErrNoMoreTasks is returned on advance from the last task
	ErrNoMoreTasks = errors.New("no more tasks")
)

// Recorder provides the last recording of the current task
type Recorder interface {
	Record() *recorder.Record
	Reset()
}

// Submitter takes recordings of all tasks
type Submitter interface {
	Submit(ctx context.Context, records map[int]*recorder.Record) (*donation.BatchResult, error)
}

// SubmitFunc adapts a func to Submitter
type SubmitFunc func(ctx context.Context, records map[int]*recorder.Record) (*donation.BatchResult, error)

// Submit calls f
func (f SubmitFunc) Submit(ctx context.Context, records map[int]*recorder.Record) (*donation.BatchResult, error) {
	return f(ctx, records)
}

// Sequencer walks through tasks keeping finished recordings
type Sequencer struct {
	tasks   []tasks.Task
	current int
	records map[int]*recorder.Record
}

// New creates sequencer positioned at the first task
func New(ts []tasks.Task) (*Sequencer, error) {
	if err := tasks.Validate(ts); err != nil {
		return nil, fmt.Errorf("wrong tasks: %w", err)
	}
	return &Sequencer{tasks: ts, records: map[int]*recorder.Record{}}, nil
}

// Current returns current task
func (s *Sequencer) Current() tasks.Task {
	return s.tasks[s.current]
}

// Tasks returns all tasks
func (s *Sequencer) Tasks() []tasks.Task {
	return append([]tasks.Task{}, s.tasks...)
}

// IsLast tells if the current task is the last one
func (s *Sequencer) IsLast() bool {
	return s.current == len(s.tasks)-1
}

// AdvanceToNext stores the current recording, moves to the next task and resets the recorder
func (s *Sequencer) AdvanceToNext(rec Recorder) error {
	if s.IsLast() {
		return ErrNoMoreTasks
	}
	if err := s.store(rec); err != nil {
		return err
	}
	s.current++
	rec.Reset()
	goapp.Log.Info().Int("task", s.Current().Number).Msg("next task")
	return nil
}

// FinalizeAndSubmit stores the current recording and submits recordings of all tasks.
// Stored recordings are kept, so a failed submission may be repeated
func (s *Sequencer) FinalizeAndSubmit(ctx context.Context, rec Recorder, sub Submitter) (*donation.BatchResult, error) {
	if err := s.store(rec); err != nil {
		return nil, err
	}
	return sub.Submit(ctx, s.Records())
}

func (s *Sequencer) store(rec Recorder) error {
	r := rec.Record()
	task := s.Current()
	if r == nil || r.Size() == 0 || r.TaskNumber != task.Number {
		return ErrIncompleteTask
	}
	s.records[task.Number] = r
	return nil
}

// Records returns a copy of stored recordings by task number
func (s *Sequencer) Records() map[int]*recorder.Record {
	res := make(map[int]*recorder.Record, len(s.records))
	for k, v := range s.records {
		res[k] = v
	}
	return res
}

// Record returns stored recording of the task
func (s *Sequencer) Record(task int) *recorder.Record {
	return s.records[task]
}

// Reset clears recordings and moves to the first task
func (s *Sequencer) Reset() {
	s.current = 0
	s.records = map[int]*recorder.Record{}
}
