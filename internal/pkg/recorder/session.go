package recorder

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/voicedon/internal/pkg/tasks"
	"github.com/facebookgo/clock"
)

// State of the session
type State int

const (
	// Idle - no capture in progress
	Idle State = iota
	// Recording - capture in progress
	Recording
)

func (s State) String() string {
	if s == Recording {
		return "recording"
	}
	return "idle"
}

// Record is one finished capture of a task
type Record struct {
	TaskNumber int
	MimeType   string
	Data       []byte
	Duration   time.Duration
}

// Size returns audio size in bytes
func (r *Record) Size() int {
	return len(r.Data)
}

// Listener receives timer events, called outside of session lock
type Listener interface {
	Tick(task int, elapsed time.Duration)
	AutoStopped(task int, rec *Record, err error)
}

const drainTimeout = 5 * time.Second

// Session drives capture for one task at a time
type Session struct {
	device    Device
	listener  Listener
	clock     clock.Clock
	mimeTypes []string

	lock      sync.Mutex
	state     State
	task      tasks.Task
	stream    Stream
	started   time.Time
	collected chan [][]byte
	quit      chan struct{}
	record    *Record
}

// NewSession creates recording session
func NewSession(device Device, listener Listener) (*Session, error) {
	if device == nil {
		return nil, fmt.Errorf("no device")
	}
	if listener == nil {
		return nil, fmt.Errorf("no listener")
	}
	return &Session{device: device, listener: listener, clock: clock.New(), mimeTypes: DefaultMimeTypes}, nil
}

// Start opens the device and starts capture for the task, no-op if already recording
func (s *Session) Start(ctx context.Context, task tasks.Task) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.startNoSync(ctx, task)
}

func (s *Session) startNoSync(ctx context.Context, task tasks.Task) error {
	if s.state == Recording {
		return nil
	}
	mt := selectMimeType(s.device, s.mimeTypes)
	goapp.Log.Info().Int("task", task.Number).Str("mime", mt).Msg("start recording")
	st, err := s.device.Open(ctx, defaultConstraints(mt))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceAccess, err)
	}
	s.task = task
	s.stream = st
	s.state = Recording
	s.record = nil
	s.started = s.clock.Now()
	s.collected = make(chan [][]byte, 1)
	s.quit = make(chan struct{})
	go collect(st, s.collected)
	go s.runTimer(s.clock.Ticker(time.Second), s.quit)
	return nil
}

func collect(st Stream, res chan<- [][]byte) {
	var chunks [][]byte
	for c := range st.Chunks() {
		if len(c) > 0 {
			chunks = append(chunks, c)
		}
	}
	res <- chunks
}

// Stop finishes capture and returns the recording
func (s *Session) Stop() (*Record, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.stopNoSync()
}

func (s *Session) stopNoSync() (*Record, error) {
	if s.state != Recording {
		return nil, ErrNotRecording
	}
	st := s.stream
	close(s.quit)
	s.state = Idle
	s.stream = nil
	defer func() {
		if err := st.Release(); err != nil {
			goapp.Log.Warn().Err(err).Msg("can't release device")
		}
	}()
	if err := st.Stop(); err != nil {
		goapp.Log.Warn().Err(err).Msg("stop stream")
	}
	var chunks [][]byte
	select {
	case chunks = <-s.collected:
	case <-time.After(drainTimeout):
		goapp.Log.Warn().Msg("timeout waiting for the last chunks")
	}
	duration := s.clock.Now().Sub(s.started)
	if len(chunks) == 0 {
		goapp.Log.Warn().Int("task", s.task.Number).Msg("empty recording")
		return nil, ErrEmptyRecording
	}
	data := bytes.Join(chunks, nil)
	if isWav(st.MimeType()) && !fixWavSizes(data) {
		goapp.Log.Warn().Int("task", s.task.Number).Msg("no wav data chunk")
	}
	s.record = &Record{TaskNumber: s.task.Number, MimeType: st.MimeType(), Data: data, Duration: duration}
	goapp.Log.Info().Int("task", s.task.Number).Int("size", s.record.Size()).Dur("duration", duration).Msg("recorded")
	return s.record, nil
}

// Toggle starts capture when idle, stops it when minimum duration is reached.
// Returns nil record with nil error when capture was started
func (s *Session) Toggle(ctx context.Context, task tasks.Task) (*Record, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.state != Recording {
		return nil, s.startNoSync(ctx, task)
	}
	if elapsed := s.clock.Now().Sub(s.started); elapsed < s.task.MinDuration {
		return nil, &ContinueError{Remaining: remainingSec(s.task.MinDuration - elapsed)}
	}
	return s.stopNoSync()
}

// Reset stops capture discarding data and forgets the last recording
func (s *Session) Reset() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.state == Recording {
		_, _ = s.stopNoSync()
	}
	s.record = nil
}

// Record returns the last finished recording or nil
func (s *Session) Record() *Record {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.record
}

// State returns current session state
func (s *Session) State() State {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.state
}

// Elapsed returns duration of the current capture, zero when idle
func (s *Session) Elapsed() time.Duration {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.state != Recording {
		return 0
	}
	return s.clock.Now().Sub(s.started)
}

func (s *Session) runTimer(tk *clock.Ticker, quit <-chan struct{}) {
	defer tk.Stop()
	for {
		select {
		case <-quit:
			return
		case <-tk.C:
			if !s.tick(quit) {
				return
			}
		}
	}
}

// tick returns false when the capture is finished
func (s *Session) tick(quit <-chan struct{}) bool {
	s.lock.Lock()
	select {
	case <-quit:
		s.lock.Unlock()
		return false
	default:
	}
	task := s.task
	elapsed := s.clock.Now().Sub(s.started)
	if elapsed < task.MaxDuration {
		s.lock.Unlock()
		s.listener.Tick(task.Number, elapsed)
		return true
	}
	goapp.Log.Info().Int("task", task.Number).Dur("elapsed", elapsed).Msg("max duration reached, auto stop")
	rec, err := s.stopNoSync()
	s.lock.Unlock()
	s.listener.AutoStopped(task.Number, rec, err)
	return false
}

func remainingSec(d time.Duration) int {
	return int(math.Ceil(float64(d) / float64(time.Second)))
}
