package status

import (
	"context"
	"fmt"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/voicedon/internal/pkg/backend/api"
	"github.com/facebookgo/clock"
)

// Outcome is a terminal result of polling
type Outcome int

const (
	// OutcomeCompleted - processing completed
	OutcomeCompleted Outcome = iota + 1
	// OutcomeFailed - processing failed or status check failed
	OutcomeFailed
	// OutcomeTimeout - no final status after max attempts
	OutcomeTimeout
	// OutcomeCanceled - polling stopped by context
	OutcomeCanceled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeFailed:
		return "failed"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeCanceled:
		return "canceled"
	}
	return ""
}

const (
	unknownProcessingError = "Unknown processing error"
	timeoutMessage         = "Processing is taking longer than expected. Please check back later."
)

// Result of polling
type Result struct {
	Outcome  Outcome
	Error    string
	Attempts int
}

// Getter loads status by ID
type Getter interface {
	GetStatus(ctx context.Context, ID string) (*api.StatusData, error)
}

// Poller polls backend until a final status
type Poller struct {
	getter       Getter
	clock        clock.Clock
	initialDelay time.Duration
	interval     time.Duration
	maxAttempts  int
}

// NewPoller creates poller with 2s initial delay, 5s interval and 60 attempts
func NewPoller(getter Getter) (*Poller, error) {
	if getter == nil {
		return nil, fmt.Errorf("no status getter")
	}
	return &Poller{getter: getter, clock: clock.New(), initialDelay: 2 * time.Second, interval: 5 * time.Second,
		maxAttempts: 60}, nil
}

// Configure overrides timings, non positive values are ignored
func (p *Poller) Configure(initialDelay, interval time.Duration, maxAttempts int) {
	if initialDelay > 0 {
		p.initialDelay = initialDelay
	}
	if interval > 0 {
		p.interval = interval
	}
	if maxAttempts > 0 {
		p.maxAttempts = maxAttempts
	}
}

// Poll waits for a final status of ID. A failed status request ends polling
func (p *Poller) Poll(ctx context.Context, ID string) *Result {
	goapp.Log.Info().Str("ID", ID).Msg("start polling")
	wait := p.initialDelay
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			goapp.Log.Info().Str("ID", ID).Msg("polling canceled")
			return &Result{Outcome: OutcomeCanceled, Error: ctx.Err().Error(), Attempts: attempt - 1}
		case <-p.clock.After(wait):
		}
		wait = p.interval
		d, err := p.getter.GetStatus(ctx, ID)
		if err != nil {
			goapp.Log.Error().Err(err).Str("ID", ID).Int("attempt", attempt).Msg("status check failed")
			return &Result{Outcome: OutcomeFailed, Error: fmt.Sprintf("status check failed: %v", err), Attempts: attempt}
		}
		st, msg := Resolve(d)
		goapp.Log.Debug().Str("ID", ID).Int("attempt", attempt).Str("status", st.String()).Msg("polled")
		switch st {
		case Completed:
			goapp.Log.Info().Str("ID", ID).Msg("processing completed")
			return &Result{Outcome: OutcomeCompleted, Attempts: attempt}
		case Failed:
			if msg == "" {
				msg = unknownProcessingError
			}
			goapp.Log.Warn().Str("ID", ID).Str("error", goapp.Sanitize(msg)).Msg("processing failed")
			return &Result{Outcome: OutcomeFailed, Error: msg, Attempts: attempt}
		}
	}
	goapp.Log.Warn().Str("ID", ID).Int("attempts", p.maxAttempts).Msg("polling timeout")
	return &Result{Outcome: OutcomeTimeout, Error: timeoutMessage, Attempts: p.maxAttempts}
}

// Resolve returns status of a response, donation_status takes precedence over status
func Resolve(d *api.StatusData) (Status, string) {
	if d == nil {
		return 0, ""
	}
	if d.DonationStatus != "" {
		st := From(d.DonationStatus)
		msg := d.ErrorMessage
		if st == Failed && msg == "" {
			for _, r := range d.Recordings {
				if From(r.Status) == Failed && r.ErrorMessage != "" {
					msg = r.ErrorMessage
					break
				}
			}
		}
		return st, msg
	}
	return From(d.Status), d.ErrorMessage
}
