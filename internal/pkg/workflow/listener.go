package workflow

import (
	"time"

	"github.com/airenas/voicedon/internal/pkg/events"
	"github.com/airenas/voicedon/internal/pkg/recorder"
)

// RecorderListener forwards recording session timer events to the page
type RecorderListener struct {
	id  string
	pub Publisher
}

// NewRecorderListener creates listener for the session ID
func NewRecorderListener(id string, pub Publisher) *RecorderListener {
	return &RecorderListener{id: id, pub: pub}
}

// Tick publishes elapsed seconds
func (l *RecorderListener) Tick(task int, elapsed time.Duration) {
	l.pub.Publish(l.id, &events.Event{Type: events.TypeTick, Task: task, Elapsed: int(elapsed / time.Second)})
}

// AutoStopped publishes the stop made by the timer
func (l *RecorderListener) AutoStopped(task int, rec *recorder.Record, err error) {
	if err != nil {
		l.pub.Publish(l.id, &events.Event{Type: events.TypeNotice, Task: task, Message: err.Error()})
		return
	}
	l.pub.Publish(l.id, &events.Event{Type: events.TypeRecorded, Task: task, Elapsed: int(rec.Duration / time.Second)})
}
