package recorder

import (
	"errors"
	"fmt"
)

var (
	// ErrDeviceAccess is returned when capture device can't be opened
	ErrDeviceAccess = errors.New("can't access microphone")
	// ErrEmptyRecording is returned when capture produced no data
	ErrEmptyRecording = errors.New("no audio data recorded")
	// ErrNotRecording is returned by Stop on an idle session
	ErrNotRecording = errors.New("not recording")
)

// ContinueError is returned when stop is requested before the task's minimum duration
type ContinueError struct {
	Remaining int
}

func (e *ContinueError) Error() string {
	return fmt.Sprintf("please continue recording for at least %d more seconds", e.Remaining)
}
