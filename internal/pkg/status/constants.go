package status

import "strings"

// Status represents backend processing status
type Status int

const (
	// Submitted - accepted by the backend
	Submitted Status = iota + 1
	// Processing - biomarker extraction in progress
	Processing
	// Completed - final step
	Completed
	// Failed - final step
	Failed
)

var (
	statusName = map[Status]string{Submitted: "submitted", Processing: "processing",
		Completed: "completed", Failed: "failed"}
	nameStatus = map[string]Status{"submitted": Submitted, "processing": Processing,
		"completed": Completed, "failed": Failed}
)

func (st Status) String() string {
	return statusName[st]
}

// From returns status obj from string, 0 if unknown
func From(st string) Status {
	return nameStatus[strings.ToLower(strings.TrimSpace(st))]
}

// IsFinal tells if no more changes are expected
func (st Status) IsFinal() bool {
	return st == Completed || st == Failed
}
