package events

const (
	// TypeStep - page must show another step
	TypeStep = "step"
	// TypeTick - recording timer tick
	TypeTick = "tick"
	// TypeRecorded - recording finished
	TypeRecorded = "recorded"
	// TypeNotice - blocking message for the user
	TypeNotice = "notice"
	// TypeForm - questionnaire changed
	TypeForm = "form"
	// TypeProcessed - late processing result of a submitted donation
	TypeProcessed = "donation_processed"
)

// Event is pushed to the page
type Event struct {
	Type       string `json:"type"`
	Step       string `json:"step,omitempty"`
	Task       int    `json:"task,omitempty"`
	Elapsed    int    `json:"elapsed,omitempty"`
	Message    string `json:"message,omitempty"`
	DonationID string `json:"donationId,omitempty"`
	Status     string `json:"status,omitempty"`
	Valid      *bool  `json:"valid,omitempty"`
}
