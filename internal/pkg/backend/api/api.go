package api

import "io"

const (
	// PrmAudio multipart audio file field
	PrmAudio = "audio"
	// PrmQuestionnaire multipart questionnaire json field
	PrmQuestionnaire = "questionnaire"
)

// UploadData is one submission to the backend
type UploadData struct {
	FileName      string
	MimeType      string
	Audio         io.Reader
	Questionnaire string
}

// SubmitResponse is a response of POST /voice-donation
type SubmitResponse struct {
	Success     bool   `json:"success"`
	RecordingID string `json:"recording_id,omitempty"`
	DonationID  string `json:"donation_id,omitempty"`
	Status      string `json:"status,omitempty"`
	Message     string `json:"message,omitempty"`
	Error       string `json:"error,omitempty"`
}

// RecordingStatus is a status of one recording of a donation
type RecordingStatus struct {
	RecordingID  string `json:"recording_id,omitempty"`
	TaskNumber   int    `json:"task_number,omitempty"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// StatusData is a response of GET /donation-status/{id}.
// Backend returns either Status or DonationStatus with Recordings
type StatusData struct {
	Status         string            `json:"status,omitempty"`
	ErrorMessage   string            `json:"error_message,omitempty"`
	DonationID     string            `json:"donation_id,omitempty"`
	DonationStatus string            `json:"donation_status,omitempty"`
	Recordings     []RecordingStatus `json:"recordings,omitempty"`
	CompletedCount int               `json:"completed_count,omitempty"`
	TotalCount     int               `json:"total_count,omitempty"`
}
