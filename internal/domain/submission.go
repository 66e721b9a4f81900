package domain

import "time"

// Summary document filenames and content type.
const (
	FullSummaryFilename  = "insurance_summary.pdf"
	QuickSummaryFilename = "health_insurance_summary.pdf"
	ContentTypePDF       = "application/pdf"
)

// SummaryFilename returns the download name for a flow's summary document.
func SummaryFilename(f Flow) string {
	if f == FlowQuick {
		return QuickSummaryFilename
	}
	return FullSummaryFilename
}

// Document is a rendered summary ready for download.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Submission is the outcome of a persisted application.
type Submission struct {
	ID          string      `json:"id"`
	Flow        Flow        `json:"flow"`
	SubmittedAt time.Time   `json:"submitted_at"`
	Record      Record      `json:"record"`
	FullQuote   *FullQuote  `json:"full_quote,omitempty"`
	QuickQuote  *QuickQuote `json:"quick_quote,omitempty"`
	Document    Document    `json:"-"`
}

// SubmissionEvent is published after a record has been persisted.
type SubmissionEvent struct {
	ID          string    `json:"id"`
	Flow        Flow      `json:"flow"`
	SubmittedAt time.Time `json:"submitted_at"`
	Record      Record    `json:"record"`
}

// Event returns the event describing the submission.
func (s Submission) Event() SubmissionEvent {
	return SubmissionEvent{ID: s.ID, Flow: s.Flow, SubmittedAt: s.SubmittedAt, Record: s.Record}
}
