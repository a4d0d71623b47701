package report

import (
	"encoding/json"
	"fmt"
)

// Status values used as the JSON discriminator.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Document is the JSON form of a Report.
type Document struct {
	Status           string          `json:"status"`
	Session          json.RawMessage `json:"session,omitempty"`
	FailedStep       *FailedStep     `json:"failed_step,omitempty"`
	SuccessSteps     []string        `json:"success_steps,omitempty"`
	NotExecutedSteps []string        `json:"not_executed_steps,omitempty"`
	Trace            []TraceEvent    `json:"trace"`
}

// ToDocument converts a report to its JSON document.
// The session of a Success is embedded as canonical JSON.
func ToDocument(r Report) (Document, error) {
	switch rep := r.(type) {
	case Success:
		canonical, err := rep.Session.Canonical()
		if err != nil {
			return Document{}, fmt.Errorf("encode session: %w", err)
		}
		return Document{
			Status:  StatusSuccess,
			Session: canonical,
			Trace:   nonNilTrace(rep.Trace),
		}, nil
	case Failure:
		failed := rep.FailedStep
		return Document{
			Status:           StatusFailure,
			FailedStep:       &failed,
			SuccessSteps:     rep.SuccessSteps,
			NotExecutedSteps: rep.NotExecutedSteps,
			Trace:            nonNilTrace(rep.Trace),
		}, nil
	default:
		return Document{}, fmt.Errorf("unknown report type %T", r)
	}
}

// Marshal encodes a report as JSON.
func Marshal(r Report) ([]byte, error) {
	doc, err := ToDocument(r)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// MarshalJSON implements json.Marshaler.
func (s Success) MarshalJSON() ([]byte, error) {
	return Marshal(s)
}

// MarshalJSON implements json.Marshaler.
func (f Failure) MarshalJSON() ([]byte, error) {
	return Marshal(f)
}

func nonNilTrace(t []TraceEvent) []TraceEvent {
	if t == nil {
		return []TraceEvent{}
	}
	return t
}
