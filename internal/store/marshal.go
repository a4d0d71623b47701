package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/brine/internal/report"
	"github.com/roach88/brine/internal/runner"
)

// Run statuses stored in runs.status.
const (
	StatusSuccess = report.StatusSuccess
	StatusFailure = report.StatusFailure
)

// RunRecord is one row of run history.
type RunRecord struct {
	ID             string          `json:"id"`
	Scenario       string          `json:"scenario"`
	Status         string          `json:"status"`
	StartedAt      time.Time       `json:"started_at"`
	Duration       time.Duration   `json:"duration_ns"`
	FailedStep     string          `json:"failed_step,omitempty"`
	InitialSession json.RawMessage `json:"initial_session"`
	SessionDigest  string          `json:"session_digest"`
	Report         json.RawMessage `json:"report"`
}

// Passed reports whether the run succeeded.
func (r RunRecord) Passed() bool {
	return r.Status == StatusSuccess
}

// NewRunRecord converts a pool result into a history row. The initial
// session is stored as canonical JSON so identical inputs hash identically.
func NewRunRecord(res runner.Result) (RunRecord, error) {
	initial, err := res.Initial.Canonical()
	if err != nil {
		return RunRecord{}, fmt.Errorf("marshal initial session: %w", err)
	}
	digest, err := res.Initial.Digest()
	if err != nil {
		return RunRecord{}, fmt.Errorf("digest initial session: %w", err)
	}
	doc, err := report.Marshal(res.Report)
	if err != nil {
		return RunRecord{}, fmt.Errorf("marshal report: %w", err)
	}

	rec := RunRecord{
		ID:             res.ID,
		Scenario:       res.Scenario,
		Status:         StatusSuccess,
		StartedAt:      res.Started.UTC(),
		Duration:       res.Duration,
		InitialSession: initial,
		SessionDigest:  digest,
		Report:         doc,
	}
	if f, ok := res.Report.(report.Failure); ok {
		rec.Status = StatusFailure
		rec.FailedStep = f.FailedStep.Title
	}
	return rec, nil
}

// Document decodes the stored report.
func (r RunRecord) Document() (report.Document, error) {
	var doc report.Document
	if err := json.Unmarshal(r.Report, &doc); err != nil {
		return report.Document{}, fmt.Errorf("unmarshal report: %w", err)
	}
	return doc, nil
}
