// Package audit captures an append-only trail of the actions that change
// competition state: results recorded or deleted, certificates issued.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID      `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Actor     string         `json:"actor,omitempty"`
	Action    string         `json:"action"`
	Subject   string         `json:"subject,omitempty"`
	Detail    map[string]any `json:"detail,omitempty"`
}

// Actions emitted by the core modules.
const (
	ActionResultRecorded    = "result.recorded"
	ActionResultDeleted     = "result.deleted"
	ActionCertificateIssued = "certificate.issued"
)
