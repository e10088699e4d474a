package domain

import "time"

// AuditKind names the mutation an AuditEvent describes.
type AuditKind string

const (
	AuditHRRequestCreated AuditKind = "hr_request.created"
	AuditHRRequestEdited  AuditKind = "hr_request.edited"
	AuditHRRequestClosed  AuditKind = "hr_request.closed"
)

// AuditEvent is the out-of-band copy of an HR request mutation shipped to
// the audit sinks after the store has committed it.
type AuditEvent struct {
	EventID    string    `json:"event_id"`
	Kind       AuditKind `json:"kind"`
	RequestID  int64     `json:"request_id"`
	ActorID    int64     `json:"actor_id"`
	ActorRole  Role      `json:"actor_role"`
	Author     AuthorID  `json:"author,omitempty"`
	HistoryLen int       `json:"history_len"`
	Content    string    `json:"content,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
