package domain

import "time"

// AuthorID identifies who a history entry is attributed to. It is kept
// distinct from request and identity ids so the attribution source is
// always explicit at the call site.
type AuthorID int64

// HistoryEntry is one immutable step of an HR request's content history.
type HistoryEntry struct {
	Author  AuthorID  `json:"author"`
	Content string    `json:"content"`
	At      time.Time `json:"date"`
}

// HRRequest is a mutable HR message whose every content change is kept in
// an append-only history. History[0] is always the creation entry.
type HRRequest struct {
	ID           int64          `json:"id"`
	OwnerID      int64          `json:"user_id"`
	Content      string         `json:"content"`
	Visibility   bool           `json:"visibility"`
	Closed       bool           `json:"close"`
	CreatedAt    time.Time      `json:"registration_date"`
	LastActionAt time.Time      `json:"last_action"`
	History      []HistoryEntry `json:"content_history"`
	DeletedAt    *time.Time     `json:"delete_date,omitempty"`
}

// NewHRRequest builds an open, visible request whose history holds the
// creation entry authored by the owner.
func NewHRRequest(ownerID int64, content string, today time.Time) *HRRequest {
	return &HRRequest{
		OwnerID:      ownerID,
		Content:      content,
		Visibility:   true,
		Closed:       false,
		CreatedAt:    today,
		LastActionAt: today,
		History: []HistoryEntry{
			{Author: AuthorID(ownerID), Content: content, At: today},
		},
	}
}

// ApplyEdit appends a history entry and replaces the current content.
// Closed requests reject content changes.
func (r *HRRequest) ApplyEdit(content string, author AuthorID, today time.Time) error {
	if r.Closed {
		return ErrHRRequestClosed
	}
	r.History = append(r.History, HistoryEntry{Author: author, Content: content, At: today})
	r.Content = content
	r.LastActionAt = today
	return nil
}

// Close marks the request invisible and closed. The deletion date is only
// set the first time, so closing again changes nothing but LastActionAt.
func (r *HRRequest) Close(today time.Time) {
	r.Visibility = false
	r.Closed = true
	r.LastActionAt = today
	if r.DeletedAt == nil {
		d := today
		r.DeletedAt = &d
	}
}

// Department groups identities through a plain membership relation.
type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
