package ports

import (
	"context"
	"time"

	"github.com/protorh/protorh-api/internal/core/domain"
)

// HRRequestStore owns the lifecycle of HR requests and their append-only
// history. Implementations must serialise AppendEdit per record so that
// concurrent edits are never lost.
type HRRequestStore interface {
	Create(ctx context.Context, ownerID int64, content string, today time.Time) (*domain.HRRequest, error)
	// AppendEdit appends a history entry and replaces the content in a single
	// atomic step. It returns domain.ErrHRRequestNotFound for unknown ids and
	// domain.ErrHRRequestClosed for closed requests.
	AppendEdit(ctx context.Context, id int64, content string, author domain.AuthorID, today time.Time) (*domain.HRRequest, error)
	// SoftClose hides and closes the request without touching content or
	// history. Closing an already closed request is not an error.
	SoftClose(ctx context.Context, id int64, today time.Time) (*domain.HRRequest, error)
	Get(ctx context.Context, id int64) (*domain.HRRequest, error)
	// List returns every request ordered by id.
	List(ctx context.Context) ([]domain.HRRequest, error)
}

// AuditPublisher hands committed HR request mutations to the asynchronous
// audit pipeline. Publish must not block the caller on sink I/O.
type AuditPublisher interface {
	Publish(event domain.AuditEvent)
}

// AuditSink is a single destination for audit events (document store,
// message broker, log).
type AuditSink interface {
	Name() string
	Write(ctx context.Context, event domain.AuditEvent) error
}
