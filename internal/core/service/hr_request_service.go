package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/protorh/protorh-api/internal/core/domain"
	"github.com/protorh/protorh-api/internal/core/policy"
	"github.com/protorh/protorh-api/internal/core/ports"
)

var _ ports.HRRequestService = (*HRRequestService)(nil)

// HRRequestService runs the HR request lifecycle: policy check, store
// mutation, then an audit event.
type HRRequestService struct {
	store  ports.HRRequestStore
	audit  ports.AuditPublisher
	policy *policy.Engine
	log    zerolog.Logger
	now    func() time.Time
}

// NewHRRequestService wires an HRRequestService. audit may
// be nil, in which case no audit events are emitted.
func NewHRRequestService(
	store ports.HRRequestStore,
	audit ports.AuditPublisher,
	engine *policy.Engine,
	log zerolog.Logger,
) *HRRequestService {
	return &HRRequestService{
		store:  store,
		audit:  audit,
		policy: engine,
		log:    log,
		now:    time.Now,
	}
}

// Create opens a request for in.OwnerID. Only managers and admins may do so.
func (s *HRRequestService) Create(ctx context.Context, actor domain.SessionClaims, in ports.CreateHRRequestInput) (*domain.HRRequest, error) {
	if err := s.policy.Decide(actor, domain.ActionCreateHRRequest, policy.Resource{OwnerID: in.OwnerID}).Err(domain.ActionCreateHRRequest); err != nil {
		return nil, err
	}
	if err := validateContent(in.Content); err != nil {
		return nil, err
	}
	ownerID := in.OwnerID
	if ownerID == 0 {
		ownerID = actor.SubjectID
	}

	req, err := s.store.Create(ctx, ownerID, in.Content, domain.Today(s.now()))
	if err != nil {
		return nil, fmt.Errorf("create hr request: %w", err)
	}

	s.publish(actor, domain.AuditHRRequestCreated, req, req.History[0].Author)
	s.log.Info().Int64("request_id", req.ID).Int64("owner_id", req.OwnerID).Msg("hr request created")
	return req, nil
}

// Update appends an edit. The history entry is attributed to the request id,
// which is how edits have always been recorded.
func (s *HRRequestService) Update(ctx context.Context, actor domain.SessionClaims, id int64, content string) (*domain.HRRequest, error) {
	if err := s.policy.Decide(actor, domain.ActionEditHRRequest, policy.Resource{}).Err(domain.ActionEditHRRequest); err != nil {
		return nil, err
	}
	if err := validateContent(content); err != nil {
		return nil, err
	}

	author := domain.AuthorID(id)
	req, err := s.store.AppendEdit(ctx, id, content, author, domain.Today(s.now()))
	if err != nil {
		return nil, fmt.Errorf("update hr request: %w", err)
	}

	s.publish(actor, domain.AuditHRRequestEdited, req, author)
	s.log.Info().
		Int64("request_id", req.ID).
		Int64("actor_id", actor.SubjectID).
		Int("history_len", len(req.History)).
		Msg("hr request edited")
	return req, nil
}

// Close soft-deletes a request. Closing twice is not an error.
func (s *HRRequestService) Close(ctx context.Context, actor domain.SessionClaims, id int64) (*domain.HRRequest, error) {
	if err := s.policy.Decide(actor, domain.ActionCloseHRRequest, policy.Resource{}).Err(domain.ActionCloseHRRequest); err != nil {
		return nil, err
	}

	req, err := s.store.SoftClose(ctx, id, domain.Today(s.now()))
	if err != nil {
		return nil, fmt.Errorf("close hr request: %w", err)
	}

	s.publish(actor, domain.AuditHRRequestClosed, req, 0)
	s.log.Info().Int64("request_id", req.ID).Int64("actor_id", actor.SubjectID).Msg("hr request closed")
	return req, nil
}

// List returns the requests actor is allowed to read.
func (s *HRRequestService) List(ctx context.Context, actor domain.SessionClaims) ([]domain.HRRequest, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list hr requests: %w", err)
	}

	visible := make([]domain.HRRequest, 0, len(all))
	for _, req := range all {
		d := s.policy.Decide(actor, domain.ActionReadHRRequest, policy.Resource{OwnerID: req.OwnerID, Closed: req.Closed})
		if d.Allowed {
			visible = append(visible, req)
		}
	}
	return visible, nil
}

func (s *HRRequestService) publish(actor domain.SessionClaims, kind domain.AuditKind, req *domain.HRRequest, author domain.AuthorID) {
	if s.audit == nil {
		return
	}
	s.audit.Publish(domain.AuditEvent{
		EventID:    uuid.NewString(),
		Kind:       kind,
		RequestID:  req.ID,
		ActorID:    actor.SubjectID,
		ActorRole:  actor.Role,
		Author:     author,
		HistoryLen: len(req.History),
		Content:    req.Content,
		OccurredAt: s.now().UTC(),
	})
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return &domain.ValidationError{Field: "content", Reason: "Content is required"}
	}
	return nil
}
