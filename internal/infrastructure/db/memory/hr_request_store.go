package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/protorh/protorh-api/internal/core/domain"
	"github.com/protorh/protorh-api/internal/core/ports"
)

// HRRequestStore implements ports.HRRequestStore in memory. A single mutex
// serialises every read-append-write so concurrent edits are never lost.
type HRRequestStore struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.HRRequest
}

var _ ports.HRRequestStore = (*HRRequestStore)(nil)

func NewHRRequestStore() *HRRequestStore {
	return &HRRequestStore{byID: make(map[int64]*domain.HRRequest)}
}

func (s *HRRequestStore) Create(_ context.Context, ownerID int64, content string, today time.Time) (*domain.HRRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	req := domain.NewHRRequest(ownerID, content, today)
	req.ID = s.nextID
	s.byID[req.ID] = req
	return cloneRequest(req), nil
}

func (s *HRRequestStore) AppendEdit(_ context.Context, id int64, content string, author domain.AuthorID, today time.Time) (*domain.HRRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrHRRequestNotFound
	}
	next := cloneRequest(req)
	if err := next.ApplyEdit(content, author, today); err != nil {
		return nil, err
	}
	s.byID[id] = next
	return cloneRequest(next), nil
}

func (s *HRRequestStore) SoftClose(_ context.Context, id int64, today time.Time) (*domain.HRRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrHRRequestNotFound
	}
	req.Close(today)
	return cloneRequest(req), nil
}

func (s *HRRequestStore) Get(_ context.Context, id int64) (*domain.HRRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrHRRequestNotFound
	}
	return cloneRequest(req), nil
}

func (s *HRRequestStore) List(_ context.Context) ([]domain.HRRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.HRRequest, 0, len(s.byID))
	for _, req := range s.byID {
		out = append(out, *cloneRequest(req))
	}
	slices.SortFunc(out, func(a, b domain.HRRequest) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out, nil
}

func cloneRequest(in *domain.HRRequest) *domain.HRRequest {
	out := *in
	out.History = slices.Clone(in.History)
	if in.DeletedAt != nil {
		d := *in.DeletedAt
		out.DeletedAt = &d
	}
	return &out
}
