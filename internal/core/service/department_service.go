package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/protorh/protorh-api/internal/core/domain"
	"github.com/protorh/protorh-api/internal/core/policy"
	"github.com/protorh/protorh-api/internal/core/ports"
)

// DepartmentService implements department creation and membership.
type DepartmentService struct {
	repo   ports.DepartmentRepository
	policy *policy.Engine
	log    zerolog.Logger
}

func NewDepartmentService(repo ports.DepartmentRepository, engine *policy.Engine, log zerolog.Logger) *DepartmentService {
	return &DepartmentService{repo: repo, policy: engine, log: log}
}

func (s *DepartmentService) Create(ctx context.Context, actor domain.SessionClaims, name string) (*domain.Department, error) {
	if err := s.authorize(actor, domain.ActionManageDepartment); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "Department name is required"}
	}

	dept, err := s.repo.Create(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("create department: %w", err)
	}
	s.log.Info().Int64("department_id", dept.ID).Msg("department created")
	return dept, nil
}

// AddMembers returns the identities that were newly linked.
func (s *DepartmentService) AddMembers(ctx context.Context, actor domain.SessionClaims, departmentID int64, userIDs []int64) ([]domain.MemberSummary, error) {
	if err := s.authorize(actor, domain.ActionManageDepartment); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, departmentID); err != nil {
		return nil, fmt.Errorf("add members: %w", err)
	}

	added, err := s.repo.AddMembers(ctx, departmentID, userIDs)
	if err != nil {
		return nil, fmt.Errorf("add members: %w", err)
	}
	s.log.Info().Int64("department_id", departmentID).Int("added", len(added)).Msg("department members added")
	return added, nil
}

// RemoveMembers returns the identities that were actually unlinked.
func (s *DepartmentService) RemoveMembers(ctx context.Context, actor domain.SessionClaims, departmentID int64, userIDs []int64) ([]domain.MemberSummary, error) {
	if err := s.authorize(actor, domain.ActionManageDepartment); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, departmentID); err != nil {
		return nil, fmt.Errorf("remove members: %w", err)
	}

	removed, err := s.repo.RemoveMembers(ctx, departmentID, userIDs)
	if err != nil {
		return nil, fmt.Errorf("remove members: %w", err)
	}
	s.log.Info().Int64("department_id", departmentID).Int("removed", len(removed)).Msg("department members removed")
	return removed, nil
}

// ListMembers returns every member masked by the profile read rule.
func (s *DepartmentService) ListMembers(ctx context.Context, actor domain.SessionClaims, departmentID int64) ([]ports.ProfileView, error) {
	if err := s.authorize(actor, domain.ActionReadDepartment); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, departmentID); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	members, err := s.repo.Members(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	views := make([]ports.ProfileView, 0, len(members))
	for i := range members {
		d := s.policy.Decide(actor, domain.ActionReadProfile, policy.Resource{TargetID: members[i].ID})
		if !d.Allowed {
			continue
		}
		views = append(views, ports.ProfileView{Identity: &members[i], Fields: d.Fields})
	}
	return views, nil
}

func (s *DepartmentService) authorize(actor domain.SessionClaims, action domain.Action) error {
	return s.policy.Decide(actor, action, policy.Resource{}).Err(action)
}
