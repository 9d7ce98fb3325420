package projects

import (
	"context"
	"fmt"
	"strings"

	"github.com/meridian-erp/meridian-erp/internal/masterdata/shared"
	internalShared "github.com/meridian-erp/meridian-erp/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Project, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Project, error) {
	if id <= 0 {
		return Project{}, fmt.Errorf("%w: invalid project id", internalShared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, project Project) (Project, error) {
	if err := s.validate(&project); err != nil {
		return Project{}, err
	}
	return s.repo.Create(ctx, project)
}

func (s *Service) Update(ctx context.Context, id int64, project Project) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid project id", internalShared.ErrValidation)
	}
	if err := s.validate(&project); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, project)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid project id", internalShared.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(p *Project) error {
	if strings.TrimSpace(p.Code) == "" {
		return fmt.Errorf("%w: project code is required", internalShared.ErrValidation)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: project name is required", internalShared.ErrValidation)
	}
	if p.Status == "" {
		p.Status = StatusPlanned
	}
	switch p.Status {
	case StatusPlanned, StatusActive, StatusCompleted, StatusOnHold:
	default:
		return fmt.Errorf("%w: unknown project status %q", internalShared.ErrValidation, p.Status)
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return fmt.Errorf("%w: project end date precedes start date", internalShared.ErrValidation)
	}
	return nil
}
