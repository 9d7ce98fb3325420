package fabrication

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// ErrInvalidState signals a disallowed job status transition.
var ErrInvalidState = fmt.Errorf("fabrication: %w", shared.ErrConflict)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Job, int, error) {
	return s.repo.List(ctx, filters)
}

// Recent returns the newest jobs for dashboard display.
func (s *Service) Recent(ctx context.Context, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.repo.Recent(ctx, limit)
}

func (s *Service) Get(ctx context.Context, id int64) (Job, error) {
	if id <= 0 {
		return Job{}, fmt.Errorf("%w: invalid job id", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, job Job) (Job, error) {
	if job.ProjectID <= 0 {
		return Job{}, fmt.Errorf("%w: project is required", shared.ErrValidation)
	}
	if strings.TrimSpace(job.Description) == "" {
		return Job{}, fmt.Errorf("%w: description is required", shared.ErrValidation)
	}
	if job.JobNumber == "" {
		job.JobNumber = generateNumber("FAB")
	}
	job.Status = StatusPending
	return s.repo.Create(ctx, job)
}

// Transition moves a job to the requested status. Pending jobs may start or be
// cancelled, in-progress jobs may complete or be cancelled. Completed and
// cancelled jobs are terminal.
func (s *Service) Transition(ctx context.Context, id int64, target JobStatus) error {
	if !validStatus(target) {
		return fmt.Errorf("%w: unknown job status %q", shared.ErrValidation, target)
	}
	job, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !allowedTransition(job.Status, target) {
		return fmt.Errorf("%w: cannot move job from %s to %s", ErrInvalidState, job.Status, target)
	}
	return s.repo.UpdateStatus(ctx, id, target)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	job, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if job.Status != StatusPending {
		return fmt.Errorf("%w: only pending jobs can be deleted", ErrInvalidState)
	}
	return s.repo.Delete(ctx, id)
}

func allowedTransition(from, to JobStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusInProgress || to == StatusCancelled
	case StatusInProgress:
		return to == StatusCompleted || to == StatusCancelled
	}
	return false
}

func generateNumber(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
