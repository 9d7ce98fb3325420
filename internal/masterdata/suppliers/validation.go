package suppliers

import (
	"fmt"
	"strings"

	internalShared "github.com/meridian-erp/meridian-erp/internal/shared"
)

func (s *Service) validate(sup *Supplier) error {
	if strings.TrimSpace(sup.Code) == "" {
		return fmt.Errorf("%w: supplier code is required", internalShared.ErrValidation)
	}
	if strings.TrimSpace(sup.Name) == "" {
		return fmt.Errorf("%w: supplier name is required", internalShared.ErrValidation)
	}
	if sup.Status == "" {
		sup.Status = StatusActive
	}
	if sup.Status != StatusActive && sup.Status != StatusInactive {
		return fmt.Errorf("%w: unknown supplier status %q", internalShared.ErrValidation, sup.Status)
	}
	return nil
}
