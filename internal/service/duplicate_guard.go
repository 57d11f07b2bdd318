package service

import (
	"context"
	"errors"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/logger"
	"travel-marketplace-backend/internal/repository"
)

type duplicateGuard struct {
	guideRequestRepo repository.GuideRequestRepository
}

// NewDuplicateGuard returns the pre-check half of the guard. The other half is the
// storage constraint, which the repository reports as domain.ErrDuplicateRequest too.
func NewDuplicateGuard(guideRequestRepo repository.GuideRequestRepository) DuplicateGuard {
	return &duplicateGuard{guideRequestRepo: guideRequestRepo}
}

func (g *duplicateGuard) Check(ctx context.Context, key domain.PendingKey) error {
	existing, err := g.guideRequestRepo.FindPending(ctx, key)
	switch {
	case err == nil:
		logger.Info("Duplicate guide request rejected", "type", key.Type, "guideID", key.GuideID, "target", key.Target, "existingID", existing.ID)
		return domain.ErrDuplicateRequest
	case errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return err
	}
}
