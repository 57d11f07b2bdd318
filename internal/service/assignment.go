package service

import (
	"context"
	"fmt"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/logger"
	"travel-marketplace-backend/internal/repository"
)

type assignmentRegistry struct {
	tx          repository.TxManager
	packageRepo repository.PackageRepository
	guideRepo   repository.GuideRepository
	assignRepo  repository.AssignmentRepository
}

func NewAssignmentRegistry(
	tx repository.TxManager,
	packageRepo repository.PackageRepository,
	guideRepo repository.GuideRepository,
	assignRepo repository.AssignmentRepository,
) AssignmentRegistry {
	return &assignmentRegistry{
		tx:          tx,
		packageRepo: packageRepo,
		guideRepo:   guideRepo,
		assignRepo:  assignRepo,
	}
}

// Attach checks each side of the link on its own and fills in whichever is missing.
// It never assumes the two sides agree.
func (r *assignmentRegistry) Attach(ctx context.Context, packageID, guideID string) error {
	logger.EnterMethod("assignmentRegistry.Attach", "packageID", packageID, "guideID", guideID)

	pkg, err := r.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		logger.ExitMethodWithError("assignmentRegistry.Attach", err, "packageID", packageID)
		return err
	}
	guide, err := r.guideRepo.GetByID(ctx, guideID)
	if err != nil {
		logger.ExitMethodWithError("assignmentRegistry.Attach", err, "guideID", guideID)
		return err
	}

	var addedPackageSide, addedGuideSide bool
	if !pkg.HasGuide(guideID) {
		if addedPackageSide, err = r.assignRepo.AddPackageGuide(ctx, packageID, guideID); err != nil {
			return fmt.Errorf("add guide to package: %w", err)
		}
	}
	if !guide.HasPackage(packageID) {
		assigned := domain.AssignedPackage{
			PackageID:   pkg.ID,
			PackageName: pkg.Name,
			Price:       pkg.Price,
			Status:      domain.AssignmentStatusActive,
		}
		if addedGuideSide, err = r.assignRepo.AddAssignedPackage(ctx, guideID, assigned); err != nil {
			return fmt.Errorf("add package to guide: %w", err)
		}
	}

	logger.ExitMethod("assignmentRegistry.Attach", "packageSide", addedPackageSide, "guideSide", addedGuideSide)
	return nil
}

func (r *assignmentRegistry) Detach(ctx context.Context, packageID, guideID string) error {
	logger.EnterMethod("assignmentRegistry.Detach", "packageID", packageID, "guideID", guideID)

	removedPackageSide, err := r.assignRepo.RemovePackageGuide(ctx, packageID, guideID)
	if err != nil {
		return fmt.Errorf("remove guide from package: %w", err)
	}
	removedGuideSide, err := r.assignRepo.RemoveAssignedPackage(ctx, guideID, packageID)
	if err != nil {
		return fmt.Errorf("remove package from guide: %w", err)
	}

	logger.ExitMethod("assignmentRegistry.Detach", "packageSide", removedPackageSide, "guideSide", removedGuideSide)
	return nil
}

// canManagePackage reports whether actor may change the package's guide roster.
func canManagePackage(actor domain.Actor, pkg *domain.Package) bool {
	return actor.IsAdmin() || actor.Is(domain.RoleAgency, pkg.AgencyID)
}

func (r *assignmentRegistry) AssignGuides(ctx context.Context, actor domain.Actor, packageID string, guideIDs []string) (*domain.Package, error) {
	pkg, err := r.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if !canManagePackage(actor, pkg) {
		return nil, domain.ErrForbidden
	}
	if len(guideIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one guide is required", domain.ErrInvalidInput)
	}

	err = r.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, guideID := range guideIDs {
			if err := r.Attach(ctx, packageID, guideID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.packageRepo.GetByID(ctx, packageID)
}

func (r *assignmentRegistry) UnassignGuide(ctx context.Context, actor domain.Actor, packageID, guideID string) error {
	pkg, err := r.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		return err
	}
	if !canManagePackage(actor, pkg) {
		return domain.ErrForbidden
	}
	return r.tx.WithinTx(ctx, func(ctx context.Context) error {
		return r.Detach(ctx, packageID, guideID)
	})
}
