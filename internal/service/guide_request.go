package service

import (
	"context"
	"errors"
	"fmt"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/logger"
	"travel-marketplace-backend/internal/repository"
)

type guideRequestService struct {
	guideRequestRepo repository.GuideRequestRepository
	packageRepo      repository.PackageRepository
	guideRepo        repository.GuideRepository
	agencyRepo       repository.AgencyRepository
	guard            DuplicateGuard
	registry         AssignmentRegistry
	notifier         NotificationService
}

func NewGuideRequestService(
	guideRequestRepo repository.GuideRequestRepository,
	packageRepo repository.PackageRepository,
	guideRepo repository.GuideRepository,
	agencyRepo repository.AgencyRepository,
	guard DuplicateGuard,
	registry AssignmentRegistry,
	notifier NotificationService,
) GuideRequestService {
	return &guideRequestService{
		guideRequestRepo: guideRequestRepo,
		packageRepo:      packageRepo,
		guideRepo:        guideRepo,
		agencyRepo:       agencyRepo,
		guard:            guard,
		registry:         registry,
		notifier:         notifier,
	}
}

func (s *guideRequestService) CreateGuideRequest(ctx context.Context, actor domain.Actor, in *domain.GuideRequest) (*domain.GuideRequest, error) {
	logger.EnterMethod("guideRequestService.CreateGuideRequest", "actor", actor.ID, "role", actor.Role, "type", in.Type)

	switch actor.Role {
	case domain.RoleGuide:
		in.Initiator = domain.InitiatorGuide
		in.GuideID = actor.ID
	case domain.RoleAgency:
		in.Initiator = domain.InitiatorAgency
		if in.GuideID == "" {
			return nil, fmt.Errorf("%w: guide_id is required", domain.ErrInvalidInput)
		}
	default:
		return nil, domain.ErrForbidden
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: guide request type %q", domain.ErrInvalidInput, in.Type)
	}

	switch in.Type {
	case domain.GuideRequestTypePackageAssignment:
		if in.PackageID == nil || *in.PackageID == "" {
			return nil, fmt.Errorf("%w: package_id is required for a package assignment", domain.ErrInvalidInput)
		}
		pkg, err := s.packageRepo.GetByID(ctx, *in.PackageID)
		if err != nil {
			return nil, err
		}
		in.AgencyID = pkg.AgencyID
		in.PackageName = pkg.Name
	case domain.GuideRequestTypeGeneralCollaboration:
		in.PackageID = nil
		in.PackageName = ""
	}
	if actor.Role == domain.RoleAgency {
		if in.AgencyID != "" && in.AgencyID != actor.ID {
			return nil, domain.ErrForbidden
		}
		in.AgencyID = actor.ID
	}
	if in.AgencyID == "" {
		return nil, fmt.Errorf("%w: agency_id is required", domain.ErrInvalidInput)
	}

	guide, err := s.guideRepo.GetByID(ctx, in.GuideID)
	if err != nil {
		return nil, err
	}
	agency, err := s.agencyRepo.GetByID(ctx, in.AgencyID)
	if err != nil {
		return nil, err
	}
	in.GuideName = guide.Name
	in.AgencyName = agency.Name
	in.Status = domain.RequestStatusPending

	if err := s.guard.Check(ctx, in.PendingKey()); err != nil {
		logger.ExitMethodWithError("guideRequestService.CreateGuideRequest", err, "guideID", in.GuideID)
		return nil, err
	}
	if err := s.guideRequestRepo.Create(ctx, in); err != nil {
		logger.ExitMethodWithError("guideRequestService.CreateGuideRequest", err, "guideID", in.GuideID)
		return nil, err
	}

	s.notifier.Notify(ctx, in.CounterParty(),
		"New Collaboration Request",
		fmt.Sprintf("You have a new %s request", in.Type),
		map[string]string{"type": "GUIDE_REQUEST_CREATED", "guide_request_id": in.ID})

	logger.ExitMethod("guideRequestService.CreateGuideRequest", "guideRequestID", in.ID)
	return in, nil
}

func (s *guideRequestService) ListGuideRequests(ctx context.Context, actor domain.Actor) ([]domain.GuideRequest, error) {
	switch actor.Role {
	case domain.RoleGuide:
		return s.guideRequestRepo.ListByGuide(ctx, actor.ID)
	case domain.RoleAgency:
		return s.guideRequestRepo.ListByAgency(ctx, actor.ID)
	default:
		return nil, domain.ErrForbidden
	}
}

// Transition decides a guide request. Only the counter-party of the initiator or an admin may do so.
func (s *guideRequestService) Transition(ctx context.Context, actor domain.Actor, id string, status domain.RequestStatus) (*domain.GuideRequestDecision, error) {
	logger.EnterMethod("guideRequestService.Transition", "actor", actor.ID, "guideRequestID", id, "status", status)

	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	gr, err := s.guideRequestRepo.GetByID(ctx, id)
	if err != nil {
		logger.ExitMethodWithError("guideRequestService.Transition", err, "guideRequestID", id)
		return nil, err
	}
	if !actor.IsAdmin() && actor != gr.CounterParty() {
		return nil, domain.ErrForbidden
	}
	if gr.Status == status {
		return &domain.GuideRequestDecision{Request: gr}, nil
	}
	if !gr.Status.CanTransition(status) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, gr.Status, status)
	}

	won, err := s.guideRequestRepo.TransitionStatus(ctx, id, gr.Status, status)
	if err != nil {
		return nil, err
	}
	if !won {
		current, err := s.guideRequestRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.Status == status {
			return &domain.GuideRequestDecision{Request: current}, nil
		}
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, status)
	}
	gr.Status = status

	decision := &domain.GuideRequestDecision{Request: gr}
	if status == domain.RequestStatusApproved {
		if err := s.applyApproval(ctx, gr); err != nil {
			logger.Error("Guide request approval side effect failed, left for reconciliation",
				"guideRequestID", id, "type", gr.Type, "error", err)
			decision.SyncPending = true
		}
	}

	s.notifier.Notify(ctx, gr.Requester(),
		fmt.Sprintf("Collaboration request %s", status),
		fmt.Sprintf("Your %s request was %s", gr.Type, status),
		map[string]string{"type": "GUIDE_REQUEST_DECIDED", "guide_request_id": gr.ID, "status": string(status)})

	logger.ExitMethod("guideRequestService.Transition", "guideRequestID", id, "syncPending", decision.SyncPending)
	return decision, nil
}

func (s *guideRequestService) applyApproval(ctx context.Context, gr *domain.GuideRequest) error {
	switch gr.Type {
	case domain.GuideRequestTypePackageAssignment:
		if gr.PackageID == nil {
			return fmt.Errorf("%w: package assignment without package", domain.ErrInvalidInput)
		}
		return s.registry.Attach(ctx, *gr.PackageID, gr.GuideID)
	case domain.GuideRequestTypeGeneralCollaboration:
		_, err := s.agencyRepo.AddGuide(ctx, gr.AgencyID, gr.GuideID)
		return err
	}
	return nil
}

// DeleteGuideRequest withdraws a request. Only the requester may do it, and only while pending.
func (s *guideRequestService) DeleteGuideRequest(ctx context.Context, actor domain.Actor, id string) error {
	gr, err := s.guideRequestRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if actor != gr.Requester() {
		return domain.ErrForbidden
	}
	deleted, err := s.guideRequestRepo.DeletePending(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		if _, err := s.guideRequestRepo.GetByID(ctx, id); errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: only pending requests can be withdrawn", domain.ErrInvalidTransition)
	}
	logger.Info("Guide request withdrawn", "guideRequestID", id, "actor", actor.ID)
	return nil
}
