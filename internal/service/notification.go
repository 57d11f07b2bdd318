package service

import (
	"context"
	"fmt"
	"math"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/logger"
	"travel-marketplace-backend/internal/repository"
)

const (
	DefaultNotificationPageSize int32 = 20
	MaxNotificationPageSize     int32 = 100
)

type notificationService struct {
	noteRepo     repository.NotificationRepository
	customerRepo repository.CustomerRepository
	guideRepo    repository.GuideRepository
	agencyRepo   repository.AgencyRepository
	emailSvc     EmailService
}

// NewNotificationService wires in-app notifications. emailSvc may be nil.
func NewNotificationService(
	noteRepo repository.NotificationRepository,
	customerRepo repository.CustomerRepository,
	guideRepo repository.GuideRepository,
	agencyRepo repository.AgencyRepository,
	emailSvc EmailService,
) NotificationService {
	return &notificationService{
		noteRepo:     noteRepo,
		customerRepo: customerRepo,
		guideRepo:    guideRepo,
		agencyRepo:   agencyRepo,
		emailSvc:     emailSvc,
	}
}

func (s *notificationService) Notify(ctx context.Context, recipient domain.Actor, title, message string, attrs map[string]string) {
	note := &domain.Notification{
		UserID:     recipient.ID,
		Title:      title,
		Message:    message,
		Attributes: attrs,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Failed to store notification", "userID", recipient.ID, "title", title, "error", err)
	}

	if s.emailSvc == nil {
		return
	}
	email, name := s.contact(ctx, recipient)
	if email == "" {
		return
	}
	if err := s.emailSvc.SendDecisionNotification(ctx, email, name, title, message); err != nil {
		logger.Warn("Failed to send notification email", "userID", recipient.ID, "error", err)
	}
}

func (s *notificationService) contact(ctx context.Context, a domain.Actor) (email, name string) {
	switch a.Role {
	case domain.RoleCustomer:
		if c, err := s.customerRepo.GetByID(ctx, a.ID); err == nil {
			return c.Email, c.Name
		}
	case domain.RoleGuide:
		if g, err := s.guideRepo.GetByID(ctx, a.ID); err == nil {
			return g.Email, g.Name
		}
	case domain.RoleAgency:
		if ag, err := s.agencyRepo.GetByID(ctx, a.ID); err == nil {
			return ag.Email, ag.Name
		}
	}
	return "", ""
}

func (s *notificationService) GetNotifications(ctx context.Context, userID string, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultNotificationPageSize
	}
	if pageSize > MaxNotificationPageSize {
		pageSize = MaxNotificationPageSize
	}
	offset := int64(page-1) * int64(pageSize)
	if offset > math.MaxInt32 {
		return nil, 0, fmt.Errorf("%w: page %d is out of range", domain.ErrInvalidInput, page)
	}
	return s.noteRepo.List(ctx, userID, pageSize, int32(offset))
}
