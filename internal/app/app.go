// Package app wires storage, services and jobs from a loaded configuration.
// Both the API server and the cron runner build their object graph here.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	httpapi "travel-marketplace-backend/internal/api/http"
	"travel-marketplace-backend/internal/config"
	"travel-marketplace-backend/internal/jobs"
	"travel-marketplace-backend/internal/logger"
	"travel-marketplace-backend/internal/repository"
	"travel-marketplace-backend/internal/repository/memory"
	"travel-marketplace-backend/internal/repository/postgres"
	"travel-marketplace-backend/internal/service"
)

// Repositories is the storage view shared by the postgres and memory drivers.
type Repositories struct {
	Tx            repository.TxManager
	Customers     repository.CustomerRepository
	Agencies      repository.AgencyRepository
	Packages      repository.PackageRepository
	Guides        repository.GuideRepository
	Assignments   repository.AssignmentRepository
	Requests      repository.RequestRepository
	GuideRequests repository.GuideRequestRepository
	Bookings      repository.BookingRepository
	Ledger        repository.LedgerRepository
	Notifications repository.NotificationRepository
}

// OpenRepositories connects the configured storage driver. The returned close
// function releases the database handle and is safe to call for the memory driver.
func OpenRepositories(cfg *config.Config) (*Repositories, func() error, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		st := memory.NewStore()
		if cfg.Database.SeedFile != "" {
			if err := LoadSeed(st, cfg.Database.SeedFile); err != nil {
				return nil, nil, err
			}
		}
		logger.Info("Using in-memory store", "seed_file", cfg.Database.SeedFile)
		return &Repositories{
			Tx:            st.TxManager,
			Customers:     st.CustomerRepository,
			Agencies:      st.AgencyRepository,
			Packages:      st.PackageRepository,
			Guides:        st.GuideRepository,
			Assignments:   st.AssignmentRepository,
			Requests:      st.RequestRepository,
			GuideRequests: st.GuideRequestRepository,
			Bookings:      st.BookingRepository,
			Ledger:        st.LedgerRepository,
			Notifications: st.NotificationRepository,
		}, func() error { return nil }, nil

	case config.DriverPostgres:
		logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		logger.Info("Database connection established", "host", cfg.Database.Host, "database", cfg.Database.Database)

		st := postgres.NewStore(db)
		return &Repositories{
			Tx:            st.TxManager,
			Customers:     st.CustomerRepository,
			Agencies:      st.AgencyRepository,
			Packages:      st.PackageRepository,
			Guides:        st.GuideRepository,
			Assignments:   st.AssignmentRepository,
			Requests:      st.RequestRepository,
			GuideRequests: st.GuideRequestRepository,
			Bookings:      st.BookingRepository,
			Ledger:        st.LedgerRepository,
			Notifications: st.NotificationRepository,
		}, db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}

// Services holds every workflow service built over one set of repositories.
type Services struct {
	Notifications service.NotificationService
	Registry      service.AssignmentRegistry
	Settlement    service.SettlementEngine
	Requests      service.RequestService
	GuideRequests service.GuideRequestService
	Bookings      service.BookingService
	Earnings      service.EarningsService

	emailQueue *service.EmailQueue
}

// NewServices builds the service graph. When SMTP is configured, e-mails go through a
// background queue that runs until Close.
func NewServices(cfg *config.Config, repos *Repositories) *Services {
	var queue *service.EmailQueue
	emailSvc := service.NewEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	if emailSvc == nil {
		logger.Info("SMTP host not configured, decision e-mails disabled")
	} else {
		queue = service.NewEmailQueue(emailSvc, cfg.SMTP.Workers, cfg.SMTP.QueueSize, cfg.SMTP.MaxRetries, time.Second)
		queue.Start(context.Background())
		emailSvc = queue
	}

	notifier := service.NewNotificationService(repos.Notifications, repos.Customers, repos.Guides, repos.Agencies, emailSvc)
	registry := service.NewAssignmentRegistry(repos.Tx, repos.Packages, repos.Guides, repos.Assignments)
	settlement := service.NewSettlementEngine(repos.Tx, repos.Guides, repos.Ledger, registry)

	return &Services{
		Notifications: notifier,
		Registry:      registry,
		Settlement:    settlement,
		Requests: service.NewRequestService(repos.Requests, repos.Bookings, repos.Packages,
			repos.Customers, repos.Guides, settlement, notifier),
		GuideRequests: service.NewGuideRequestService(repos.GuideRequests, repos.Packages, repos.Guides,
			repos.Agencies, service.NewDuplicateGuard(repos.GuideRequests), registry, notifier),
		Bookings: service.NewBookingService(repos.Bookings, repos.Packages, repos.Customers,
			repos.Guides, settlement, notifier),
		Earnings:   service.NewEarningsService(repos.Guides, repos.Ledger, notifier),
		emailQueue: queue,
	}
}

// Close stops the e-mail workers.
func (s *Services) Close() {
	if s.emailQueue != nil {
		s.emailQueue.Stop()
	}
}

// HTTP returns the subset of services exposed by the API handlers.
func (s *Services) HTTP() httpapi.Services {
	return httpapi.Services{
		Requests:      s.Requests,
		GuideRequests: s.GuideRequests,
		Bookings:      s.Bookings,
		Registry:      s.Registry,
		Earnings:      s.Earnings,
		Notifications: s.Notifications,
	}
}

func NewJobRunner(cfg *config.Config, repos *Repositories, svc *Services) *jobs.JobRunner {
	return jobs.NewJobRunner(
		&jobs.Repositories{
			Bookings:      repos.Bookings,
			Assignments:   repos.Assignments,
			GuideRequests: repos.GuideRequests,
		},
		&jobs.Services{
			Settlement: svc.Settlement,
			Registry:   svc.Registry,
		},
		cfg,
	)
}
