package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/repository/postgres"
)

var requestCols = []string{
	"id", "customer_id", "customer_name", "package_id", "package_name", "agency_id", "guide_id",
	"request_type", "price", "duration", "itinerary", "available_dates", "max_group_size", "message", "status",
	"created_at", "updated_at",
}

func TestRequestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRequestRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM requests WHERE id = \\$1").
			WithArgs("r1").
			WillReturnRows(sqlmock.NewRows(requestCols).AddRow(
				"r1", "c1", "Ann", "p1", "Alps Trek", "a1", "g1",
				"customize", "1200.00", "5 days", []byte(`[{"day":1,"title":"Arrival","description":"Check in"}]`),
				"{2024-06-01,2024-07-01}", 8, "quiet hotel please", "pending",
				now, now,
			))

		req, err := repo.GetByID(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, "Ann", req.CustomerName)
		assert.True(t, req.Price.Equal(decimal.NewFromInt(1200)))
		require.NotNil(t, req.GuideID)
		assert.Equal(t, "g1", *req.GuideID)
		assert.Equal(t, []string{"2024-06-01", "2024-07-01"}, req.AvailableDates)
		require.Len(t, req.Itinerary, 1)
		assert.Equal(t, "Arrival", req.Itinerary[0].Title)
		assert.Equal(t, domain.RequestStatusPending, req.Status)
		assert.Equal(t, int32(8), req.MaxGroupSize)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM requests WHERE id = \\$1").
			WithArgs("nope").
			WillReturnRows(sqlmock.NewRows(requestCols))

		_, err := repo.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, "request", domain.EntityOf(err))
	})
}

func TestRequestRepository_TransitionStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRequestRepository(db)
	ctx := context.Background()

	t.Run("Won", func(t *testing.T) {
		mock.ExpectExec("UPDATE requests SET status").
			WithArgs(domain.RequestStatusApproved, sqlmock.AnyArg(), "r1", domain.RequestStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.TransitionStatus(ctx, "r1", domain.RequestStatusPending, domain.RequestStatusApproved)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Lost", func(t *testing.T) {
		mock.ExpectExec("UPDATE requests SET status").
			WithArgs(domain.RequestStatusApproved, sqlmock.AnyArg(), "r1", domain.RequestStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.TransitionStatus(ctx, "r1", domain.RequestStatusPending, domain.RequestStatusApproved)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_ListAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRequestRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM requests WHERE TRUE ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows(requestCols).
			AddRow("r2", "c2", "Bob", "p1", "Alps Trek", "a2", nil,
				"customize", "900.00", "3 days", []byte(`[]`), "{}", 4, "", "approved", now, now).
			AddRow("r1", "c1", "Ann", "p1", "Alps Trek", "a1", "g1",
				"customize", "1200.00", "5 days", []byte(`[]`), "{}", 8, "", "pending", now, now))

	reqs, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "a2", reqs[0].AgencyID)
	assert.Nil(t, reqs[0].GuideID)
	assert.Equal(t, "a1", reqs[1].AgencyID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGuideRequestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewGuideRequestRepository(db)
	ctx := context.Background()
	pkg := "p1"

	t.Run("Success", func(t *testing.T) {
		gr := &domain.GuideRequest{
			GuideID:   "g1",
			PackageID: &pkg,
			AgencyID:  "a1",
			Initiator: domain.InitiatorGuide,
			Type:      domain.GuideRequestTypePackageAssignment,
			Status:    domain.RequestStatusPending,
		}
		mock.ExpectExec("INSERT INTO guide_requests").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(ctx, gr)
		assert.NoError(t, err)
		assert.NotEmpty(t, gr.ID)
	})

	t.Run("Pending slot taken", func(t *testing.T) {
		gr := &domain.GuideRequest{
			GuideID:   "g1",
			PackageID: &pkg,
			AgencyID:  "a1",
			Initiator: domain.InitiatorGuide,
			Type:      domain.GuideRequestTypePackageAssignment,
			Status:    domain.RequestStatusPending,
		}
		mock.ExpectExec("INSERT INTO guide_requests").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "guide_requests_pending_package_uq"})

		err := repo.Create(ctx, gr)
		assert.ErrorIs(t, err, domain.ErrDuplicateRequest)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGuideRequestRepository_FindPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewGuideRequestRepository(db)
	ctx := context.Background()
	cols := []string{"id", "guide_id", "guide_name", "package_id", "package_name", "agency_id", "agency_name",
		"message", "initiator", "type", "status", "created_at", "updated_at"}

	t.Run("General collaboration keyed by agency", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery("FROM guide_requests\\s+WHERE type = \\$1 AND guide_id = \\$2 AND agency_id = \\$3").
			WithArgs(domain.GuideRequestTypeGeneralCollaboration, "g1", "a1").
			WillReturnRows(sqlmock.NewRows(cols).AddRow(
				"gr1", "g1", "Gia", nil, "", "a1", "Peak Tours", "hi", "guide", "general_collaboration", "pending", now, now))

		gr, err := repo.FindPending(ctx, domain.PendingKey{
			Type:    domain.GuideRequestTypeGeneralCollaboration,
			GuideID: "g1",
			Target:  "a1",
		})
		require.NoError(t, err)
		assert.Equal(t, "gr1", gr.ID)
		assert.Nil(t, gr.PackageID)
	})

	t.Run("Unknown type", func(t *testing.T) {
		_, err := repo.FindPending(ctx, domain.PendingKey{Type: "other", GuideID: "g1", Target: "a1"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
