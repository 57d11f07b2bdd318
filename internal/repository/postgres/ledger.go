package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/logger"
	"travel-marketplace-backend/internal/repository"
)

type ledgerRepository struct {
	db *sql.DB
	tx repository.TxManager
}

func NewLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db, tx: NewTxManager(db)}
}

// RecordEarning applies the three ledger writes in one transaction. The counters are
// incremented in SQL so concurrent settlements for the same guide never overwrite each other.
func (r *ledgerRepository) RecordEarning(ctx context.Context, guideID string, entry domain.EarningEntry, month, year int) error {
	logger.EnterMethod("ledgerRepository.RecordEarning", "guideID", guideID, "bookingID", entry.BookingID, "amount", entry.Amount.String())

	err := r.tx.WithinTx(ctx, func(ctx context.Context) error {
		q := conn(ctx, r.db)

		res, err := q.ExecContext(ctx,
			`INSERT INTO guide_earnings_history (guide_id, booking_id, package_id, package_name, customer_name, amount, date, status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (booking_id) DO NOTHING`,
			guideID, entry.BookingID, entry.PackageID, entry.PackageName, entry.CustomerName, entry.Amount, entry.Date, entry.Status)
		if err != nil {
			if code, constraint := pqCode(err); code == foreignKeyViolation {
				if strings.Contains(constraint, "booking") {
					return domain.NewNotFound("booking", entry.BookingID)
				}
				return domain.NewNotFound("guide", guideID)
			}
			return err
		}
		n, err := rowsAffected(res)
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrAlreadySettled
		}

		res, err = q.ExecContext(ctx,
			`UPDATE guides
			 SET earnings_total = earnings_total + $1, earnings_pending = earnings_pending + $1, updated_at = NOW()
			 WHERE id = $2`,
			entry.Amount, guideID)
		if err != nil {
			return err
		}
		if n, err = rowsAffected(res); err != nil {
			return err
		}
		if n == 0 {
			return domain.NewNotFound("guide", guideID)
		}

		_, err = q.ExecContext(ctx,
			`INSERT INTO guide_earnings_monthly (guide_id, year, month, amount)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (guide_id, year, month) DO UPDATE SET amount = guide_earnings_monthly.amount + EXCLUDED.amount`,
			guideID, year, month, entry.Amount)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadySettled) {
			logger.ExitMethod("ledgerRepository.RecordEarning", "bookingID", entry.BookingID, "alreadySettled", true)
		} else {
			logger.ExitMethodWithError("ledgerRepository.RecordEarning", err, "guideID", guideID)
		}
		return err
	}

	logger.ExitMethod("ledgerRepository.RecordEarning", "guideID", guideID, "bookingID", entry.BookingID)
	return nil
}

func (r *ledgerRepository) MarkPaid(ctx context.Context, guideID, bookingID string) (decimal.Decimal, error) {
	var amount decimal.Decimal
	err := r.tx.WithinTx(ctx, func(ctx context.Context) error {
		q := conn(ctx, r.db)

		var status domain.EarningStatus
		err := q.QueryRowContext(ctx,
			`SELECT amount, status FROM guide_earnings_history WHERE guide_id = $1 AND booking_id = $2 FOR UPDATE`,
			guideID, bookingID).Scan(&amount, &status)
		if err != nil {
			return notFound(err, "earning entry", bookingID)
		}
		if status != domain.EarningStatusPending {
			return domain.ErrInvalidTransition
		}

		if _, err := q.ExecContext(ctx,
			`UPDATE guide_earnings_history SET status = $1 WHERE guide_id = $2 AND booking_id = $3`,
			domain.EarningStatusPaid, guideID, bookingID); err != nil {
			return err
		}
		_, err = q.ExecContext(ctx,
			`UPDATE guides
			 SET earnings_pending = earnings_pending - $1, earnings_received = earnings_received + $1, updated_at = NOW()
			 WHERE id = $2`,
			amount, guideID)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}
