package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EarningStatus string

const (
	EarningStatusPending EarningStatus = "pending"
	EarningStatusPaid    EarningStatus = "paid"
)

// EarningEntry is one settled booking in a guide's ledger history.
type EarningEntry struct {
	BookingID    string          `json:"booking_id"`
	PackageID    string          `json:"package_id"`
	PackageName  string          `json:"package_name"`
	CustomerName string          `json:"customer_name"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	Status       EarningStatus   `json:"status"`
}

// MonthlyEarning aggregates a guide's earnings for one calendar month. Month is 1-indexed.
type MonthlyEarning struct {
	Month  int             `json:"month"`
	Year   int             `json:"year"`
	Amount decimal.Decimal `json:"amount"`
}

type Earnings struct {
	Total    decimal.Decimal  `json:"total"`
	Pending  decimal.Decimal  `json:"pending"`
	Received decimal.Decimal  `json:"received"`
	Monthly  []MonthlyEarning `json:"monthly"`
	History  []EarningEntry   `json:"history"`
}

// Bucket returns the monthly bucket for (month, year), or nil.
func (e *Earnings) Bucket(month, year int) *MonthlyEarning {
	for i := range e.Monthly {
		if e.Monthly[i].Month == month && e.Monthly[i].Year == year {
			return &e.Monthly[i]
		}
	}
	return nil
}

// Apply folds one settlement into the aggregate: totals, history and the monthly bucket.
func (e *Earnings) Apply(entry EarningEntry, month, year int) {
	e.Total = e.Total.Add(entry.Amount)
	e.Pending = e.Pending.Add(entry.Amount)
	e.History = append(e.History, entry)
	if b := e.Bucket(month, year); b != nil {
		b.Amount = b.Amount.Add(entry.Amount)
		return
	}
	e.Monthly = append(e.Monthly, MonthlyEarning{Month: month, Year: year, Amount: entry.Amount})
}

const AssignmentStatusActive = "active"

type AssignedPackage struct {
	PackageID   string          `json:"package_id"`
	PackageName string          `json:"package_name"`
	Price       decimal.Decimal `json:"price"`
	Status      string          `json:"status"`
}

type Guide struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Email            string            `json:"email"`
	Earnings         Earnings          `json:"earnings"`
	AssignedPackages []AssignedPackage `json:"assigned_packages"`
	CreatedAt        time.Time         `json:"created_at"`
}

func (g *Guide) HasPackage(packageID string) bool {
	for _, ap := range g.AssignedPackages {
		if ap.PackageID == packageID {
			return true
		}
	}
	return false
}

// AssignmentLink is one package/guide edge of the assignment registry.
type AssignmentLink struct {
	PackageID string `json:"package_id"`
	GuideID   string `json:"guide_id"`
}
