package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Package struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	AgencyID  string          `json:"agency_id"`
	Price     decimal.Decimal `json:"price"`
	Guides    []string        `json:"guides"`
	CreatedAt time.Time       `json:"created_at"`
}

func (p *Package) HasGuide(guideID string) bool {
	for _, id := range p.Guides {
		if id == guideID {
			return true
		}
	}
	return false
}

type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Agency struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Guides []string `json:"guides"`
}
