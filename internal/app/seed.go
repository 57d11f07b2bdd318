package app

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/logger"
	"travel-marketplace-backend/internal/repository/memory"
)

// Seed is the catalog loaded into the memory store: the entities the workflows
// reference but do not create.
type Seed struct {
	Customers []struct {
		ID    string `yaml:"id"`
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
	} `yaml:"customers"`
	Agencies []struct {
		ID     string   `yaml:"id"`
		Name   string   `yaml:"name"`
		Email  string   `yaml:"email"`
		Guides []string `yaml:"guides"`
	} `yaml:"agencies"`
	Guides []struct {
		ID    string `yaml:"id"`
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
	} `yaml:"guides"`
	Packages []struct {
		ID       string `yaml:"id"`
		Name     string `yaml:"name"`
		AgencyID string `yaml:"agency_id"`
		Price    string `yaml:"price"`
	} `yaml:"packages"`
}

// LoadSeed reads a YAML seed file into st.
func LoadSeed(st *memory.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}
	return ApplySeed(context.Background(), st, &seed)
}

func ApplySeed(ctx context.Context, st *memory.Store, seed *Seed) error {
	for _, c := range seed.Customers {
		if err := st.CustomerRepository.Create(ctx, &domain.Customer{ID: c.ID, Name: c.Name, Email: c.Email}); err != nil {
			return fmt.Errorf("seed customer %s: %w", c.ID, err)
		}
	}
	for _, g := range seed.Guides {
		if err := st.GuideRepository.Create(ctx, &domain.Guide{ID: g.ID, Name: g.Name, Email: g.Email}); err != nil {
			return fmt.Errorf("seed guide %s: %w", g.ID, err)
		}
	}
	for _, a := range seed.Agencies {
		if err := st.AgencyRepository.Create(ctx, &domain.Agency{ID: a.ID, Name: a.Name, Email: a.Email}); err != nil {
			return fmt.Errorf("seed agency %s: %w", a.ID, err)
		}
		for _, guideID := range a.Guides {
			if _, err := st.AgencyRepository.AddGuide(ctx, a.ID, guideID); err != nil {
				return fmt.Errorf("seed agency %s roster: %w", a.ID, err)
			}
		}
	}
	for _, p := range seed.Packages {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return fmt.Errorf("seed package %s price %q: %w", p.ID, p.Price, err)
		}
		if err := st.PackageRepository.Create(ctx, &domain.Package{ID: p.ID, Name: p.Name, AgencyID: p.AgencyID, Price: price}); err != nil {
			return fmt.Errorf("seed package %s: %w", p.ID, err)
		}
	}
	logger.Info("Seed loaded",
		"customers", len(seed.Customers),
		"agencies", len(seed.Agencies),
		"guides", len(seed.Guides),
		"packages", len(seed.Packages),
	)
	return nil
}
