// Command devtoken signs access tokens with the configured JWT secret so the API can be
// exercised locally without the external auth service.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"travel-marketplace-backend/internal/config"
	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/security"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	userID := flag.String("user", "", "User ID to put in the token")
	role := flag.String("role", string(domain.RoleCustomer), "Role: customer, guide, agency or admin")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	token, err := issue(cfg, domain.Actor{ID: *userID, Role: domain.Role(*role)})
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}
	fmt.Println(token)
}

func issue(cfg *config.Config, actor domain.Actor) (string, error) {
	if actor.ID == "" {
		return "", fmt.Errorf("%w: user is required", domain.ErrInvalidInput)
	}
	if !actor.Role.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, actor.Role)
	}
	tm := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)
	return tm.GenerateAccessToken(actor)
}
