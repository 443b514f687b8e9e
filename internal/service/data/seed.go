package data

import (
	"fmt"

	"crudgate/internal/pkg/config"
	"crudgate/internal/pkg/logger"

	"go.uber.org/zap"
)

// Seed inserts a small demo dataset
func Seed(service *DataService) error {
	alice, err := service.CreateUser(CreateUserDTO{Name: "Alice Nguyen", Email: "alice@example.com"})
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	bob, err := service.CreateUser(CreateUserDTO{Name: "Bob Tran", Email: "bob@example.com"})
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	tasks := []CreateTaskDTO{
		{UserID: alice.ID.String(), Title: "Write release notes"},
		{UserID: alice.ID.String(), Title: "Review rate limit dashboard", Description: "Check p95 latency per route"},
		{UserID: bob.ID.String(), Title: "Rotate API keys"},
	}
	for _, dto := range tasks {
		if _, err := service.CreateTask(dto); err != nil {
			return fmt.Errorf("seed task: %w", err)
		}
	}
	return nil
}

func seedIfEnabled(cfg *config.Config, service *DataService, log *logger.Logger) error {
	if !cfg.Data.Seed {
		return nil
	}
	if err := Seed(service); err != nil {
		return err
	}
	log.Info("Seeded demo data",
		zap.Int("users", service.ListUsers().Total),
	)
	return nil
}
