package main

import (
	"fmt"

	"github.com/sangkips/pdv-api/internal/config"
	domainRepo "github.com/sangkips/pdv-api/internal/domain/repository"
	"github.com/sangkips/pdv-api/internal/infrastructure/database"
	"github.com/sangkips/pdv-api/internal/infrastructure/repository"
	"github.com/sangkips/pdv-api/internal/infrastructure/repository/memory"
	"github.com/sangkips/pdv-api/pkg/metrics"
)

type repositories struct {
	Products    domainRepo.ProductRepository
	Tables      domainRepo.TableRepository
	Sales       domainRepo.SaleRepository
	Users       domainRepo.UserRepository
	Idempotency domainRepo.IdempotencyRepository
}

// openStore selects the repositories for STORE_DRIVER. The memory driver
// keeps everything in process and is meant for demos and a single device.
func openStore(cfg *config.Config, m *metrics.Metrics) (*repositories, error) {
	switch cfg.Store.Driver {
	case "memory":
		return &repositories{
			Products:    memory.NewProductRepository(),
			Tables:      memory.NewTableRepository(),
			Sales:       memory.NewSaleRepository(),
			Users:       memory.NewUserRepository(),
			Idempotency: memory.NewIdempotencyRepository(),
		}, nil
	case "postgres", "":
		db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		store := repository.NewStore(db, cfg.Store.Timeout, m)
		return &repositories{
			Products:    repository.NewProductRepository(store),
			Tables:      repository.NewTableRepository(store),
			Sales:       repository.NewSaleRepository(store),
			Users:       repository.NewUserRepository(store),
			Idempotency: repository.NewIdempotencyRepository(store),
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
