package repository_test

import (
	"context"
	"fmt"

	"github.com/nikolayk812/beautyshop/internal/repository"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	if err := repository.Migrate(connStr); err != nil {
		return nil, "", fmt.Errorf("repository.Migrate: %w", err)
	}

	return postgresContainer, connStr, nil
}
