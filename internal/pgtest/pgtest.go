// Package pgtest starts a disposable Postgres with the cart schema for integration tests.
package pgtest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const image = "postgres:17.6-alpine3.22"

type DB struct {
	container *postgres.PostgresContainer

	// ConnString points at the cart database, sslmode disabled.
	ConnString string
}

// Start runs every *.up.sql migration, in file name order, as an init script.
func Start(ctx context.Context) (*DB, error) {
	scripts, err := migrations()
	if err != nil {
		return nil, err
	}

	container, err := postgres.Run(ctx, image,
		postgres.WithDatabase("cart"),
		postgres.WithUsername("cart"),
		postgres.WithPassword("cart"),
		postgres.WithInitScripts(scripts...),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("container.ConnectionString: %w", err),
			testcontainers.TerminateContainer(container),
		)
	}

	return &DB{container: container, ConnString: connStr}, nil
}

func (d *DB) Close() error {
	if d == nil {
		return nil
	}
	return testcontainers.TerminateContainer(d.container)
}

func migrations() ([]string, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return nil, errors.New("runtime.Caller: no caller information")
	}

	// filepath.Glob returns matches in lexical order
	scripts, err := filepath.Glob(filepath.Join(filepath.Dir(file), "..", "migrations", "*.up.sql"))
	if err != nil {
		return nil, fmt.Errorf("filepath.Glob: %w", err)
	}
	if len(scripts) == 0 {
		return nil, errors.New("no migrations found")
	}

	return scripts, nil
}
