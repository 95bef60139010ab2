// Package dbtest boots isolated, migrated in-memory SQLite stores for tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
)

// New returns a migrated client backed by a private in-memory database.
func New(t testing.TB) *db.Client {
	t.Helper()

	ctx := context.Background()
	client, err := db.New(ctx, config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.SQLDB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	if err := migrate.Up(ctx, sqlDB, client.Driver()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return client
}

// NewSeeded returns a migrated client with the provided products inserted in order.
func NewSeeded(t testing.TB, products ...models.Product) *db.Client {
	t.Helper()

	client := New(t)
	for i := range products {
		products[i].Position = i + 1
		if err := client.DB().Create(&products[i]).Error; err != nil {
			t.Fatalf("seed product %s: %v", products[i].ID, err)
		}
	}
	return client
}

// Product builds a catalog row with the given id and price.
func Product(id, name, price string) models.Product {
	return models.Product{
		ID:          id,
		Name:        name,
		Price:       decimal.RequireFromString(price),
		Image:       "https://images.example.com/" + id + ".jpg",
		Description: name + " description",
	}
}
