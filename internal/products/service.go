package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/repo"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// Service exposes read-only catalog operations.
type Service interface {
	ListProducts(ctx context.Context) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id string) (*ProductDTO, error)
}

type catalogReader interface {
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
}

type service struct {
	repo catalogReader
}

// NewService constructs a catalog service instance.
func NewService(reader catalogReader) (Service, error) {
	if reader == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: reader}, nil
}

func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	out := make([]ProductDTO, len(rows))
	for i, row := range rows {
		out[i] = toProductDTO(row)
	}
	return out, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*ProductDTO, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	dto := toProductDTO(*row)
	return &dto, nil
}

type catalogWriter interface {
	Insert(ctx context.Context, rows []models.Product) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// Seed validates and inserts the catalog. Ids already present are kept as-is,
// so seeding a persistent store twice is harmless.
func Seed(ctx context.Context, writer catalogWriter, entries []CatalogEntry, logg *logger.Logger) error {
	if writer == nil {
		return fmt.Errorf("product repository required")
	}
	if err := ValidateCatalog(entries); err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}

	inserted, err := writer.Insert(ctx, toModels(entries))
	if err != nil {
		return fmt.Errorf("seeding catalog: %w", err)
	}

	size, err := writer.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting catalog: %w", err)
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"entries":  len(entries),
		"inserted": inserted,
		"size":     size,
	}), "catalog.seeded")
	return nil
}
