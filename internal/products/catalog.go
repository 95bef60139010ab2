package product

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

// CatalogEntry is one product in a seed catalog.
type CatalogEntry struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Price       decimal.Decimal `json:"price" yaml:"price"`
	Image       string          `json:"image" yaml:"image"`
	Description string          `json:"description" yaml:"description"`
}

func catalogImage(photo string) string {
	return "https://images.unsplash.com/" + photo + "?w=300&h=300&fit=crop"
}

// DefaultCatalog returns the demo catalog seeded when no catalog file is configured.
func DefaultCatalog() []CatalogEntry {
	return []CatalogEntry{
		{ID: "1", Name: "Wireless Headphones", Price: decimal.RequireFromString("99.99"), Image: catalogImage("photo-1505740420928-5e560c06d30e"), Description: "High-quality wireless headphones with noise cancellation"},
		{ID: "2", Name: "Smart Watch", Price: decimal.RequireFromString("199.99"), Image: catalogImage("photo-1523275335684-37898b6baf30"), Description: "Feature-rich smartwatch with health monitoring"},
		{ID: "3", Name: "Laptop Backpack", Price: decimal.RequireFromString("49.99"), Image: catalogImage("photo-1553062407-98eeb64c6a62"), Description: "Durable laptop backpack with multiple compartments"},
		{ID: "4", Name: "Bluetooth Speaker", Price: decimal.RequireFromString("79.99"), Image: catalogImage("photo-1608043152269-423dbba4e7e1"), Description: "Portable Bluetooth speaker with excellent sound quality"},
		{ID: "5", Name: "Phone Case", Price: decimal.RequireFromString("19.99"), Image: catalogImage("photo-1601593346740-925612772716"), Description: "Protective phone case with stylish design"},
		{ID: "6", Name: "USB-C Cable", Price: decimal.RequireFromString("14.99"), Image: catalogImage("photo-1583394838336-acd977736f90"), Description: "Fast charging USB-C cable, 6ft length"},
		{ID: "7", Name: "Wireless Mouse", Price: decimal.RequireFromString("29.99"), Image: catalogImage("photo-1527864550417-7fd91fc51a46"), Description: "Ergonomic wireless mouse with precision tracking"},
		{ID: "8", Name: "Desk Lamp", Price: decimal.RequireFromString("39.99"), Image: catalogImage("photo-1507473885765-e6ed057f782c"), Description: "LED desk lamp with adjustable brightness"},
	}
}

// LoadCatalogFile parses a JSON or YAML list of catalog entries.
func LoadCatalogFile(path string) ([]CatalogEntry, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported catalog file extension %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file %s: %w", cleanPath, err)
	}

	var entries []CatalogEntry
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parsing JSON catalog %s: %w", cleanPath, err)
		}
	default:
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parsing YAML catalog %s: %w", cleanPath, err)
		}
	}

	if err := ValidateCatalog(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ValidateCatalog reports every malformed entry at once.
func ValidateCatalog(entries []CatalogEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("catalog is empty")
	}

	var errs error
	seen := make(map[string]int, len(entries))
	for i, entry := range entries {
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			errs = multierr.Append(errs, fmt.Errorf("entry %d: id is required", i))
		} else if prev, dup := seen[id]; dup {
			errs = multierr.Append(errs, fmt.Errorf("entry %d: duplicate id %q (first at entry %d)", i, id, prev))
		} else {
			seen[id] = i
		}
		if strings.TrimSpace(entry.Name) == "" {
			errs = multierr.Append(errs, fmt.Errorf("entry %d: name is required", i))
		}
		if entry.Price.IsNegative() {
			errs = multierr.Append(errs, fmt.Errorf("entry %d: price must be non-negative", i))
		}
	}
	return errs
}

func toModels(entries []CatalogEntry) []models.Product {
	rows := make([]models.Product, len(entries))
	for i, entry := range entries {
		rows[i] = models.Product{
			ID:          strings.TrimSpace(entry.ID),
			Name:        strings.TrimSpace(entry.Name),
			Price:       entry.Price.Round(2),
			Image:       entry.Image,
			Description: entry.Description,
			Position:    i + 1,
		}
	}
	return rows
}
