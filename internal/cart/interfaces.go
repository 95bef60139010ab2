package cart

import (
	"context"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	FindByProductID(ctx context.Context, productID string) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	IncrementQuantity(ctx context.Context, id string, delta int) error
	Delete(ctx context.Context, id string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	ListLines(ctx context.Context) ([]Line, error)
}
