package cart

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/internal/repo"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

// Repository exposes persistence operations for cart lines.
type Repository struct {
	repo.Base
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	return &Repository{Base: r.Base.Bind(tx)}
}

// FindByProductID loads the line holding productID, if any.
func (r *Repository) FindByProductID(ctx context.Context, productID string) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB(ctx).
		Where("product_id = ?", productID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new cart line.
func (r *Repository) Create(ctx context.Context, item *models.CartItem) error {
	return r.DB(ctx).Create(item).Error
}

// IncrementQuantity adds delta to the quantity of the line in place.
func (r *Repository) IncrementQuantity(ctx context.Context, id string, delta int) error {
	return r.DB(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}

// Delete removes one line and reports how many rows were affected.
func (r *Repository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

// DeleteAll empties the cart.
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.DB(ctx).Where("1 = 1").Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

// ListLines returns every line joined with its current catalog data.
func (r *Repository) ListLines(ctx context.Context) ([]Line, error) {
	var rows []Line
	err := r.DB(ctx).
		Table("cart_items AS ci").
		Select("ci.id, ci.product_id, ci.quantity, ci.added_at, p.name, p.price, p.image").
		Joins("JOIN products AS p ON p.id = ci.product_id").
		Order("ci.added_at ASC").
		Order("ci.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
