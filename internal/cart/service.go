package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	product "github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/internal/repo"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	GetProduct(ctx context.Context, id string) (*product.ProductDTO, error)
}

// Service exposes the shared cart.
type Service interface {
	AddItem(ctx context.Context, productID string, quantity int) (*AddResult, error)
	RemoveItem(ctx context.Context, lineID string) error
	ListCart(ctx context.Context) (*View, error)
	Clear(ctx context.Context) error
}

// AddResult identifies the line touched by AddItem.
type AddResult struct {
	LineID string
	// Merged is true when an existing line absorbed the quantity.
	Merged bool
}

type service struct {
	repo     CartRepository
	tx       txRunner
	products productLoader
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds a cart service backed by the provided stack.
func NewService(cartRepo CartRepository, tx txRunner, products productLoader, logg *logger.Logger) (Service, error) {
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{
		repo:     cartRepo,
		tx:       tx,
		products: products,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) AddItem(ctx context.Context, productID string, quantity int) (*AddResult, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Product ID is required").
			WithDetails(map[string]any{"field": "productId"})
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer").
			WithDetails(map[string]any{"field": "quantity", "value": quantity})
	}

	// The catalog is immutable, so the lookup stays outside the transaction.
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	result, err := s.addLine(ctx, productID, quantity)
	if errors.Is(err, errLineRaced) {
		// The competing insert has committed by now, so a second pass merges.
		result, err = s.addLine(ctx, productID, quantity)
	}
	if errors.Is(err, errLineRaced) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product already added to cart")
	}
	if err != nil {
		return nil, err
	}

	s.debug(ctx, result.LineID, "cart.item_added")
	return result, nil
}

// errLineRaced marks an insert that lost to a concurrent first add of the
// same product.
var errLineRaced = errors.New("cart line created concurrently")

func (s *service) addLine(ctx context.Context, productID string, quantity int) (*AddResult, error) {
	var result AddResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		lines := s.repo.WithTx(tx)

		existing, err := lines.FindByProductID(ctx, productID)
		switch {
		case err == nil:
			if existing.Quantity > math.MaxInt-quantity {
				return pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds the maximum for one cart line").
					WithDetails(map[string]any{"field": "quantity", "inCart": existing.Quantity, "max": math.MaxInt})
			}
			if err := lines.IncrementQuantity(ctx, existing.ID, quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart line")
			}
			result = AddResult{LineID: existing.ID, Merged: true}
			return nil
		case !repo.IsNotFound(err):
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart line")
		}

		item := &models.CartItem{
			ID:        uuid.NewString(),
			ProductID: productID,
			Quantity:  quantity,
			AddedAt:   s.now().UTC(),
		}
		if err := lines.Create(ctx, item); err != nil {
			if db.IsUniqueViolation(err, "") {
				return fmt.Errorf("%w: %w", errLineRaced, err)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart line")
		}
		result = AddResult{LineID: item.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) RemoveItem(ctx context.Context, lineID string) error {
	lineID = strings.TrimSpace(lineID)
	if lineID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		affected, err := s.repo.WithTx(tx).Delete(ctx, lineID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart line")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Cart item not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.debug(ctx, lineID, "cart.item_removed")
	return nil
}

func (s *service) ListCart(ctx context.Context) (*View, error) {
	lines, err := s.repo.ListLines(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart")
	}
	return buildView(lines), nil
}

func (s *service) Clear(ctx context.Context) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).DeleteAll(ctx); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}
		return nil
	})
}

func (s *service) debug(ctx context.Context, lineID, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Debug(s.logg.WithLineID(ctx, lineID), msg)
}
