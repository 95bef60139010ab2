package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderIDSource interface {
	NewOrderID() string
}

type checkoutRecorder interface {
	ObserveCheckout(total decimal.Decimal, itemCount int)
}

// Service executes checkout orchestration.
type Service interface {
	Checkout(ctx context.Context, customer CustomerInfo) (*Receipt, error)
}

type service struct {
	tx       txRunner
	cartRepo cart.CartRepository
	ids      orderIDSource
	recorder checkoutRecorder
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the checkout service. recorder and logg may be nil.
func NewService(
	tx txRunner,
	cartRepo cart.CartRepository,
	ids orderIDSource,
	recorder checkoutRecorder,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if ids == nil {
		return nil, fmt.Errorf("order id source required")
	}
	return &service{
		tx:       tx,
		cartRepo: cartRepo,
		ids:      ids,
		recorder: recorder,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) Checkout(ctx context.Context, customer CustomerInfo) (*Receipt, error) {
	customer.Name = strings.TrimSpace(customer.Name)
	customer.Email = strings.TrimSpace(customer.Email)
	if customer.Name == "" || customer.Email == "" {
		missing := []string{}
		if customer.Name == "" {
			missing = append(missing, "name")
		}
		if customer.Email == "" {
			missing = append(missing, "email")
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Customer name and email are required").
			WithDetails(map[string]any{"missing": missing})
	}

	var lines []cart.Line
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.cartRepo.WithTx(tx)

		var err error
		lines, err = repo.ListLines(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "snapshot cart")
		}
		if _, err := repo.DeleteAll(ctx); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	total, count := cart.Summarize(lines)
	receipt := &Receipt{
		OrderID:      s.ids.NewOrderID(),
		CustomerInfo: customer,
		Items:        receiptItems(lines),
		Total:        types.NewMoney(total),
		ItemCount:    count,
		Timestamp:    s.now().UTC(),
		Status:       StatusCompleted,
	}

	if s.recorder != nil {
		s.recorder.ObserveCheckout(total, count)
	}
	logCtx := s.logg.WithFields(s.logg.WithOrderID(ctx, receipt.OrderID), map[string]any{
		"total":      receipt.Total.String(),
		"item_count": count,
	})
	s.logg.Info(logCtx, "checkout.completed")
	return receipt, nil
}
