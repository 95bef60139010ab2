package cart

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	product "github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/dbtest"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, products ...models.Product) (*service, *db.Client) {
	t.Helper()

	client := dbtest.NewSeeded(t, products...)
	catalog, err := product.NewService(product.NewRepository(client.DB()))
	require.NoError(t, err)

	svc, err := NewService(NewRepository(client.DB()), client, catalog, nil)
	require.NoError(t, err)

	impl := svc.(*service)
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	impl.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return impl, client
}

func TestAddItemMergesDuplicateProducts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t, dbtest.Product("1", "Wireless Headphones", "99.99"))

	first, err := svc.AddItem(ctx, "1", 1)
	require.NoError(t, err)
	assert.False(t, first.Merged)

	second, err := svc.AddItem(ctx, "1", 2)
	require.NoError(t, err)
	assert.True(t, second.Merged)
	assert.Equal(t, first.LineID, second.LineID)

	view, err := svc.ListCart(ctx)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.Equal(t, 3, view.ItemCount)
	assert.Equal(t, "299.97", view.Total.String())
	assert.Equal(t, "Wireless Headphones", view.Items[0].Name)
}

func TestListCartTotalsAcrossLines(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t,
		dbtest.Product("1", "Wireless Headphones", "99.99"),
		dbtest.Product("5", "Phone Case", "19.99"),
		dbtest.Product("6", "USB-C Cable", "14.99"),
	)

	_, err := svc.AddItem(ctx, "5", 3)
	require.NoError(t, err)
	cable, err := svc.AddItem(ctx, "6", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "1", 2)
	require.NoError(t, err)

	view, err := svc.ListCart(ctx)
	require.NoError(t, err)
	require.Len(t, view.Items, 3)
	assert.Equal(t, []string{"5", "6", "1"}, []string{
		view.Items[0].ProductID, view.Items[1].ProductID, view.Items[2].ProductID,
	})
	assert.Equal(t, 6, view.ItemCount)
	assert.Equal(t, "274.94", view.Total.String())

	require.NoError(t, svc.RemoveItem(ctx, cable.LineID))
	view, err = svc.ListCart(ctx)
	require.NoError(t, err)
	assert.Len(t, view.Items, 2)
	assert.Equal(t, 5, view.ItemCount)
	assert.Equal(t, "259.95", view.Total.String())
}

func TestAddItemValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t, dbtest.Product("1", "Lamp", "10.00"))

	_, err := svc.AddItem(ctx, "  ", 1)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "blank product id: %v", err)

	_, err = svc.AddItem(ctx, "1", 0)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "zero quantity: %v", err)

	_, err = svc.AddItem(ctx, "1", -4)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "negative quantity: %v", err)

	_, err = svc.AddItem(ctx, "999", 1)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound), "unknown product: %v", err)

	view, err := svc.ListCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.ItemCount)
	assert.Equal(t, "0.00", view.Total.String())
}

func TestRemoveUnknownLineLeavesCartUntouched(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t, dbtest.Product("1", "Lamp", "10.00"))

	_, err := svc.AddItem(ctx, "1", 2)
	require.NoError(t, err)

	err = svc.RemoveItem(ctx, "no-such-line")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound), "unexpected error: %v", err)

	view, err := svc.ListCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, view.ItemCount)
}

func TestClearEmptiesCart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t,
		dbtest.Product("1", "Lamp", "10.00"),
		dbtest.Product("2", "Mouse", "5.50"),
	)

	_, err := svc.AddItem(ctx, "1", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "2", 1)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx))
	require.NoError(t, svc.Clear(ctx))

	view, err := svc.ListCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestSummarizeRoundsHalfAwayFromZero(t *testing.T) {
	t.Parallel()

	total, count := Summarize([]Line{
		{Price: decimal.RequireFromString("0.125"), Quantity: 1},
		{Price: decimal.RequireFromString("1.00"), Quantity: 2},
	})
	assert.Equal(t, "2.13", total.StringFixed(2))
	assert.Equal(t, 3, count)

	total, count = Summarize(nil)
	assert.True(t, total.IsZero())
	assert.Zero(t, count)
}

type stubProducts struct{}

func (stubProducts) GetProduct(ctx context.Context, id string) (*product.ProductDTO, error) {
	return &product.ProductDTO{ID: id}, nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubCartRepo struct {
	findErr   error
	createErr error
	listErr   error
	created   []models.CartItem
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) CartRepository { return s }

func (s *stubCartRepo) FindByProductID(ctx context.Context, productID string) (*models.CartItem, error) {
	return nil, s.findErr
}

func (s *stubCartRepo) Create(ctx context.Context, item *models.CartItem) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, *item)
	return nil
}

func (s *stubCartRepo) IncrementQuantity(ctx context.Context, id string, delta int) error {
	return nil
}

func (s *stubCartRepo) Delete(ctx context.Context, id string) (int64, error) { return 0, nil }

func (s *stubCartRepo) DeleteAll(ctx context.Context) (int64, error) { return 0, nil }

func (s *stubCartRepo) ListLines(ctx context.Context) ([]Line, error) { return nil, s.listErr }

func TestAddItemMapsRepositoryFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cases := []struct {
		name string
		repo *stubCartRepo
		want pkgerrors.Code
	}{
		{
			name: "lookup failure",
			repo: &stubCartRepo{findErr: errors.New("disk I/O error")},
			want: pkgerrors.CodeInternal,
		},
		{
			name: "concurrent insert",
			repo: &stubCartRepo{
				findErr:   gorm.ErrRecordNotFound,
				createErr: errors.New("UNIQUE constraint failed: cart_items.product_id"),
			},
			want: pkgerrors.CodeConflict,
		},
		{
			name: "insert failure",
			repo: &stubCartRepo{
				findErr:   gorm.ErrRecordNotFound,
				createErr: errors.New("database is locked"),
			},
			want: pkgerrors.CodeInternal,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, err := NewService(tc.repo, stubTx{}, stubProducts{}, nil)
			require.NoError(t, err)

			_, err = svc.AddItem(ctx, "1", 1)
			assert.True(t, pkgerrors.HasCode(err, tc.want), "got %v", err)
		})
	}
}

func TestListCartWrapsRepositoryFailure(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubCartRepo{listErr: errors.New("boom")}, stubTx{}, stubProducts{}, nil)
	require.NoError(t, err)

	_, err = svc.ListCart(context.Background())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInternal))
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil, stubTx{}, stubProducts{}, nil)
	assert.Error(t, err)
	_, err = NewService(&stubCartRepo{}, nil, stubProducts{}, nil)
	assert.Error(t, err)
	_, err = NewService(&stubCartRepo{}, stubTx{}, nil, nil)
	assert.Error(t, err)
}

func TestAddItemRejectsQuantityOverflow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t, dbtest.Product("1", "Wireless Headphones", "99.99"))

	first, err := svc.AddItem(ctx, "1", math.MaxInt)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, "1", math.MaxInt)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "unexpected error: %v", err)
	_, err = svc.AddItem(ctx, "1", 1)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "unexpected error: %v", err)

	view, err := svc.ListCart(ctx)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, first.LineID, view.Items[0].ID)
	assert.Equal(t, math.MaxInt, view.Items[0].Quantity)
	assert.Equal(t, math.MaxInt, view.ItemCount)
}

func TestSummarizeSaturatesItemCount(t *testing.T) {
	t.Parallel()

	_, count := Summarize([]Line{
		{Price: decimal.RequireFromString("1.00"), Quantity: math.MaxInt},
		{Price: decimal.RequireFromString("1.00"), Quantity: 5},
	})
	assert.Equal(t, math.MaxInt, count)
}

// racingCartRepo loses the first insert to a concurrent add, after which the
// competing line is visible.
type racingCartRepo struct {
	stubCartRepo
	finds       int
	incremented int
}

func (r *racingCartRepo) WithTx(tx *gorm.DB) CartRepository { return r }

func (r *racingCartRepo) FindByProductID(ctx context.Context, productID string) (*models.CartItem, error) {
	r.finds++
	if r.finds == 1 {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.CartItem{ID: "winner", ProductID: productID, Quantity: 1}, nil
}

func (r *racingCartRepo) Create(ctx context.Context, item *models.CartItem) error {
	return errors.New("UNIQUE constraint failed: cart_items.product_id")
}

func (r *racingCartRepo) IncrementQuantity(ctx context.Context, id string, delta int) error {
	r.incremented += delta
	return nil
}

func TestAddItemMergesAfterLosingInsertRace(t *testing.T) {
	t.Parallel()
	lines := &racingCartRepo{}
	svc, err := NewService(lines, stubTx{}, stubProducts{}, nil)
	require.NoError(t, err)

	result, err := svc.AddItem(context.Background(), "1", 2)
	require.NoError(t, err)
	assert.Equal(t, "winner", result.LineID)
	assert.True(t, result.Merged)
	assert.Equal(t, 2, lines.finds)
	assert.Equal(t, 2, lines.incremented)
}
