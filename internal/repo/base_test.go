package repo

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/db/dbtest"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

type ctxKey struct{}

func TestBaseDBBindsContext(t *testing.T) {
	client := dbtest.New(t)
	base := NewBase(client.DB())

	ctx := context.WithValue(context.Background(), ctxKey{}, "value")
	scoped := base.DB(ctx)
	require.NotNil(t, scoped.Statement)
	assert.Equal(t, ctx, scoped.Statement.Context)

	assert.Same(t, client.DB(), base.DB(nil))
}

func TestBaseBindUsesTransaction(t *testing.T) {
	client := dbtest.NewSeeded(t, dbtest.Product("1", "Wireless Headphones", "99.99"))
	base := NewBase(client.DB())
	assert.Equal(t, base, base.Bind(nil))

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		bound := base.Bind(tx)
		var count int64
		if err := bound.DB(context.Background()).Model(&models.Product{}).Count(&count).Error; err != nil {
			return err
		}
		assert.EqualValues(t, 1, count)
		return nil
	})
	require.NoError(t, err)
}

func TestIsNotFound(t *testing.T) {
	client := dbtest.New(t)
	base := NewBase(client.DB())

	var product models.Product
	err := base.DB(context.Background()).Where("id = ?", "missing").First(&product).Error
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(fmt.Errorf("load: %w", err)))
	assert.False(t, IsNotFound(nil))
}
