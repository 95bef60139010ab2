package cart

import (
	"math"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Line is a cart line joined with the product it references.
type Line struct {
	ID        string          `gorm:"column:id"`
	ProductID string          `gorm:"column:product_id"`
	Quantity  int             `gorm:"column:quantity"`
	AddedAt   time.Time       `gorm:"column:added_at"`
	Name      string          `gorm:"column:name"`
	Price     decimal.Decimal `gorm:"column:price"`
	Image     string          `gorm:"column:image"`
}

// LineTotal is price times quantity, unrounded.
func (l Line) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineView is the wire representation of a cart line.
type LineView struct {
	ID        string      `json:"id"`
	ProductID string      `json:"productId"`
	Quantity  int         `json:"quantity"`
	Name      string      `json:"name"`
	Price     types.Money `json:"price"`
	Image     string      `json:"image"`
	AddedAt   time.Time   `json:"addedAt"`
}

// View is the cart as returned to clients.
type View struct {
	Items     []LineView  `json:"items"`
	Total     types.Money `json:"total"`
	ItemCount int         `json:"itemCount"`
}

// Summarize returns the cart total rounded to cents and the sum of quantities.
// The count saturates at math.MaxInt rather than wrapping.
func Summarize(lines []Line) (decimal.Decimal, int) {
	total := decimal.Zero
	count := 0
	for _, line := range lines {
		total = total.Add(line.LineTotal())
		if count > math.MaxInt-line.Quantity {
			count = math.MaxInt
			continue
		}
		count += line.Quantity
	}
	return total.Round(2), count
}

func buildView(lines []Line) *View {
	total, count := Summarize(lines)
	items := make([]LineView, len(lines))
	for i, line := range lines {
		items[i] = LineView{
			ID:        line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Name:      line.Name,
			Price:     types.NewMoney(line.Price),
			Image:     line.Image,
			AddedAt:   line.AddedAt.UTC(),
		}
	}
	return &View{Items: items, Total: types.NewMoney(total), ItemCount: count}
}
