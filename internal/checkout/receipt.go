package checkout

import (
	"time"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

// StatusCompleted is the only status a receipt is issued with.
const StatusCompleted = "completed"

// CustomerInfo identifies the buyer on a receipt.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ReceiptItem is a cart line frozen at checkout time.
type ReceiptItem struct {
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	Price     types.Money `json:"price"`
	Quantity  int         `json:"quantity"`
	LineTotal types.Money `json:"lineTotal"`
}

// Receipt is returned by a successful checkout. It is not persisted.
type Receipt struct {
	OrderID      string        `json:"orderId"`
	CustomerInfo CustomerInfo  `json:"customerInfo"`
	Items        []ReceiptItem `json:"items"`
	Total        types.Money   `json:"total"`
	ItemCount    int           `json:"itemCount"`
	Timestamp    time.Time     `json:"timestamp"`
	Status       string        `json:"status"`
}

func receiptItems(lines []cart.Line) []ReceiptItem {
	items := make([]ReceiptItem, len(lines))
	for i, line := range lines {
		items[i] = ReceiptItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     types.NewMoney(line.Price),
			Quantity:  line.Quantity,
			LineTotal: types.NewMoney(line.LineTotal()),
		}
	}
	return items
}
