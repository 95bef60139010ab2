package product

import (
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

// ProductDTO is the catalog payload returned to clients.
type ProductDTO struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Price       types.Money `json:"price"`
	Image       string      `json:"image"`
	Description string      `json:"description"`
}

func toProductDTO(p models.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Price:       types.NewMoney(p.Price),
		Image:       p.Image,
		Description: p.Description,
	}
}
