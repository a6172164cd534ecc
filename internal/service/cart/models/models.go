package models

import "github.com/m04kA/IH-CoordinationService/internal/domain"

// AddProductRequest товар, добавляемый в корзину.
// Опциональные поля включаются в серверный payload только при наличии.
type AddProductRequest struct {
	ProductID     int64    `json:"productId"`
	Name          string   `json:"name,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
	Quantity      int      `json:"quantity"`
}

// Result единый результат мутирующей операции корзины.
// Вызывающие ветвятся по OK/Status без обработки исключений.
type Result struct {
	OK      bool   `json:"ok"`
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
}

// ItemResponse позиция корзины
type ItemResponse struct {
	ProductID     int64    `json:"productId"`
	Name          string   `json:"name"`
	ImageURL      string   `json:"imageUrl"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
	Quantity      int      `json:"quantity"`
}

// CartResponse снимок корзины с производными итогами
type CartResponse struct {
	Items         []ItemResponse `json:"items"`
	TotalCount    int            `json:"totalCount"`
	TotalPrice    float64        `json:"totalPrice"`
	OriginalTotal float64        `json:"originalTotal"`
	TotalSavings  float64        `json:"totalSavings"`
}

// FromDomainCart конвертирует domain корзину в DTO
func FromDomainCart(c *domain.Cart) *CartResponse {
	items := make([]ItemResponse, len(c.Items))
	for i, item := range c.Items {
		items[i] = ItemResponse{
			ProductID:     item.ProductID,
			Name:          item.Name,
			ImageURL:      item.ImageURL,
			Price:         item.Price,
			DiscountPrice: item.DiscountPrice,
			Quantity:      item.Quantity,
		}
	}

	return &CartResponse{
		Items:         items,
		TotalCount:    c.TotalCount(),
		TotalPrice:    c.TotalPrice(),
		OriginalTotal: c.OriginalTotal(),
		TotalSavings:  c.TotalSavings(),
	}
}
