package healthapi

import (
	"context"
	"fmt"
	"net/http"
)

// GetCart получает серверную корзину пользователя
func (c *Client) GetCart(ctx context.Context) ([]CartItemResponse, error) {
	var items []CartItemResponse
	if _, err := c.doJSON(ctx, http.MethodGet, "/Carts", "/Carts", nil, &items); err != nil {
		c.log.Error("GetCart: request failed: %v", err)
		return nil, err
	}
	return items, nil
}

// AddCartItem добавляет позицию в серверную корзину.
// Возвращает HTTP статус ответа - Cart Store передает его вызывающим
// в едином формате результата.
func (c *Client) AddCartItem(ctx context.Context, req AddCartItemRequest) (int, error) {
	status, err := c.doJSON(ctx, http.MethodPost, "/Carts", "/Carts", req, nil)
	if err != nil {
		c.log.Error("AddCartItem: request failed for product=%d: %v", req.ProductID, err)
		return status, err
	}
	return status, nil
}

// UpdateCartItem устанавливает количество у позиции серверной корзины
func (c *Client) UpdateCartItem(ctx context.Context, productID int64, quantity int) (int, error) {
	path := fmt.Sprintf("/Carts/%d", productID)
	status, err := c.doJSON(ctx, http.MethodPut, "/Carts", path, UpdateCartItemRequest{Quantity: quantity}, nil)
	if err != nil {
		c.log.Error("UpdateCartItem: request failed for product=%d: %v", productID, err)
		return status, err
	}
	return status, nil
}

// RemoveCartItem удаляет позицию из серверной корзины
func (c *Client) RemoveCartItem(ctx context.Context, productID int64) (int, error) {
	path := fmt.Sprintf("/Carts/%d", productID)
	status, err := c.doJSON(ctx, http.MethodDelete, "/Carts", path, nil, nil)
	if err != nil {
		c.log.Error("RemoveCartItem: request failed for product=%d: %v", productID, err)
		return status, err
	}
	return status, nil
}
