package healthapi

import (
	"context"
	"net/http"
	"net/url"
)

// GetOrderStatus получает статус заказа по merchantOrderId.
// Коды 400 и 401 на статусных эндпоинтах несут бизнес-смысл:
// 400 - подписка не активирована (нужна оплата),
// 401 - подписка истекла (нужно продление).
// Решение принимается по коду, текст сообщения игнорируется.
func (c *Client) GetOrderStatus(ctx context.Context, merchantOrderID string) (*StatusResponse, error) {
	path := "/Orders/Status?merchantOrderId=" + url.QueryEscape(merchantOrderID)
	return c.getStatus(ctx, "/Orders", path, merchantOrderID)
}

// GetReservationStatus получает статус резервации по ее номеру
func (c *Client) GetReservationStatus(ctx context.Context, reservationNumber string) (*StatusResponse, error) {
	path := "/ServicesReservations/Status?reservationNumber=" + url.QueryEscape(reservationNumber)
	return c.getStatus(ctx, "/ServicesReservations", path, reservationNumber)
}

// getStatus общий код статусных эндпоинтов
func (c *Client) getStatus(ctx context.Context, endpoint, path, id string) (*StatusResponse, error) {
	var record StatusResponse
	status, err := c.doJSON(ctx, http.MethodGet, endpoint, path, nil, &record)
	if err != nil {
		switch status {
		case http.StatusBadRequest:
			c.log.Warn("getStatus: id=%s not yet activated", id)
			return nil, ErrNotActivated
		case http.StatusUnauthorized:
			c.log.Warn("getStatus: id=%s subscription expired", id)
			return nil, ErrSubscriptionExpired
		default:
			c.log.Error("getStatus: request failed for id=%s: %v", id, err)
			return nil, err
		}
	}
	return &record, nil
}
