package cart

import (
	"context"

	"github.com/m04kA/IH-CoordinationService/internal/integrations/healthapi"
)

// CartClient интерфейс клиента корзины Insta Health API
type CartClient interface {
	GetCart(ctx context.Context) ([]healthapi.CartItemResponse, error)
	AddCartItem(ctx context.Context, req healthapi.AddCartItemRequest) (int, error)
	UpdateCartItem(ctx context.Context, productID int64, quantity int) (int, error)
	RemoveCartItem(ctx context.Context, productID int64) (int, error)
}

// AuthState интерфейс чтения состояния аутентификации.
// Аутентификация гейтит все мутирующие операции корзины.
type AuthState interface {
	IsAuthenticated() bool
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
