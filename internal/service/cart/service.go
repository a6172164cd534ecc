package cart

import (
	"context"
	"net/http"
	"sync"

	"github.com/m04kA/IH-CoordinationService/internal/domain"
	"github.com/m04kA/IH-CoordinationService/internal/integrations/healthapi"
	"github.com/m04kA/IH-CoordinationService/internal/service/cart/models"
)

const (
	msgNotAuthenticated = "sign in to manage the cart"
	msgInvalidQuantity  = "quantity must be between 1 and 99"
	msgItemNotFound     = "item is not in the cart"
	msgRequestFailed    = "cart request failed"
)

// Service локальное зеркало серверной корзины.
// Мутации идут на сервер, локальное состояние применяется только после
// успешного (2xx) ответа. Мутации одной позиции сериализуются per-product
// локом; операции над разными позициями выполняются параллельно.
type Service struct {
	client CartClient
	auth   AuthState
	logger Logger

	mu      sync.RWMutex
	cart    domain.Cart
	loading bool

	pendingMu    sync.Mutex
	pending      map[domain.OpKey]bool
	productLocks map[int64]*sync.Mutex
}

// NewService создает новый экземпляр сервиса корзины
func NewService(client CartClient, auth AuthState, logger Logger) *Service {
	return &Service{
		client:       client,
		auth:         auth,
		logger:       logger,
		pending:      make(map[domain.OpKey]bool),
		productLocks: make(map[int64]*sync.Mutex),
	}
}

// Sync замещает локальную корзину серверной.
// Без аутентификации - no-op. Ошибки логируются и не возвращаются:
// устаревшее зеркало лучше, чем сломанный вызывающий.
func (s *Service) Sync(ctx context.Context) {
	if !s.auth.IsAuthenticated() {
		return
	}

	op := domain.OpKey{Kind: domain.OpSync}
	s.setPending(op, true)
	defer s.setPending(op, false)

	items, err := s.client.GetCart(ctx)
	if err != nil {
		s.logger.Error("Sync: failed to fetch server cart: %v", err)
		return
	}

	s.mu.Lock()
	s.cart.Items = make([]domain.CartItem, len(items))
	for i, item := range items {
		s.cart.Items[i] = item.ToDomain()
	}
	s.mu.Unlock()

	s.logger.Info("Sync: cart replaced with %d server items", len(items))
}

// Add добавляет товар в корзину. Без аутентификации сетевой вызов
// не выполняется и возвращается {ok:false, status:401} - это бизнес-правило,
// а не сетевой сбой. При успехе позиция сливается в локальное состояние:
// совпадение по ProductID суммирует количество.
func (s *Service) Add(ctx context.Context, req *models.AddProductRequest) models.Result {
	if !s.auth.IsAuthenticated() {
		s.logger.Warn("Add: rejected for product=%d: not authenticated", req.ProductID)
		return models.Result{OK: false, Status: http.StatusUnauthorized, Message: msgNotAuthenticated}
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = domain.DefaultQuantity
	}
	if quantity < domain.MinQuantity || quantity > domain.MaxQuantity {
		return models.Result{OK: false, Status: http.StatusBadRequest, Message: msgInvalidQuantity}
	}

	op := domain.OpKey{Kind: domain.OpAdd, ProductID: req.ProductID}
	s.setPending(op, true)
	defer s.setPending(op, false)

	unlock := s.lockProduct(req.ProductID)
	defer unlock()

	payload := healthapi.AddCartItemRequest{
		ProductID:     req.ProductID,
		Quantity:      quantity,
		Name:          req.Name,
		ImageURL:      req.ImageURL,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
	}

	status, err := s.client.AddCartItem(ctx, payload)
	if err != nil {
		s.logger.Error("Add: request failed for product=%d: %v", req.ProductID, err)
		return models.Result{OK: false, Status: status, Message: msgRequestFailed}
	}

	item := domain.CartItem{
		ProductID:     req.ProductID,
		Name:          req.Name,
		ImageURL:      req.ImageURL,
		Quantity:      quantity,
		DiscountPrice: req.DiscountPrice,
	}
	if req.Price != nil {
		item.Price = *req.Price
	}

	s.mu.Lock()
	s.cart.Merge(item)
	s.mu.Unlock()

	s.logger.Info("Add: product=%d quantity=%d merged into cart", req.ProductID, quantity)
	return models.Result{OK: true, Status: status}
}

// UpdateQuantity устанавливает количество у позиции.
// Количество меньше 1 отклоняется до сетевого вызова.
func (s *Service) UpdateQuantity(ctx context.Context, productID int64, quantity int) models.Result {
	if !s.auth.IsAuthenticated() {
		s.logger.Warn("UpdateQuantity: rejected for product=%d: not authenticated", productID)
		return models.Result{OK: false, Status: http.StatusUnauthorized, Message: msgNotAuthenticated}
	}

	if quantity < domain.MinQuantity || quantity > domain.MaxQuantity {
		return models.Result{OK: false, Status: http.StatusBadRequest, Message: msgInvalidQuantity}
	}

	op := domain.OpKey{Kind: domain.OpUpdate, ProductID: productID}
	s.setPending(op, true)
	defer s.setPending(op, false)

	unlock := s.lockProduct(productID)
	defer unlock()

	status, err := s.client.UpdateCartItem(ctx, productID, quantity)
	if err != nil {
		s.logger.Error("UpdateQuantity: request failed for product=%d: %v", productID, err)
		return models.Result{OK: false, Status: status, Message: msgRequestFailed}
	}

	s.mu.Lock()
	updated := s.cart.SetQuantity(productID, quantity)
	s.mu.Unlock()

	if !updated {
		// Сервер принял обновление позиции, которой нет в зеркале -
		// зеркало устарело, подтягиваем его заново
		s.logger.Warn("UpdateQuantity: product=%d missing locally, resyncing", productID)
		s.Sync(ctx)
	}

	s.logger.Info("UpdateQuantity: product=%d set to quantity=%d", productID, quantity)
	return models.Result{OK: true, Status: status}
}

// Remove удаляет позицию из корзины
func (s *Service) Remove(ctx context.Context, productID int64) models.Result {
	if !s.auth.IsAuthenticated() {
		s.logger.Warn("Remove: rejected for product=%d: not authenticated", productID)
		return models.Result{OK: false, Status: http.StatusUnauthorized, Message: msgNotAuthenticated}
	}

	op := domain.OpKey{Kind: domain.OpRemove, ProductID: productID}
	s.setPending(op, true)
	defer s.setPending(op, false)

	unlock := s.lockProduct(productID)
	defer unlock()

	status, err := s.client.RemoveCartItem(ctx, productID)
	if err != nil {
		s.logger.Error("Remove: request failed for product=%d: %v", productID, err)
		return models.Result{OK: false, Status: status, Message: msgRequestFailed}
	}

	s.mu.Lock()
	s.cart.RemoveItem(productID)
	s.mu.Unlock()

	s.logger.Info("Remove: product=%d removed from cart", productID)
	return models.Result{OK: true, Status: status}
}

// Snapshot возвращает снимок корзины с производными итогами
func (s *Service) Snapshot() *models.CartResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.FromDomainCart(&s.cart)
}

// TotalCount возвращает суммарное количество единиц в корзине
func (s *Service) TotalCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.TotalCount()
}

// IsPending возвращает true, если операция с этим ключом выполняется.
// Позволяет вызывающим блокировать только затронутую позицию,
// а не всю корзину.
func (s *Service) IsPending(op domain.OpKey) bool {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	return s.pending[op]
}

// IsLoading возвращает общий флаг загрузки хранилища
func (s *Service) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// HandleAuthChange реакция на переход аутентификации:
// вход подтягивает серверную корзину, выход немедленно очищает
// локальную без сетевого вызова.
func (s *Service) HandleAuthChange(authenticated bool) {
	if authenticated {
		s.Sync(context.Background())
		return
	}

	s.mu.Lock()
	s.cart.Clear()
	s.mu.Unlock()
	s.logger.Info("HandleAuthChange: cart cleared on logout")
}

// setPending отмечает начало/конец операции и поддерживает общий флаг
func (s *Service) setPending(op domain.OpKey, pending bool) {
	s.pendingMu.Lock()
	if pending {
		s.pending[op] = true
	} else {
		delete(s.pending, op)
	}
	anyPending := len(s.pending) > 0
	s.pendingMu.Unlock()

	s.mu.Lock()
	s.loading = anyPending
	s.mu.Unlock()
}

// lockProduct сериализует мутации одной позиции.
// Возвращает функцию разблокировки.
func (s *Service) lockProduct(productID int64) func() {
	s.pendingMu.Lock()
	lock, ok := s.productLocks[productID]
	if !ok {
		lock = &sync.Mutex{}
		s.productLocks[productID] = lock
	}
	s.pendingMu.Unlock()

	lock.Lock()
	return lock.Unlock
}
