package cart

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/IH-CoordinationService/internal/domain"
	"github.com/m04kA/IH-CoordinationService/internal/integrations/healthapi"
	"github.com/m04kA/IH-CoordinationService/internal/service/cart/models"
	"github.com/m04kA/IH-CoordinationService/pkg/ptr"
)

type fakeCartClient struct {
	serverItems []healthapi.CartItemResponse

	getCalls    int
	addCalls    int
	updateCalls int
	removeCalls int

	failWith   error
	failStatus int
}

func (f *fakeCartClient) GetCart(ctx context.Context) ([]healthapi.CartItemResponse, error) {
	f.getCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.serverItems, nil
}

func (f *fakeCartClient) AddCartItem(ctx context.Context, req healthapi.AddCartItemRequest) (int, error) {
	f.addCalls++
	if f.failWith != nil {
		return f.failStatus, f.failWith
	}
	return http.StatusOK, nil
}

func (f *fakeCartClient) UpdateCartItem(ctx context.Context, productID int64, quantity int) (int, error) {
	f.updateCalls++
	if f.failWith != nil {
		return f.failStatus, f.failWith
	}
	return http.StatusOK, nil
}

func (f *fakeCartClient) RemoveCartItem(ctx context.Context, productID int64) (int, error) {
	f.removeCalls++
	if f.failWith != nil {
		return f.failStatus, f.failWith
	}
	return http.StatusOK, nil
}

type fakeAuth struct {
	authenticated bool
}

func (f *fakeAuth) IsAuthenticated() bool { return f.authenticated }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newTestService(client *fakeCartClient, authenticated bool) *Service {
	return NewService(client, &fakeAuth{authenticated: authenticated}, nopLogger{})
}

func TestAdd_NotAuthenticated_NoNetworkCall(t *testing.T) {
	client := &fakeCartClient{}
	svc := newTestService(client, false)

	result := svc.Add(context.Background(), &models.AddProductRequest{ProductID: 1, Quantity: 1})

	assert.False(t, result.OK)
	assert.Equal(t, http.StatusUnauthorized, result.Status)
	assert.Equal(t, msgNotAuthenticated, result.Message)
	assert.Zero(t, client.addCalls)
	assert.Zero(t, svc.TotalCount())
}

func TestAdd_DefaultQuantity(t *testing.T) {
	client := &fakeCartClient{}
	svc := newTestService(client, true)

	result := svc.Add(context.Background(), &models.AddProductRequest{ProductID: 1})

	require.True(t, result.OK)
	assert.Equal(t, 1, svc.TotalCount())
}

func TestAdd_QuantityOutOfBounds(t *testing.T) {
	client := &fakeCartClient{}
	svc := newTestService(client, true)

	result := svc.Add(context.Background(), &models.AddProductRequest{ProductID: 1, Quantity: 100})

	assert.False(t, result.OK)
	assert.Equal(t, http.StatusBadRequest, result.Status)
	assert.Zero(t, client.addCalls)
}

func TestAdd_SameProductMergesQuantity(t *testing.T) {
	client := &fakeCartClient{}
	svc := newTestService(client, true)

	svc.Add(context.Background(), &models.AddProductRequest{ProductID: 7, Name: "Vitamin D", Quantity: 2})
	svc.Add(context.Background(), &models.AddProductRequest{ProductID: 7, Name: "Vitamin D", Quantity: 3})

	snapshot := svc.Snapshot()
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, 5, snapshot.Items[0].Quantity)
	assert.Equal(t, 2, client.addCalls)
}

func TestAdd_ServerError_LocalStateUnchanged(t *testing.T) {
	client := &fakeCartClient{failWith: errors.New("boom"), failStatus: http.StatusInternalServerError}
	svc := newTestService(client, true)

	result := svc.Add(context.Background(), &models.AddProductRequest{ProductID: 1, Quantity: 2})

	assert.False(t, result.OK)
	assert.Equal(t, http.StatusInternalServerError, result.Status)
	assert.Equal(t, msgRequestFailed, result.Message)
	assert.Zero(t, svc.TotalCount())
}

func TestAdd_DiscountedTotals(t *testing.T) {
	client := &fakeCartClient{}
	svc := newTestService(client, true)

	svc.Add(context.Background(), &models.AddProductRequest{
		ProductID: 1, Price: ptr.Ptr(100.0), DiscountPrice: ptr.Ptr(80.0), Quantity: 2,
	})
	svc.Add(context.Background(), &models.AddProductRequest{
		ProductID: 2, Price: ptr.Ptr(50.0), Quantity: 1,
	})

	snapshot := svc.Snapshot()
	assert.InDelta(t, 210.0, snapshot.TotalPrice, 0.001)
	assert.InDelta(t, 250.0, snapshot.OriginalTotal, 0.001)
	assert.InDelta(t, 40.0, snapshot.TotalSavings, 0.001)
}

func TestUpdateQuantity_BelowMinimumRejected(t *testing.T) {
	client := &fakeCartClient{}
	svc := newTestService(client, true)

	result := svc.UpdateQuantity(context.Background(), 1, 0)

	assert.False(t, result.OK)
	assert.Equal(t, http.StatusBadRequest, result.Status)
	assert.Zero(t, client.updateCalls)
}

func TestUpdateQuantity_MissingLocally_Resyncs(t *testing.T) {
	client := &fakeCartClient{
		serverItems: []healthapi.CartItemResponse{
			{ProductID: 5, Name: "Blood test", Price: 50, Quantity: 3},
		},
	}
	svc := newTestService(client, true)

	result := svc.UpdateQuantity(context.Background(), 5, 3)

	require.True(t, result.OK)
	assert.Equal(t, 1, client.getCalls)
	assert.Equal(t, 3, svc.TotalCount())
}

func TestRemove_LeavesOtherItems(t *testing.T) {
	client := &fakeCartClient{}
	svc := newTestService(client, true)

	svc.Add(context.Background(), &models.AddProductRequest{ProductID: 1, Quantity: 2})
	svc.Add(context.Background(), &models.AddProductRequest{ProductID: 2, Quantity: 1})

	result := svc.Remove(context.Background(), 1)

	require.True(t, result.OK)
	snapshot := svc.Snapshot()
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, int64(2), snapshot.Items[0].ProductID)
	assert.Equal(t, 1, svc.TotalCount())
}

func TestSync_NotAuthenticated_NoNetworkCall(t *testing.T) {
	client := &fakeCartClient{}
	svc := newTestService(client, false)

	svc.Sync(context.Background())

	assert.Zero(t, client.getCalls)
}

func TestSync_ReplacesLocalItems(t *testing.T) {
	client := &fakeCartClient{
		serverItems: []healthapi.CartItemResponse{
			{ProductID: 1, Quantity: 1},
			{ProductID: 2, Quantity: 4},
		},
	}
	svc := newTestService(client, true)

	svc.Sync(context.Background())

	assert.Equal(t, 5, svc.TotalCount())
}

func TestHandleAuthChange(t *testing.T) {
	client := &fakeCartClient{
		serverItems: []healthapi.CartItemResponse{{ProductID: 1, Quantity: 2}},
	}
	auth := &fakeAuth{authenticated: true}
	svc := NewService(client, auth, nopLogger{})

	// Вход подтягивает серверную корзину
	svc.HandleAuthChange(true)
	assert.Equal(t, 1, client.getCalls)
	assert.Equal(t, 2, svc.TotalCount())

	// Выход очищает локально, без сетевого вызова
	auth.authenticated = false
	svc.HandleAuthChange(false)
	assert.Equal(t, 1, client.getCalls)
	assert.Zero(t, svc.TotalCount())
}

func TestIsPending_TracksOperationKey(t *testing.T) {
	svc := newTestService(&fakeCartClient{}, true)

	op := domain.OpKey{Kind: domain.OpAdd, ProductID: 9}
	assert.False(t, svc.IsPending(op))

	svc.setPending(op, true)
	assert.True(t, svc.IsPending(op))
	assert.True(t, svc.IsLoading())

	svc.setPending(op, false)
	assert.False(t, svc.IsPending(op))
	assert.False(t, svc.IsLoading())
}
