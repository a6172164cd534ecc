package poll_status

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/IH-CoordinationService/internal/domain"
	"github.com/m04kA/IH-CoordinationService/internal/integrations/healthapi"
)

type fakeStatusClient struct {
	mu         sync.Mutex
	orderResp  *healthapi.StatusResponse
	orderErr   error
	orderCalls int
	resCalls   int
}

func (f *fakeStatusClient) setOrder(resp *healthapi.StatusResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orderResp = resp
	f.orderErr = err
}

func (f *fakeStatusClient) GetOrderStatus(ctx context.Context, merchantOrderID string) (*healthapi.StatusResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orderCalls++
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return f.orderResp, nil
}

func (f *fakeStatusClient) GetReservationStatus(ctx context.Context, reservationNumber string) (*healthapi.StatusResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resCalls++
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return f.orderResp, nil
}

func (f *fakeStatusClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orderCalls
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func pendingResp() *healthapi.StatusResponse {
	return &healthapi.StatusResponse{
		MerchantOrderID: "MO-1",
		PaymentStatus:   "Pending",
		Amount:          250,
		PaymentURL:      "https://gateway.example.com/pay/MO-1",
	}
}

func paidResp() *healthapi.StatusResponse {
	return &healthapi.StatusResponse{
		MerchantOrderID: "MO-1",
		PaymentStatus:   "Paid",
		Amount:          250,
	}
}

func waitDone(t *testing.T, poll *Poll) {
	t.Helper()
	select {
	case <-poll.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("poll did not finish in time")
	}
}

func TestStart_InvalidInput(t *testing.T) {
	uc := NewUseCase(&fakeStatusClient{}, 10*time.Millisecond, nopLogger{}, nil)

	_, err := uc.Start(context.Background(), &Request{Kind: KindOrder, ID: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Start(context.Background(), &Request{Kind: IDKind("unknown"), ID: "MO-1"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStart_ImmediateFetch(t *testing.T) {
	client := &fakeStatusClient{orderResp: pendingResp()}
	uc := NewUseCase(client, time.Hour, nopLogger{}, nil)

	poll, err := uc.Start(context.Background(), &Request{Kind: KindOrder, ID: "MO-1"})
	require.NoError(t, err)
	defer poll.Stop()

	// Первый запрос выполняется до возврата из Start
	require.Equal(t, 1, client.calls())
	latest := poll.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, domain.PaymentPending, latest.PaymentStatus)
	assert.Equal(t, "https://gateway.example.com/pay/MO-1", latest.PaymentURL)
}

func TestStart_DuplicateID(t *testing.T) {
	client := &fakeStatusClient{orderResp: pendingResp()}
	uc := NewUseCase(client, time.Hour, nopLogger{}, nil)

	poll, err := uc.Start(context.Background(), &Request{Kind: KindOrder, ID: "MO-1"})
	require.NoError(t, err)
	defer poll.Stop()

	_, err = uc.Start(context.Background(), &Request{Kind: KindOrder, ID: "MO-1"})
	assert.ErrorIs(t, err, ErrAlreadyPolling)
}

func TestPoll_PendingRefetchedUntilTerminal(t *testing.T) {
	client := &fakeStatusClient{orderResp: pendingResp()}
	uc := NewUseCase(client, 10*time.Millisecond, nopLogger{}, nil)

	poll, err := uc.Start(context.Background(), &Request{Kind: KindOrder, ID: "MO-1"})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return client.calls() >= 3 },
		time.Second, 5*time.Millisecond, "pending status keeps the poll alive")

	client.setOrder(paidResp(), nil)
	waitDone(t, poll)

	latest := poll.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, domain.PaymentPaid, latest.PaymentStatus)

	// Финальный статус снимает опрос с реестра
	_, err = uc.Get("MO-1")
	assert.ErrorIs(t, err, ErrPollNotFound)

	// И прекращает запросы
	stopped := client.calls()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, client.calls())
}

func TestPoll_TerminalOnFirstFetch(t *testing.T) {
	client := &fakeStatusClient{orderResp: paidResp()}
	uc := NewUseCase(client, 10*time.Millisecond, nopLogger{}, nil)

	poll, err := uc.Start(context.Background(), &Request{Kind: KindOrder, ID: "MO-1"})
	require.NoError(t, err)

	waitDone(t, poll)
	assert.Equal(t, 1, client.calls())
}

func TestPoll_RefreshForcesEarlyFetch(t *testing.T) {
	client := &fakeStatusClient{orderResp: pendingResp()}
	uc := NewUseCase(client, time.Hour, nopLogger{}, nil)

	poll, err := uc.Start(context.Background(), &Request{Kind: KindOrder, ID: "MO-1"})
	require.NoError(t, err)
	defer poll.Stop()

	require.Equal(t, 1, client.calls())

	poll.Refresh()

	require.Eventually(t, func() bool { return client.calls() >= 2 },
		time.Second, 5*time.Millisecond, "refresh bypasses the ticker")
}

func TestPoll_TransientErrorKeepsPolling(t *testing.T) {
	client := &fakeStatusClient{orderErr: errors.New("connection refused")}
	uc := NewUseCase(client, 10*time.Millisecond, nopLogger{}, nil)

	poll, err := uc.Start(context.Background(), &Request{Kind: KindOrder, ID: "MO-1"})
	require.NoError(t, err)
	defer poll.Stop()

	assert.Equal(t, domain.RecoveryRetry, poll.RecoveryAction())
	assert.Error(t, poll.LastError())

	require.Eventually(t, func() bool { return client.calls() >= 3 },
		time.Second, 5*time.Millisecond, "transient errors do not stop the poll")
}

func TestPoll_NotActivatedStopsWithPayAction(t *testing.T) {
	client := &fakeStatusClient{orderErr: healthapi.ErrNotActivated}
	uc := NewUseCase(client, 10*time.Millisecond, nopLogger{}, nil)

	poll, err := uc.Start(context.Background(), &Request{Kind: KindOrder, ID: "MO-1"})
	require.NoError(t, err)

	waitDone(t, poll)
	assert.Equal(t, domain.RecoveryPayToActivate, poll.RecoveryAction())
	assert.Equal(t, 1, client.calls())
}

func TestPoll_SubscriptionExpiredStopsWithRenewAction(t *testing.T) {
	client := &fakeStatusClient{orderErr: healthapi.ErrSubscriptionExpired}
	uc := NewUseCase(client, 10*time.Millisecond, nopLogger{}, nil)

	poll, err := uc.Start(context.Background(), &Request{Kind: KindOrder, ID: "MO-1"})
	require.NoError(t, err)

	waitDone(t, poll)
	assert.Equal(t, domain.RecoveryRenewSubscription, poll.RecoveryAction())
}

func TestPoll_StopIsIdempotent(t *testing.T) {
	client := &fakeStatusClient{orderResp: pendingResp()}
	uc := NewUseCase(client, time.Hour, nopLogger{}, nil)

	poll, err := uc.Start(context.Background(), &Request{Kind: KindOrder, ID: "MO-1"})
	require.NoError(t, err)

	poll.Stop()
	poll.Stop()
	waitDone(t, poll)

	_, err = uc.Get("MO-1")
	assert.ErrorIs(t, err, ErrPollNotFound)
}

func TestPoll_ContextCancelStopsPoll(t *testing.T) {
	client := &fakeStatusClient{orderResp: pendingResp()}
	uc := NewUseCase(client, time.Hour, nopLogger{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	poll, err := uc.Start(ctx, &Request{Kind: KindOrder, ID: "MO-1"})
	require.NoError(t, err)

	cancel()
	waitDone(t, poll)
}

func TestPoll_ReservationKindUsesReservationEndpoint(t *testing.T) {
	client := &fakeStatusClient{orderResp: pendingResp()}
	uc := NewUseCase(client, time.Hour, nopLogger{}, nil)

	poll, err := uc.Start(context.Background(), &Request{Kind: KindReservation, ID: "RSV-1"})
	require.NoError(t, err)
	defer poll.Stop()

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Equal(t, 1, client.resCalls)
	assert.Zero(t, client.orderCalls)
}

func TestView_ReflectsLatestRecord(t *testing.T) {
	client := &fakeStatusClient{orderResp: pendingResp()}
	uc := NewUseCase(client, time.Hour, nopLogger{}, nil)

	poll, err := uc.Start(context.Background(), &Request{Kind: KindOrder, ID: "MO-1"})
	require.NoError(t, err)
	defer poll.Stop()

	view := poll.View()
	require.NotNil(t, view)
	assert.Equal(t, "MO-1", view.ID)
	assert.Equal(t, "Pending", view.PaymentStatus)
	assert.False(t, view.Terminal)
	assert.Equal(t, domain.RecoveryNone, view.RecoveryAction)
}
