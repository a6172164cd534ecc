package poll_status

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/IH-CoordinationService/internal/domain"
	"github.com/m04kA/IH-CoordinationService/internal/integrations/healthapi"
)

// UseCase управляет опросами статусов оплаты. Каждый опрос - отменяемая
// фоновая задача, принадлежащая тому, кто ее запустил, а не UI:
// остановка - через Stop, контекст или достижение финального статуса.
// Реестр по идентификатору позволяет callback платежного шлюза
// досрочно обновить нужный опрос.
type UseCase struct {
	client   StatusClient
	interval time.Duration
	logger   Logger
	metrics  Metrics

	mu    sync.Mutex
	polls map[string]*Poll
}

// NewUseCase создает новый экземпляр use case.
// metrics может быть nil.
func NewUseCase(client StatusClient, interval time.Duration, logger Logger, metrics Metrics) *UseCase {
	if interval <= 0 {
		interval = domain.DefaultPollInterval
	}
	return &UseCase{
		client:   client,
		interval: interval,
		logger:   logger,
		metrics:  metrics,
		polls:    make(map[string]*Poll),
	}
}

// Poll один опрос статуса. Немедленно читает статус при запуске,
// затем перечитывает его с фиксированным интервалом, пока статус Pending.
type Poll struct {
	uc   *UseCase
	id   string
	kind IDKind

	mu       sync.RWMutex
	latest   *domain.StatusRecord
	lastErr  error
	recovery domain.RecoveryAction

	refreshCh chan struct{}
	stopCh    chan struct{}
	doneCh    chan struct{}
	stopOnce  sync.Once
}

// Start запускает опрос статуса. Первый запрос выполняется сразу же,
// до возврата управления, чтобы вызывающий получил начальную запись.
func (uc *UseCase) Start(ctx context.Context, req *Request) (*Poll, error) {
	if req.ID == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if req.Kind != KindOrder && req.Kind != KindReservation {
		return nil, fmt.Errorf("%w: unknown id kind %q", ErrInvalidInput, req.Kind)
	}

	poll := &Poll{
		uc:        uc,
		id:        req.ID,
		kind:      req.Kind,
		recovery:  domain.RecoveryNone,
		refreshCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}

	uc.mu.Lock()
	if _, exists := uc.polls[req.ID]; exists {
		uc.mu.Unlock()
		return nil, ErrAlreadyPolling
	}
	uc.polls[req.ID] = poll
	uc.mu.Unlock()

	uc.logger.Info("Start: polling id=%s kind=%s every %s", req.ID, req.Kind, uc.interval)
	if uc.metrics != nil {
		uc.metrics.PollStarted()
	}

	terminal := poll.fetch(ctx)

	go poll.run(ctx, terminal)

	return poll, nil
}

// Get возвращает активный опрос по идентификатору
func (uc *UseCase) Get(id string) (*Poll, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	poll, ok := uc.polls[id]
	if !ok {
		return nil, ErrPollNotFound
	}
	return poll, nil
}

// remove снимает опрос с реестра
func (uc *UseCase) remove(id string) {
	uc.mu.Lock()
	delete(uc.polls, id)
	uc.mu.Unlock()
}

// run цикл перечитывания статуса. Завершается по финальному статусу,
// Stop, контексту или ошибке, требующей действия пользователя.
func (p *Poll) run(ctx context.Context, terminal bool) {
	defer func() {
		p.uc.remove(p.id)
		if p.uc.metrics != nil {
			p.uc.metrics.PollStopped()
		}
		close(p.doneCh)
	}()

	if terminal {
		return
	}

	ticker := time.NewTicker(p.uc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.uc.logger.Info("run: id=%s context cancelled", p.id)
			return
		case <-p.stopCh:
			p.uc.logger.Info("run: id=%s stopped", p.id)
			return
		case <-ticker.C:
			if p.fetch(ctx) {
				return
			}
		case <-p.refreshCh:
			if p.fetch(ctx) {
				return
			}
		}
	}
}

// fetch читает статус один раз. Возвращает true, когда опрос
// нужно прекратить: финальный статус либо ошибка, требующая
// действия пользователя (оплата/продление).
func (p *Poll) fetch(ctx context.Context) bool {
	var resp *healthapi.StatusResponse
	var err error

	switch p.kind {
	case KindReservation:
		resp, err = p.uc.client.GetReservationStatus(ctx, p.id)
	default:
		resp, err = p.uc.client.GetOrderStatus(ctx, p.id)
	}

	if err != nil {
		recovery := recoveryFor(err)

		p.mu.Lock()
		p.lastErr = err
		p.recovery = recovery
		p.mu.Unlock()

		if p.uc.metrics != nil {
			p.uc.metrics.ObservePollFetch("error")
		}

		// Оплата и продление - действия пользователя; продолжать опрос
		// до них бессмысленно. Временные ошибки опрос переживает.
		if recovery == domain.RecoveryPayToActivate || recovery == domain.RecoveryRenewSubscription {
			p.uc.logger.Warn("fetch: id=%s requires user action (%s), stopping poll", p.id, recovery)
			return true
		}

		p.uc.logger.Error("fetch: id=%s transient error, will retry: %v", p.id, err)
		return false
	}

	record := resp.ToDomain(time.Now())

	p.mu.Lock()
	p.latest = record
	p.lastErr = nil
	p.recovery = domain.RecoveryNone
	p.mu.Unlock()

	if record.PaymentStatus.IsTerminal() {
		if p.uc.metrics != nil {
			p.uc.metrics.ObservePollFetch("terminal")
		}
		p.uc.logger.Info("fetch: id=%s reached terminal status %s", p.id, record.PaymentStatus)
		return true
	}

	if p.uc.metrics != nil {
		p.uc.metrics.ObservePollFetch("pending")
	}
	return false
}

// recoveryFor выводит действие восстановления из типизированной ошибки
// клиента. Тексты сообщений бекенда не участвуют в решении.
func recoveryFor(err error) domain.RecoveryAction {
	switch {
	case errors.Is(err, healthapi.ErrNotActivated):
		return domain.RecoveryPayToActivate
	case errors.Is(err, healthapi.ErrSubscriptionExpired):
		return domain.RecoveryRenewSubscription
	default:
		return domain.RecoveryRetry
	}
}

// Latest возвращает последнюю прочитанную запись статуса (или nil)
func (p *Poll) Latest() *domain.StatusRecord {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.latest == nil {
		return nil
	}
	record := *p.latest
	return &record
}

// View возвращает снимок состояния опроса
func (p *Poll) View() *StatusView {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return FromDomainRecord(p.id, p.latest, p.recovery)
}

// LastError возвращает последнюю ошибку чтения статуса
func (p *Poll) LastError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

// RecoveryAction возвращает действие, требуемое от пользователя
func (p *Poll) RecoveryAction() domain.RecoveryAction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.recovery
}

// Refresh запрашивает немедленное перечитывание статуса, не дожидаясь
// тика. Сигнал не блокирует и схлопывается с уже ожидающим.
func (p *Poll) Refresh() {
	select {
	case p.refreshCh <- struct{}{}:
	default:
	}
}

// Stop останавливает опрос. Идемпотентен.
func (p *Poll) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})
}

// Done закрывается по завершении опроса
func (p *Poll) Done() <-chan struct{} {
	return p.doneCh
}
