package healthapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// MetricsObserver интерфейс сбора метрик исходящих запросов.
// Может быть nil - тогда метрики не собираются.
type MetricsObserver interface {
	ObserveAPIRequest(endpoint, method string, status int, duration time.Duration)
}

// Client клиент Insta Health REST API.
// Все ответы приходят в envelope {success, data, message}; списки -
// в форме {items, count, pageIndex, pageSize}. Клиент держит cookie jar,
// чтобы refresh-эндпоинт получал свои cookie-креденшалы, и подставляет
// Authorization: Bearer после установки токена.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
	metrics    MetricsObserver

	mu    sync.RWMutex
	token string
}

// NewClient создает новый экземпляр клиента Insta Health API.
// metrics может быть nil.
func NewClient(baseURL string, timeout time.Duration, log Logger, metrics MetricsObserver) *Client {
	// Ошибка возможна только при невалидных PublicSuffixList options,
	// которых здесь нет
	jar, _ := cookiejar.New(nil)

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		log:     log,
		metrics: metrics,
	}
}

// SetToken устанавливает access-токен для последующих запросов
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken сбрасывает access-токен
func (c *Client) ClearToken() {
	c.SetToken("")
}

// currentToken возвращает установленный токен
func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// envelope общий формат ответа бекенда
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// pageData формат пагинированного списка внутри envelope.data
type pageData struct {
	Items     json.RawMessage `json:"items"`
	Count     int             `json:"count"`
	PageIndex int             `json:"pageIndex"`
	PageSize  int             `json:"pageSize"`
}

// doJSON выполняет запрос с JSON телом (body может быть nil) и декодирует
// envelope.data в out (out может быть nil). Возвращает HTTP статус.
// endpoint - логическое имя группы эндпоинтов для метрик.
func (c *Client) doJSON(ctx context.Context, method, endpoint, path string, body interface{}, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("%w: failed to encode request body: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(encoded)
	}

	return c.do(ctx, method, endpoint, path, reader, "application/json", out)
}

// do выполняет запрос и декодирует envelope.data в out.
// Возвращает HTTP статус; для не-2xx статусов возвращает
// соответствующую sentinel-ошибку.
func (c *Client) do(ctx context.Context, method, endpoint, path string, body io.Reader, contentType string, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.metrics != nil {
			c.metrics.ObserveAPIRequest(endpoint, method, 0, time.Since(start))
		}
		return 0, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if c.metrics != nil {
		c.metrics.ObserveAPIRequest(endpoint, method, resp.StatusCode, time.Since(start))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, c.statusError(resp)
	}

	if out == nil {
		// Тело не интересует, но вычитываем его, чтобы переиспользовать соединение
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: failed to decode envelope: %v", ErrInvalidResponse, err)
	}

	if !env.Success {
		return resp.StatusCode, fmt.Errorf("%w: %s", ErrRejected, env.Message)
	}

	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("%w: failed to decode data: %v", ErrInvalidResponse, err)
		}
	}

	return resp.StatusCode, nil
}

// doPaginated выполняет GET пагинированного списка и декодирует
// data.items в out
func (c *Client) doPaginated(ctx context.Context, endpoint, path string, out interface{}) (int, error) {
	var page pageData
	status, err := c.doJSON(ctx, http.MethodGet, endpoint, path, nil, &page)
	if err != nil {
		return status, err
	}

	if len(page.Items) > 0 {
		if err := json.Unmarshal(page.Items, out); err != nil {
			return status, fmt.Errorf("%w: failed to decode items: %v", ErrInvalidResponse, err)
		}
	}

	return status, nil
}

// statusError конвертирует не-2xx ответ в sentinel-ошибку.
// Текст сообщения бекенда добавляется в ошибку только для диагностики,
// решения по нему не принимаются.
func (c *Client) statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var env envelope
	message := ""
	if err := json.Unmarshal(raw, &env); err == nil {
		message = env.Message
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, message)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	default:
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}
}
