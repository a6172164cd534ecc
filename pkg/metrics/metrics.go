package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus метрик сервиса.
// Покрывает входящий HTTP, исходящие вызовы Insta Health API,
// активность поллеров статусов и пул соединений БД.
type Metrics struct {
	service string

	// Входящий HTTP (callback-сервер)
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Исходящие вызовы API
	apiRequestsTotal   *prometheus.CounterVec
	apiRequestDuration *prometheus.HistogramVec

	// Поллеры статусов
	pollsActive      prometheus.Gauge
	pollFetchesTotal *prometheus.CounterVec

	// Пул соединений БД
	dbQueriesTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec
	dbConnsOpen     prometheus.Gauge
	dbConnsInUse    prometheus.Gauge
	dbConnsIdle     prometheus.Gauge
}

// New создает и регистрирует метрики в default registry
func New(service string) *Metrics {
	labels := prometheus.Labels{"service": service}

	return &Metrics{
		service: service,

		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of inbound HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "Inbound HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		apiRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "healthapi_requests_total",
			Help:        "Total number of outbound Insta Health API requests",
			ConstLabels: labels,
		}, []string{"endpoint", "method", "status"}),

		apiRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "healthapi_request_duration_seconds",
			Help:        "Outbound Insta Health API request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"endpoint", "method"}),

		pollsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "status_polls_active",
			Help:        "Number of currently running payment status polls",
			ConstLabels: labels,
		}),

		pollFetchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "status_poll_fetches_total",
			Help:        "Total number of status fetches issued by pollers",
			ConstLabels: labels,
		}, []string{"result"}),

		dbQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: labels,
		}, []string{"operation", "status"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"operation"}),

		dbConnsOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_open",
			Help:        "Number of open database connections",
			ConstLabels: labels,
		}),

		dbConnsInUse: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_in_use",
			Help:        "Number of database connections currently in use",
			ConstLabels: labels,
		}),

		dbConnsIdle: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_idle",
			Help:        "Number of idle database connections",
			ConstLabels: labels,
		}),
	}
}

// ObserveHTTPRequest фиксирует входящий HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveAPIRequest фиксирует исходящий вызов Insta Health API.
// endpoint - логическое имя группы эндпоинтов ("/Carts", "/Accounts", ...),
// а не конкретный URL, чтобы не раздувать кардинальность.
func (m *Metrics) ObserveAPIRequest(endpoint, method string, status int, duration time.Duration) {
	m.apiRequestsTotal.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
	m.apiRequestDuration.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

// PollStarted фиксирует запуск поллера
func (m *Metrics) PollStarted() {
	m.pollsActive.Inc()
}

// PollStopped фиксирует остановку поллера
func (m *Metrics) PollStopped() {
	m.pollsActive.Dec()
}

// ObservePollFetch фиксирует одну итерацию опроса статуса.
// result: "pending" | "terminal" | "error"
func (m *Metrics) ObservePollFetch(result string) {
	m.pollFetchesTotal.WithLabelValues(result).Inc()
}

// ObserveDBQuery фиксирует выполнение запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dbQueriesTotal.WithLabelValues(operation, status).Inc()
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBConnStats обновляет gauge-метрики пула соединений
func (m *Metrics) SetDBConnStats(open, inUse, idle int) {
	m.dbConnsOpen.Set(float64(open))
	m.dbConnsInUse.Set(float64(inUse))
	m.dbConnsIdle.Set(float64(idle))
}
