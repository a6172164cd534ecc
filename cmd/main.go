package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	getPollStatusHandler "github.com/m04kA/IH-CoordinationService/internal/api/handlers/get_poll_status"
	healthHandler "github.com/m04kA/IH-CoordinationService/internal/api/handlers/health"
	paymentCallbackHandler "github.com/m04kA/IH-CoordinationService/internal/api/handlers/payment_callback"
	startPollHandler "github.com/m04kA/IH-CoordinationService/internal/api/handlers/start_poll"
	"github.com/m04kA/IH-CoordinationService/internal/api/middleware"
	"github.com/m04kA/IH-CoordinationService/internal/config"
	sessionRepo "github.com/m04kA/IH-CoordinationService/internal/infra/storage/session"
	"github.com/m04kA/IH-CoordinationService/internal/integrations/healthapi"
	cartService "github.com/m04kA/IH-CoordinationService/internal/service/cart"
	sessionService "github.com/m04kA/IH-CoordinationService/internal/service/session"
	pollStatusUC "github.com/m04kA/IH-CoordinationService/internal/usecase/poll_status"
	"github.com/m04kA/IH-CoordinationService/pkg/dbmetrics"
	"github.com/m04kA/IH-CoordinationService/pkg/logger"
	"github.com/m04kA/IH-CoordinationService/pkg/metrics"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting IH-CoordinationService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных (durable-хранилище сессий)
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиент Insta Health API
	var apiMetrics healthapi.MetricsObserver
	if cfg.Metrics.Enabled {
		apiMetrics = metricsCollector
	}
	apiClient := healthapi.NewClient(
		cfg.HealthAPI.URL,
		time.Duration(cfg.HealthAPI.Timeout)*time.Second,
		log,
		apiMetrics,
	)
	log.Info("Insta Health API client initialized (url=%s, timeout=%ds)",
		cfg.HealthAPI.URL, cfg.HealthAPI.Timeout)

	// Инициализируем репозиторий сессий (с метриками или без)
	var sessionRepository *sessionRepo.Repository
	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
		sessionRepository = sessionRepo.NewRepository(wrappedDB)
	} else {
		sessionRepository = sessionRepo.NewRepository(db)
	}

	// Контекст приложения: живёт до начала graceful shutdown,
	// его отмена останавливает фоновые опросы статусов
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// Инициализируем сервисы
	sessionSvc := sessionService.NewService(
		sessionRepository,
		apiClient,
		cfg.Session.ProfileID,
		log,
	)
	cartSvc := cartService.NewService(
		apiClient,
		sessionSvc,
		log,
	)
	sessionSvc.OnAuthChange(cartSvc.HandleAuthChange)

	// Восстанавливаем durable-сессию прошлого запуска
	if err := sessionSvc.Restore(appCtx); err != nil {
		log.Warn("Failed to restore durable session: %v", err)
	}
	if sessionSvc.IsAuthenticated() {
		cartSvc.Sync(appCtx)
		log.Info("Session restored, cart synced for profile=%s", cfg.Session.ProfileID)
	}

	// Инициализируем use cases
	var pollMetrics pollStatusUC.Metrics
	if cfg.Metrics.Enabled {
		pollMetrics = metricsCollector
	}
	pollStatusUseCase := pollStatusUC.NewUseCase(
		apiClient,
		time.Duration(cfg.Poller.IntervalSeconds)*time.Second,
		log,
		pollMetrics,
	)

	// Инициализируем handlers
	startPoll := startPollHandler.NewHandler(pollStatusUseCase, appCtx, log)
	getPollStatus := getPollStatusHandler.NewHandler(pollStatusUseCase, log)
	paymentCallback := paymentCallbackHandler.NewHandler(pollStatusUseCase, log)
	health := healthHandler.NewHandler(db, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Health endpoint
	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// Запуск опроса статуса оплаты
	api.HandleFunc("/status-polls", startPoll.Handle).Methods(http.MethodPost)

	// Текущее состояние опроса
	api.HandleFunc("/status-polls/{pollId}", getPollStatus.Handle).Methods(http.MethodGet)

	// Возврат с платёжного шлюза
	api.HandleFunc("/payments/callback", paymentCallback.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновые опросы статусов
	appCancel()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
