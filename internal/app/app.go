package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"

	"github.com/aidar/wfm-roster/internal/config"
	"github.com/aidar/wfm-roster/internal/events"
	"github.com/aidar/wfm-roster/internal/middleware"
	"github.com/aidar/wfm-roster/internal/repository/postgres"
	"github.com/aidar/wfm-roster/internal/service"
	"github.com/aidar/wfm-roster/migrations"
)

// App представляет приложение со всеми зависимостями
type App struct {
	config    *config.Config
	db        *pgxpool.Pool
	server    *http.Server
	logger    zerolog.Logger
	publisher service.EventPublisher
	kafka     *events.KafkaPublisher
	services  *Services
}

// New создает новый экземпляр приложения
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	app := &App{
		config:    cfg,
		logger:    NewLogger(cfg.Log),
		publisher: events.NopPublisher{},
	}

	return app, nil
}

// Logger возвращает базовый логгер приложения
func (a *App) Logger() zerolog.Logger {
	return a.logger
}

// Handler возвращает HTTP обработчик приложения. Доступен после Initialize.
func (a *App) Handler() http.Handler {
	if a.server == nil {
		return nil
	}
	return a.server.Handler
}

// Initialize инициализирует все компоненты приложения
func (a *App) Initialize(ctx context.Context) error {
	// Применяем миграции до открытия пула
	if a.config.Database.AutoMigrate {
		if err := migrations.Up(a.config.Database.DSN()); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		a.logger.Info().Msg("Migrations applied")
	}

	// Подключаемся к базе данных
	if err := a.connectDB(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Подключаем публикацию событий
	if err := a.connectKafka(); err != nil {
		return fmt.Errorf("failed to connect to kafka: %w", err)
	}

	// Загружаем реестр в память
	store, err := a.loadStore(ctx)
	if err != nil {
		return err
	}

	// Настраиваем HTTP сервер и роутинг
	if err := a.setupServer(store); err != nil {
		return err
	}

	a.logger.Info().Msg("Application initialized successfully")
	return nil
}

// connectDB устанавливает подключение к PostgreSQL с connection pool
func (a *App) connectDB(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(a.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	// Настраиваем размеры connection pool
	poolConfig.MaxConns = a.config.Database.MaxConns
	poolConfig.MinConns = a.config.Database.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Проверяем подключение к БД
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = pool
	a.logger.Info().Str("host", a.config.Database.Host).Msg("Connected to database")
	return nil
}

// connectKafka создает продюсер событий, если публикация включена
func (a *App) connectKafka() error {
	if !a.config.Kafka.Enabled {
		a.logger.Info().Msg("Kafka disabled, roster events are dropped")
		return nil
	}

	producer, err := events.NewSyncProducer(a.config.Kafka.Brokers)
	if err != nil {
		return err
	}

	a.kafka = events.NewKafkaPublisher(producer, events.Config{
		Topic:  a.config.Kafka.Topic,
		Source: a.config.Kafka.Source,
	}, a.logger)
	a.publisher = a.kafka

	a.logger.Info().Strs("brokers", a.config.Kafka.Brokers).Str("topic", a.config.Kafka.Topic).Msg("Connected to kafka")
	return nil
}

// loadStore собирает хранилище реестра поверх PostgreSQL и заполняет его начальными данными
func (a *App) loadStore(ctx context.Context) (*service.Store, error) {
	store := service.NewStore(service.StoreDeps{
		Tx:        postgres.NewTransactionManager(a.db),
		Employees: postgres.NewEmployeeRepository(a.db),
		Teams:     postgres.NewTeamRepository(a.db),
		Tags:      postgres.NewTagRepository(a.db),
		Publisher: a.publisher,
		Logger:    a.logger,
	})

	if err := store.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	if path := a.config.Roster.FixturesFile; path != "" {
		fx, err := service.LoadFixturesFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read fixtures: %w", err)
		}
		added, err := service.SeedRoster(ctx, store, fx)
		if err != nil {
			return nil, fmt.Errorf("failed to seed roster: %w", err)
		}
		a.logger.Info().Str("file", path).Int("added", added).Msg("Roster seeded from fixtures")
	}

	snap := store.Snapshot()
	a.logger.Info().Int("employees", len(snap.Employees)).Int("teams", len(snap.Teams)).Msg("Roster loaded")
	return store, nil
}

// setupServer инициализирует HTTP роутер и обработчики
func (a *App) setupServer(store *service.Store) error {
	// Инициализируем слой сервисов (бизнес-логика)
	prefs := postgres.NewPreferencesRepository(a.db)
	a.services = NewServices(a.config, store, prefs, service.SystemClock(), a.logger)

	var rateLimiter *limiter.Limiter
	if a.config.RateLimit.Enabled {
		l, err := middleware.NewIPLimiter(a.config.RateLimit.Rate)
		if err != nil {
			return fmt.Errorf("failed to configure rate limit: %w", err)
		}
		rateLimiter = l
	}

	// Создаем HTTP сервер с настройками таймаутов
	addr := fmt.Sprintf("%s:%s", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      NewRouter(a.services, a.logger, rateLimiter),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.logger.Info().Str("addr", addr).Msg("HTTP server configured")
	return nil
}

// Run запускает HTTP сервер. После Shutdown возвращает nil.
func (a *App) Run() error {
	a.logger.Info().Str("addr", a.server.Addr).Msg("Starting HTTP server")
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown корректно останавливает приложение
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down application")

	// Останавливаем HTTP сервер (ждем завершения текущих запросов)
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	// Прерываем незавершенные создания в мастерах
	if a.services != nil {
		a.services.Sessions.Close()
	}

	if a.kafka != nil {
		if err := a.kafka.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close kafka producer")
		}
	}

	// Закрываем подключения к базе данных
	if a.db != nil {
		a.db.Close()
	}

	a.logger.Info().Msg("Application stopped gracefully")
	return nil
}
