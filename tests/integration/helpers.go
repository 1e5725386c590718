package integration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aidar/wfm-roster/internal/app"
	"github.com/aidar/wfm-roster/internal/config"
)

// TestEnvironment содержит все ресурсы необходимые для интеграционных тестов
type TestEnvironment struct {
	PostgresContainer *postgres.PostgresContainer
	App               *app.App
	Config            *config.Config
	BaseURL           string
	DB                *pgxpool.Pool
	ctx               context.Context
}

// SetupTestEnvironment создает и инициализирует полное тестовое окружение.
// Схема создается миграциями приложения, реестр заполняется из fixtures/roster.yaml.
func SetupTestEnvironment(t *testing.T, port string) *TestEnvironment {
	t.Helper()
	ctx := context.Background()

	// Запускаем PostgreSQL контейнер
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("wfm_roster_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	// Получаем строку подключения
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	mappedPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	// Создаем конфигурацию для приложения
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port: port,
			Host: "127.0.0.1",
		},
		Database: config.DatabaseConfig{
			Host:        host,
			Port:        mappedPort.Port(),
			User:        "test_user",
			Password:    "test_password",
			Name:        "wfm_roster_test",
			SSLMode:     "disable",
			MaxConns:    10,
			MinConns:    1,
			AutoMigrate: true,
		},
		JWT: config.JWTConfig{
			Secret:          "test-jwt-secret-key-for-integration-tests",
			ExpirationHours: 24,
		},
		Roster: config.RosterConfig{
			FixturesFile:      filepath.Join(getProjectRoot(t), "fixtures", "roster.yaml"),
			WizardSubmitDelay: 50 * time.Millisecond,
			Location:          "Europe/Moscow",
		},
		Log: config.LogConfig{Level: "warn"},
	}

	env := &TestEnvironment{
		PostgresContainer: pgContainer,
		Config:            cfg,
		BaseURL:           fmt.Sprintf("http://%s:%s", cfg.Server.Host, port),
		ctx:               ctx,
	}
	env.Start(t)

	// Создаем подключение к БД для прямых запросов в тестах
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	env.DB = pool

	return env
}

// Start создает, инициализирует и запускает приложение в фоне
func (te *TestEnvironment) Start(t *testing.T) {
	t.Helper()

	application, err := app.New(te.Config)
	require.NoError(t, err, "Failed to create application")

	err = application.Initialize(te.ctx)
	require.NoError(t, err, "Failed to initialize application")

	go func() {
		if err := application.Run(); err != nil {
			t.Logf("Server error: %v", err)
		}
	}()

	te.App = application
	te.WaitForHealthCheck(t)
}

// Restart останавливает приложение и поднимает его заново на той же базе
func (te *TestEnvironment) Restart(t *testing.T) {
	t.Helper()
	te.stopApp()
	te.Start(t)
}

func (te *TestEnvironment) stopApp() {
	if te.App == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = te.App.Shutdown(shutdownCtx)
	te.App = nil
}

// Cleanup очищает все тестовые ресурсы
func (te *TestEnvironment) Cleanup(t *testing.T) {
	t.Helper()

	// Останавливаем приложение
	te.stopApp()

	// Закрываем подключение к БД
	if te.DB != nil {
		te.DB.Close()
	}

	// Останавливаем PostgreSQL контейнер
	if te.PostgresContainer != nil {
		_ = te.PostgresContainer.Terminate(te.ctx)
	}
}

// getProjectRoot возвращает корневую директорию проекта
func getProjectRoot(t *testing.T) string {
	t.Helper()

	// Поднимаемся по директориям пока не найдем go.mod
	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("Could not find project root (go.mod not found)")
		}
		dir = parent
	}
}

// MakeRequest вспомогательная функция для HTTP запросов в тестах
func (te *TestEnvironment) MakeRequest(t *testing.T, method, path string, body io.Reader, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, te.BaseURL+path, body)
	require.NoError(t, err, "Failed to create request")

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	resp, err := client.Do(req)
	require.NoError(t, err, "Failed to make request")

	return resp
}

// WaitForHealthCheck ждет пока приложение станет доступным
func (te *TestEnvironment) WaitForHealthCheck(t *testing.T) {
	t.Helper()

	maxRetries := 30
	for i := 0; i < maxRetries; i++ {
		resp, err := http.Get(te.BaseURL + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		if resp != nil {
			resp.Body.Close()
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatal("Application did not become healthy in time")
}
