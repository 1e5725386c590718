package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aidar/wfm-roster/internal/app"
	"github.com/aidar/wfm-roster/internal/config"
	"github.com/aidar/wfm-roster/internal/events"
	"github.com/aidar/wfm-roster/internal/repository/postgres"
	"github.com/aidar/wfm-roster/internal/service"
)

var (
	logLevel  string
	logPretty bool
)

// rootCmd утилита обслуживания реестра: миграции, заполнение и выгрузка
var rootCmd = &cobra.Command{
	Use:           "rosterctl",
	Short:         "Обслуживание реестра сотрудников WFM",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "уровень логирования")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "pretty", true, "читаемый вывод логов")

	rootCmd.AddCommand(migrateCmd, seedCmd, exportCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "ошибка:", err)
		stop()
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	return app.NewLogger(config.LogConfig{Level: logLevel, Pretty: logPretty})
}

func loadDatabaseConfig() (config.DatabaseConfig, error) {
	var db config.DatabaseConfig
	if err := config.LoadSection(&db); err != nil {
		return db, err
	}
	return db, nil
}

// openStore подключается к PostgreSQL и загружает реестр. События не публикуются.
func openStore(ctx context.Context, logger zerolog.Logger) (*service.Store, func(), error) {
	db, err := loadDatabaseConfig()
	if err != nil {
		return nil, nil, err
	}

	pool, err := pgxpool.New(ctx, db.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := service.NewStore(service.StoreDeps{
		Tx:        postgres.NewTransactionManager(pool),
		Employees: postgres.NewEmployeeRepository(pool),
		Teams:     postgres.NewTeamRepository(pool),
		Tags:      postgres.NewTagRepository(pool),
		Publisher: events.NopPublisher{},
		Logger:    logger,
	})
	if err := store.Load(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return store, pool.Close, nil
}
