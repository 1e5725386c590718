package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/aidar/wfm-roster/internal/app"
	"github.com/aidar/wfm-roster/internal/config"
)

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Загружаем конфигурацию из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("не удалось загрузить конфигурацию")
	}

	// Создаем экземпляр приложения
	application, err := app.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("не удалось создать приложение")
	}
	logger := application.Logger()

	// Инициализируем приложение (миграции, БД, Kafka, загрузка реестра, роутинг)
	if err := application.Initialize(rootCtx); err != nil {
		logger.Fatal().Err(err).Msg("не удалось инициализировать приложение")
	}

	group, gctx := errgroup.WithContext(rootCtx)

	group.Go(func() error {
		logger.Info().Str("port", cfg.Server.Port).Msg("запуск HTTP API")
		if err := application.Run(); err != nil {
			logger.Error().Err(err).Msg("HTTP API завершился с ошибкой")
			return err
		}
		logger.Info().Msg("HTTP API остановлен")
		return nil
	})

	// Ожидаем сигнал прерывания (Ctrl+C или SIGTERM) или падение сервера
	group.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("остановка сервера")

		// Создаем контекст с таймаутом для graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return application.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error().Err(err).Msg("сервер остановлен с ошибкой")
		stop()
		os.Exit(1)
	}

	logger.Info().Msg("сервер остановлен")
}
