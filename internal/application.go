package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/connect-four/internal/config"
	"github.com/rocketscienceinc/connect-four/internal/entity"
	"github.com/rocketscienceinc/connect-four/internal/repository"
	"github.com/rocketscienceinc/connect-four/internal/repository/storage"
	"github.com/rocketscienceinc/connect-four/internal/usecase"
	"github.com/rocketscienceinc/connect-four/transport/console"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	saves, closeStorage, err := openSaves(ctx, conf)
	if err != nil {
		return err
	}

	log.Info("Storage opened", "driver", conf.Storage.Driver)

	defer func() {
		if err = closeStorage(); err != nil {
			log.Error("could not close storage", "driver", conf.Storage.Driver, "error", err)
		}
	}()

	ui := console.NewStdio()
	manager := usecase.NewGameManager(logger, ui, saves,
		entity.WithBoardSize(conf.Board.Rows, conf.Board.Columns),
		entity.WithOpenerPolicy(conf.OpenerPolicy),
	)

	log.Info("Starting game",
		"rows", conf.Board.Rows, "columns", conf.Board.Columns, "opener_policy", conf.OpenerPolicy)

	ui.Welcome()

	// the console blocks on stdin, so a signal must not wait for the next line
	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- manager.Run(ctx)
	}()

	select {
	case err = <-runErrCh:
		if err != nil {
			return fmt.Errorf("game error: %w", err)
		}
		log.Info("Game finished")
		return nil
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// openSaves connects the configured storage driver and returns its save repository.
func openSaves(ctx context.Context, conf *config.Config) (repository.SaveRepository, func() error, error) {
	switch conf.Storage.Driver {
	case config.DriverRedis:
		addr := conf.Redis.GetRedisAddr()
		if addr == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, addr)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewRedisSaveRepository(redisStorage.Connection), redisStorage.Close, nil

	case config.DriverPostgres:
		pgStorage, err := storage.NewPostgresStorage(ctx, conf.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to postgres storage: %w", err)
		}

		if err = pgStorage.Init(ctx); err != nil {
			_ = pgStorage.Close()
			return nil, nil, fmt.Errorf("could not init postgres storage: %w", err)
		}

		return repository.NewPostgresSaveRepository(pgStorage.Connection), pgStorage.Close, nil

	default:
		sqliteStorage, err := storage.NewSQLiteStorage(conf.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open sqlite storage: %w", err)
		}

		if err = sqliteStorage.Init(ctx); err != nil {
			_ = sqliteStorage.Close()
			return nil, nil, fmt.Errorf("could not init sqlite storage: %w", err)
		}

		return repository.NewSQLiteSaveRepository(sqliteStorage.Connection), sqliteStorage.Close, nil
	}
}
