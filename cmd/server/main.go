package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/kiryu-dev/tetris/internal/adapters/kafka"
	"github.com/kiryu-dev/tetris/internal/adapters/postgres"
	"github.com/kiryu-dev/tetris/internal/adapters/webapi"
	"github.com/kiryu-dev/tetris/internal/config"
	"github.com/kiryu-dev/tetris/internal/domain"
	"github.com/kiryu-dev/tetris/internal/transport/ws"
	"github.com/kiryu-dev/tetris/internal/usecase/game"
	"github.com/kiryu-dev/tetris/internal/usecase/hub"
	"github.com/kiryu-dev/tetris/internal/usecase/reporter"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfgPath := flag.String("config", "./config.yml", "path to config")
	flag.Parse()
	cfg, err := config.New(*cfgPath)
	if err != nil {
		panic(err)
	}
	logger, err := newLogger(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var opts []reporter.Option
	if cfg.PostgresURL != "" {
		store, err := postgres.NewStore(ctx, cfg.PostgresURL)
		if err != nil {
			logger.Fatal(err.Error())
		}
		defer store.Close(context.Background())
		if err := store.EnsureTables(ctx); err != nil {
			logger.Fatal(err.Error())
		}
		opts = append(opts, reporter.WithSinks(store), reporter.WithLeaderboard(store))
	}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer func() {
			_ = producer.Close()
		}()
		opts = append(opts, reporter.WithSinks(producer))
	}

	gameCfg := cfg.GameConfig()
	newSource := game.NewSourceFactory(cfg.Game.Seed)
	newGame := func(timer domain.FallTimer) domain.GameUseCase {
		return game.New(gameCfg, timer, newSource(), logger)
	}
	var (
		repo    = webapi.New()
		hub     = hub.New(newGame, logger)
		results = reporter.New(repo, hub.Results(), cfg.Servers, logger, opts...)
		server  = ws.New(cfg.Server.Addr, hub, results, logger)
	)

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	errGroup, ctx := errgroup.WithContext(ctx)
	errGroup.Go(func() error {
		select {
		case s := <-sigChan:
			return errors.Errorf("captured signal: %v", s)
		case <-ctx.Done():
			return nil
		}
	})
	errGroup.Go(func() error {
		return server.ListenAndServe(ctx)
	})
	errGroup.Go(func() error {
		return results.Run(ctx)
	})
	if err := errGroup.Wait(); err != nil {
		logger.Info("gracefully shutting down the server: " + err.Error())
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
