package main

import (
	"context"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"orbis-relay/internal/api"
	"orbis-relay/internal/config"
	"orbis-relay/internal/fanout"
	"orbis-relay/internal/queue"
	"orbis-relay/internal/ws"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	conf, err := config.New()
	if err != nil {
		return err
	}

	var loggerOpts slog.HandlerOptions
	if conf.Env == config.EnvDev {
		loggerOpts = slog.HandlerOptions{Level: slog.LevelDebug}
	}

	jsonHandler := slog.NewJSONHandler(os.Stdout, &loggerOpts)
	logger := slog.New(jsonHandler)

	pendingQueue := queue.New(logger)
	server := api.NewServer(conf, logger, pendingQueue)

	wsManager := ws.NewManager(ctx, logger)
	go wsManager.Start()
	server.WSManager = wsManager

	if conf.FanoutEnabled() {
		redisClient := redis.NewClient(&redis.Options{Addr: net.JoinHostPort(conf.RedisHost, conf.RedisPort)})
		origin := uuid.NewString()

		server.Publisher = fanout.NewPublisher(logger, redisClient, conf.RedisIncidentsChannel, origin)
		sub := fanout.NewSubscriber(logger, redisClient, conf.RedisIncidentsChannel, origin, pendingQueue)
		go func() {
			if err := sub.Start(ctx); err != nil {
				logger.Error("subscriber stopped with error", "error", err)
			}
		}()
	}

	if err := server.Start(ctx); err != nil {
		return err
	}

	wsManager.Shutdown()
	return nil
}
