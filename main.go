package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forum/api"
	"forum/config"
	"forum/events"
	"forum/inmemory"
	"forum/kafka"
	"forum/logger"
	"forum/models"
	oidcutil "forum/oidc"
	"forum/store"
	"forum/subscribers"
	"forum/usecases"
)

// readiness reports ready only when every dependency answers.
type readiness []api.Pinger

func (r readiness) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	for _, p := range r {
		if err := p.Ping(ctx); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		logger.Error("forum stopped", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.SetDebug(cfg.Debug)
	logger.Info("starting application", logger.FieldKV("store_driver", cfg.StoreDriver))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := events.NewDispatcher()
	var ready readiness

	var repos usecases.Repositories
	switch cfg.StoreDriver {
	case config.DriverMongo:
		s, err := store.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return err
		}
		defer s.Close(context.Background())
		repos = store.Repositories(s, dispatcher)
		ready = append(ready, s)
	default:
		repos = inmemory.Repositories(dispatcher)
	}

	hub := api.NewHub()
	var broadcast chan models.Notification
	var primary usecases.NotificationPublisher
	if cfg.KafkaEnabled {
		producer := kafka.NewProducer(cfg.KafkaBroker, cfg.KafkaNotificationsTopic, cfg.KafkaDLQTopic)
		defer producer.Close()
		consumer := kafka.NewConsumer(cfg.KafkaBroker, cfg.KafkaNotificationsTopic, producer)
		primary = producer
		ready = append(ready, producer, consumer)

		broadcast = make(chan models.Notification)
		go consumer.Run(ctx, broadcast)
	}
	forum := usecases.NewForum(repos, api.NewFallbackPublisher(primary, hub))

	subscribers.NewOnQuestionBestAnswerChosen(repos.Answers, forum.SendNotification).Subscribe(dispatcher)
	subscribers.NewOnAnswerCreated(repos.Questions, forum.SendNotification).Subscribe(dispatcher)

	verifier, err := oidcutil.Init(ctx, cfg)
	if err != nil {
		return err
	}
	validator, err := api.NewValidator()
	if err != nil {
		return err
	}
	srv := api.NewServer(forum, api.VerifierFunc(func(ctx context.Context, raw string) (api.Identity, error) {
		c, err := verifier.VerifyToken(ctx, raw)
		if err != nil {
			return api.Identity{}, err
		}
		return api.Identity{Subject: c.Subject, Name: c.Name}, nil
	}), validator, hub, broadcast, ready)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.ApiPort,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errC := make(chan error, 1)
	go func() {
		logger.Info("http server listening", logger.FieldKV("port", cfg.ApiPort))
		errC <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errC:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
