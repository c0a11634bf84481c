package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"social-publisher/domain/model"
	"social-publisher/infrastructure/cache"
	googleclient "social-publisher/infrastructure/clients/google"
	"social-publisher/infrastructure/clients/media"
	youtubeclient "social-publisher/infrastructure/clients/youtube"
	"social-publisher/infrastructure/configuration"
	"social-publisher/infrastructure/logger"
	"social-publisher/infrastructure/persistence"
	"social-publisher/infrastructure/pubsub"
	"social-publisher/infrastructure/realtime"
	"social-publisher/infrastructure/scheduler"
	"social-publisher/infrastructure/servicebus"
	httpHandler "social-publisher/interfaces/http"
	"social-publisher/server"
	"social-publisher/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// OS env still wins over the files
	if n := configuration.LoadEnvFromFile("config.env", ".env"); n > 0 {
		logger.GetLogger().WithField("keys", n).Info("Loaded env files")
		configuration.Reload()
	}
	app := configuration.C.App

	store, err := persistence.OpenStore(configuration.C.Database)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Database initialization failed")
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	googleConfig := configuration.GetGoogleConfig()
	posterConfig := configuration.GetPosterConfig()
	oauthConfig := googleConfig.OAuth2()

	refresher := googleclient.NewTokenRefresher(oauthConfig, store.Credentials, posterConfig.HTTPClient, posterConfig.RefreshMargin)
	connector := googleclient.NewConnector(oauthConfig, posterConfig.HTTPClient)
	fetcher := media.NewFetcher(posterConfig.HTTPClient)
	publisher := youtubeclient.NewPublisher(posterConfig.HTTPClient, googleConfig.UploadEndpoint, posterConfig.DefaultPrivacy)

	hub := realtime.NewPostHub()
	posterUseCase := usecase.NewPosterUseCase(store.Posts, store.Credentials, fetcher, usecase.PlatformAdapter{
		CredentialKind: model.CredentialGoogleOAuth,
		Tokens:         refresher,
		Publisher:      publisher,
	}, posterConfig)

	// Stream events go through Redis when configured so every instance's hub sees them.
	if rc := configuration.C.RedisClient; rc.Host != "" {
		redisClient, err := cache.NewCache(ctx, fmt.Sprintf("%s:%s", rc.Host, rc.Port), rc.Username, rc.Password)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Redis not available - stream events stay local to this instance")
			posterUseCase.WithNotifier(hub)
		} else {
			defer func() { _ = redisClient.Close() }()
			relay := cache.NewPostRelay(redisClient, rc.Channel, hub)
			posterUseCase.WithNotifier(relay)
			g.Go(func() error {
				if err := relay.Run(ctx); err != nil {
					logger.GetLogger().WithField("error", err).Error("Redis relay stopped")
				}
				return nil
			})
		}
	} else {
		posterUseCase.WithNotifier(hub)
	}

	if configuration.C.Pubsub.Topic != "" {
		pubSubClient, err := pubsub.NewPubSub(ctx, configuration.C.Pubsub.ProjectID)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Pub/Sub not available - continuing without post events")
		} else {
			defer func() { _ = pubSubClient.Close() }()
			events := pubsub.NewPostEventPublisher(pubSubClient, configuration.C.Pubsub.Topic)
			posterUseCase.WithNotifier(events)
			defer events.Stop()
		}
	}

	if sb := configuration.C.ServiceBus; sb.Namespace != "" || sb.ConnectionString != "" {
		sbClient, err := servicebus.NewServiceBus(sb.Namespace, sb.ConnectionString)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - continuing without queue events")
		} else {
			defer func() { _ = sbClient.Close(context.Background()) }()
			posterUseCase.WithNotifier(servicebus.NewPostEventSender(sbClient, sb.Queue))
		}
	}

	postUseCase := usecase.NewPostUseCase(store.Posts)
	accountUseCase := usecase.NewAccountUseCase(connector, store.Credentials)

	router := server.InitiateRouter(server.Handlers{
		Poster:      httpHandler.NewPosterHandler(posterUseCase, posterConfig.RunTimeout),
		Post:        httpHandler.NewPostHandler(postUseCase),
		YouTubeAuth: httpHandler.NewYouTubeAuthHandler(accountUseCase),
		Health:      httpHandler.NewHealthHandler(store.DB),
		Stream:      hub.Serve,
	}, configuration.C.Auth.JWTSecret, app.CORSOrigins)

	cronScheduler, err := scheduler.New(posterUseCase, posterConfig.Schedule, posterConfig.RunTimeout)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Poster scheduler not started")
	} else {
		g.Go(func() error { return cronScheduler.Run(ctx) })
	}

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		var err error
		if app.TLSEnabled && app.TLSCertFile != "" && app.TLSKeyFile != "" {
			logger.GetLogger().WithFields(map[string]interface{}{"cert": app.TLSCertFile, "key": app.TLSKeyFile}).Info("Serving HTTPS")
			err = httpServer.ListenAndServeTLS(app.TLSCertFile, app.TLSKeyFile)
		} else {
			if app.TLSEnabled {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
			}
			err = httpServer.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
	logger.GetLogger().Info("Application stopped")
}
