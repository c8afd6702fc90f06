package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/overlaykit/streamrelay/internal/auth"
	"github.com/overlaykit/streamrelay/internal/relay"
	"github.com/overlaykit/streamrelay/internal/server"
	"github.com/overlaykit/streamrelay/internal/upstream"
	"go.uber.org/zap"
)

type App struct {
	logger          *zap.Logger
	settings        Settings
	registry        *relay.Registry
	websocketServer *server.WebSocketServer
	restServer      *server.RESTServer
}

func NewApp(logger *zap.Logger, settings Settings) *App {
	websocketUpgrader := &websocket.Upgrader{
		ReadBufferSize:    1024,
		WriteBufferSize:   1024,
		CheckOrigin:       func(r *http.Request) bool { return true },
		EnableCompression: true,
	}

	factory := upstream.NewSimulatedFactory(
		logger,
		time.Duration(settings.SimulatedIntervalMs)*time.Millisecond,
	)

	directory := relay.NewDirectory()
	broadcaster := relay.NewBroadcaster(logger, directory)
	registry := relay.NewRegistry(logger, factory, broadcaster)

	validator := relay.NewUsernameValidator()
	controller := relay.NewController(logger, validator, registry, directory)

	authenticator := auth.NewAuthenticator(settings.JWTSecret, settings.APIKeys)

	websocketServer := server.NewWebSocketServer(
		logger,
		websocketUpgrader,
		controller,
	)
	restServer := server.NewRESTServer(
		logger,
		authenticator,
		registry,
		directory,
	)

	return &App{
		logger,
		settings,
		registry,
		websocketServer,
		restServer,
	}
}

func (a *App) run(ctx context.Context) {
	notifyCtx, notifyCtxCancel := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer notifyCtxCancel()

	address := fmt.Sprintf("0.0.0.0:%d", a.settings.Port)

	router := mux.NewRouter().
		PathPrefix(a.settings.BasePath).
		Subrouter()

	a.websocketServer.Register(router)
	a.restServer.Register(router)

	httpServer := &http.Server{
		Addr:    address,
		Handler: router,
	}

	a.logger.Info("starting http server",
		zap.String("address", address))

	go func() {
		err := httpServer.ListenAndServe()

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("failed to start http server",
				zap.Error(err))
		}
	}()

	<-notifyCtx.Done()

	a.logger.Info("stopping http server")

	shutdownCtx, shutdownCtxCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCtxCancel()

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		a.logger.Fatal("http server shutdown failed",
			zap.Error(err))
	}

	a.registry.Shutdown()

	a.logger.Info("http server stopped")
}

func main() {
	ctx := context.Background()

	var settings Settings
	_, err := env.UnmarshalFromEnviron(&settings)
	if err != nil {
		bootstrapLogger, _ := zap.NewDevelopment()
		bootstrapLogger.Fatal("failed to parse settings from environment", zap.Error(err))
	}

	logger, err := buildZapLogger(settings.LogEncoding)
	if err != nil {
		bootstrapLogger, _ := zap.NewDevelopment()
		bootstrapLogger.Fatal("failed to build logger", zap.Error(err))
	}
	defer logger.Sync()

	app := NewApp(logger, settings)
	app.run(ctx)
}
