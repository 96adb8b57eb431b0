package cmd

import (
	"authboiler/internal/config"
	"authboiler/internal/http/handler"
	"authboiler/internal/http/payload"
	"authboiler/internal/http/server"
	"authboiler/internal/repository"
	"authboiler/internal/session"
	"authboiler/pkg/log"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap/zapcore"
)

const appName = "authboiler"

func Start() error {
	logger := log.NewZapLogger(appName, zapcore.InfoLevel)

	cfg, err := config.NewApp()
	if err != nil {
		logger.Errorw("failed to create config", "error", err)
		return err
	}

	logger = log.NewZapLogger(appName, cfg.LogLevel)
	defer func() {
		_ = logger.Sync()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStores(ctx, logger, cfg)
	if err != nil {
		logger.Errorw("failed to open stores", "error", err, "driver", cfg.StoreDriver)
		return err
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), server.ShutdownTimeout)
		defer closeCancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Errorw("failed to close stores", "error", err)
		}
	}()

	// repository
	repo := repository.NewUserRepository(st.users)
	if err := repo.RegisterSchema(ctx); err != nil {
		logger.Errorw("failed to register user schema", "error", err)
		return err
	}

	// sessions
	sessions := session.NewManager(logger, st.sessions, session.Options{
		Secret:            cfg.Secret,
		SaveUninitialized: true,
	})

	// handler
	authHlr := handler.NewAuthHandler(logger, payload.Decoder{})

	router := newRouter(logger, sessions, authHlr.Routes())

	srv := server.NewHTTP(logger, router, config.ListenAddr)
	return run(srv)
}

func run(server *server.HTTPServer) error {
	// expect a signal to gracefully shutdown the server
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sig)

	errChan := server.Run()

	var err error
	select {
	case <-sig:
	case err = <-errChan:
	}

	if server.Addr() == "" {
		// never bound, nothing to shut down
		return err
	}

	sdErr := server.Shutdown()
	if errors.Is(err, http.ErrServerClosed) || err == nil {
		if sdErr != nil {
			return fmt.Errorf("server shutdown: %w", sdErr)
		}
		return nil
	}

	return err
}
