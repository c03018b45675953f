package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Uzbeksil125/chatcore/internal/account"
	"github.com/Uzbeksil125/chatcore/internal/auth"
	"github.com/Uzbeksil125/chatcore/internal/bridge"
	"github.com/Uzbeksil125/chatcore/internal/config"
	"github.com/Uzbeksil125/chatcore/internal/database"
	"github.com/Uzbeksil125/chatcore/internal/domain"
	"github.com/Uzbeksil125/chatcore/internal/handler"
	"github.com/Uzbeksil125/chatcore/internal/hub"
	"github.com/Uzbeksil125/chatcore/internal/presence"
	"github.com/Uzbeksil125/chatcore/internal/service"
	"github.com/Uzbeksil125/chatcore/internal/storage"
	"github.com/Uzbeksil125/chatcore/internal/store"
	"github.com/Uzbeksil125/chatcore/pkg/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	cfg.Log.ServiceName = "chatcore"
	log.Init(cfg.Log)
	l := log.L()

	db, err := database.New(cfg.Database)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.AutoMigrate(db, domain.Models()...); err != nil {
		l.Fatal().Err(err).Msg("failed to migrate schema")
	}
	l.Info().Str("driver", cfg.Database.Driver).Msg("database ready")

	blobs, err := storage.NewLocalStore(cfg.Storage)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to initialize attachment storage")
	}

	messages := store.NewGormMessageStore(db)
	accounts := account.NewGormDirectory(db)
	table := presence.NewTable()
	verifier := auth.NewJWTVerifier(cfg.Auth.Secret)

	wsHub := hub.NewHub(cfg.WebSocket)
	go wsHub.Run()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	var router service.Router = wsHub
	if cfg.Bridge.Enabled {
		ps, err := bridge.NewRedisPubSub(cfg.Bridge)
		if err != nil {
			l.Fatal().Err(err).Msg("failed to connect bridge")
		}
		defer ps.Close()

		relay := bridge.NewRelay(wsHub, ps, uuid.NewString())
		router = relay
		g.Go(func() error {
			return relay.Run(ctx)
		})
		l.Info().Str("address", cfg.Bridge.Address).Msg("bridge enabled")
	}

	chatSvc := service.NewChatService(table, router, messages, accounts, blobs)
	wsHandler := handler.NewWSHandler(wsHub, chatSvc, verifier, cfg.WebSocket)

	mux := http.NewServeMux()
	wsHandler.RegisterRoutes(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g.Go(func() error {
		l.Info().Str("addr", server.Addr).Msg("chatcore listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		l.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		l.Fatal().Err(err).Msg("server error")
	}
	l.Info().Msg("chatcore stopped")
}
