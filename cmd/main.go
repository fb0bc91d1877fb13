package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	apiContext "github.com/dtroode/gatekeeper/internal/api/http/context"
	"github.com/dtroode/gatekeeper/internal/api/http/handler"
	"github.com/dtroode/gatekeeper/internal/api/http/router"
	"github.com/dtroode/gatekeeper/internal/basicauth"
	"github.com/dtroode/gatekeeper/internal/config"
	"github.com/dtroode/gatekeeper/internal/logger"
	"github.com/dtroode/gatekeeper/internal/metrics"
	"github.com/dtroode/gatekeeper/internal/model"
	"github.com/dtroode/gatekeeper/internal/repository/memory"
	"github.com/dtroode/gatekeeper/internal/repository/postgres"
	"github.com/dtroode/gatekeeper/internal/security"
	"github.com/dtroode/gatekeeper/internal/server"
	"github.com/dtroode/gatekeeper/internal/service"
	"github.com/dtroode/gatekeeper/internal/session"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.Log.Level,
		logger.WithFormat(cfg.Log.Format),
		logger.WithName(cfg.Log.Name),
		logger.WithRedactFields(cfg.Log.RedactFields),
	)

	userStore, closeStore, err := newUserStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer closeStore()

	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	authService := service.NewAuth(userStore, hasher, security.UUIDTokens{}, logger,
		service.WithSessionName(cfg.SessionName))

	var (
		resolver   model.IdentityResolver
		routerOpts []router.Option
	)
	switch cfg.Auth.Type {
	case model.AuthTypeBasic:
		resolver = basicauth.NewExtractor(userStore, hasher, logger)
	case model.AuthTypeSession:
		manager := session.NewManager(userStore, cfg.SessionName)
		resolver = manager
		routerOpts = append(routerOpts, router.WithSessionAuth(
			handler.NewSessionAuth(manager, userStore, hasher, cfg.SessionName, logger)))
	default:
		resolver = authService
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.Register(reg)

	r := router.New(
		authService,
		resolver,
		apiContext.NewManager(),
		cfg.SessionName,
		cfg.Auth.ExcludedPaths,
		metrics.Handler(reg),
		logger,
		routerOpts...,
	)
	httpServer := server.NewHTTPServer(r.Register(), cfg.HTTP.Address)
	sl := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s server.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "auth_type", cfg.Auth.Type, "store", cfg.StoreDriver)
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func newUserStore(ctx context.Context, cfg *config.Config) (model.UserStore, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		return memory.NewUserRepository(), func() {}, nil
	}

	db, err := postgres.NewConnection(ctx, cfg.DSN())
	if err != nil {
		return nil, nil, err
	}

	return postgres.NewUserRepository(db), func() { _ = db.Close() }, nil
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
