package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dono45/dishsystem-by-tongyi/configs"
	"github.com/dono45/dishsystem-by-tongyi/pkg/metrics"
	"github.com/dono45/dishsystem-by-tongyi/repository"
	"github.com/dono45/dishsystem-by-tongyi/routes"
	"github.com/dono45/dishsystem-by-tongyi/services"
	"github.com/dono45/dishsystem-by-tongyi/ws"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := configs.LoadConfig()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("load config")
	}
	log := configs.NewLogger(cfg.LogLevel, os.Stdout)

	// prices go out as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true

	// DB
	db, err := configs.Open(cfg.DBDriver, cfg.DBSource, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	if err := configs.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	if err := configs.SeedAdmin(db, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}
	if cfg.SeedCatalog {
		if err := configs.SeedCatalog(db, log); err != nil {
			log.Fatal().Err(err).Msg("seed catalog")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	dishRepo := repository.NewDishRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	m := metrics.New()
	feed := ws.NewOrderFeed(128, log)
	go feed.Run(ctx)

	deps := routes.Deps{
		Auth:        services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL, log),
		Catalog:     services.NewCatalogService(dishRepo, categoryRepo, reviewRepo),
		Cart:        services.NewCartService(db, cartRepo, dishRepo),
		Orders:      services.NewOrderService(db, orderRepo, cartRepo, dishRepo, log, m, feed),
		Reviews:     services.NewReviewService(reviewRepo, dishRepo),
		Admin:       services.NewAdminService(db, dishRepo, categoryRepo, log),
		Feed:        feed,
		Metrics:     m,
		Log:         log,
		CORSOrigins: cfg.Origins(),
	}

	// HTTP
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Str("driver", cfg.DBDriver).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
