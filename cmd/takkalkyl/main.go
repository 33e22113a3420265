package main

import (
	"fmt"
	"os"

	"github.com/aldervall/takkalkyl/internal/auth"
	"github.com/aldervall/takkalkyl/internal/config"
	"github.com/aldervall/takkalkyl/internal/db"
	httphandler "github.com/aldervall/takkalkyl/internal/http"
	"github.com/aldervall/takkalkyl/internal/http/middleware"
	"github.com/aldervall/takkalkyl/internal/logger"
	"github.com/aldervall/takkalkyl/internal/repository"
	"github.com/aldervall/takkalkyl/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	catalogRepo := repository.NewCatalogRepository(database)
	calculationRepo := repository.NewCalculationRepository(database)

	calculationService := service.NewCalculationService(calculationRepo, catalogRepo, cfg)
	catalogService := service.NewCatalogService(catalogRepo)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(calculationService, catalogService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting takkalkyl service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
