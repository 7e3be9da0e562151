package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "epd-map-api/docs"
	"epd-map-api/internal/config"
	"epd-map-api/internal/handler"
	"epd-map-api/internal/logger"
	"epd-map-api/internal/metrics"
	"epd-map-api/internal/repository"
	"epd-map-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const serviceName = "epd-map-api"

//	@title			EPD Map API
//	@version		1.0
//	@description	Filtering, fuzzy search and marker placement over the product and environmental-declaration catalogs.
//	@BasePath		/
func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logger.Setup(serviceName, config.LogLevel)
	gin.SetMode(config.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database connection
	conn, err := pgxpool.New(ctx, config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	// Initialize layers
	repo := repository.NewRepository(conn)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("cannot prepare schema")
	}

	m := metrics.New(serviceName)

	catalogService := service.NewCatalogService(repo, service.EngineConfig{
		VendorPrefixes: config.VendorPrefixes(),
		MaxLocations:   config.MaxLocations,
		SearchLimit:    config.SearchLimit,
		MaxRadius:      config.DeclusterMaxRadius,
	}, service.WithObserver(m))
	sessionService := service.NewSessionService(
		catalogService,
		catalogService.Matcher(),
		catalogService.SearchLimit(),
		service.WithSessionTTL(config.SessionTTL),
		service.WithSizeReporter(m.SetActiveSessions),
	)
	go sessionService.Run(ctx, time.Minute)

	locationHandler := handler.NewLocationHandler(catalogService)
	searchHandler := handler.NewSearchHandler(catalogService)
	sessionHandler := handler.NewSessionHandler(sessionService)

	r := gin.Default()
	r.Use(m.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/locations", locationHandler.List)
	r.GET("/markers", locationHandler.Markers)
	r.GET("/new-arrivals", locationHandler.NewArrivals)
	r.GET("/facets", locationHandler.Facets)
	r.GET("/search", searchHandler.Search)
	sessionHandler.Register(r)

	srv := &http.Server{
		Addr:              config.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", config.ServerAddress).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
