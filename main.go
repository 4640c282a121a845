package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"route-weather/api"
	"route-weather/collector"
	"route-weather/config"
	"route-weather/di"
	"route-weather/logger"
	"route-weather/models"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.GetLogger().Debugw("No .env file loaded", "error", err)
	}
	log := logger.GetLogger()
	defer logger.Close()

	// Parse command line arguments
	configFile := flag.String("config", "config.yaml", "Path to configuration file")
	port := flag.Int("port", 0, "Port to run the server on (overrides config)")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalw("Failed to load configuration", "error", err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalw("Failed to initialize dependencies", "error", err)
	}
	defer container.Close()

	routeStore := api.NewRouteStore()
	server := api.NewServer(container.Aggregator, routeStore, cfg.Collector.Routes,
		models.Horizon(cfg.Route.DefaultDays), cfg.Server.Port, cfg.Server.RequestTimeout)

	// Refresh scheduled routes in the background
	stopCollector := func() {}
	if cfg.Collector.Enabled && len(cfg.Collector.Routes) > 0 {
		routeCollector := collector.NewRouteCollector(container.Aggregator, routeStore, cfg.Collector.Routes, cfg.Collector.Schedule)
		routeCollector.SetFetchTimeout(cfg.Server.RequestTimeout)
		stopCollector, err = routeCollector.Start(ctx)
		if err != nil {
			log.Fatalw("Failed to start route collector", "error", err)
		}
	}

	// Periodically clean up stale scheduled routes
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if pruned := routeStore.PruneOld(cfg.Collector.PruneAge); pruned > 0 {
					log.Infow("Pruned stale routes", "count", pruned)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// Start the API server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("Server stopped", "error", err)
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server shutdown failed", "error", err)
	}
	stopCollector()

	if container.ForecastCache != nil {
		hits, misses := container.ForecastCache.CacheStats()
		log.Infow("Forecast cache statistics", "hits", hits, "misses", misses)
	}
	log.Info("Shutdown complete")
}
