package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"zuverschenken/adwatcher/config"
	"zuverschenken/adwatcher/internal/crawler"
	"zuverschenken/adwatcher/internal/filter"
	"zuverschenken/adwatcher/logger"
	apperrors "zuverschenken/adwatcher/pkg/errors"
	"zuverschenken/adwatcher/services/cache"
	"zuverschenken/adwatcher/services/notifier"
	"zuverschenken/adwatcher/services/publisher"
	"zuverschenken/adwatcher/services/tracker"
	"zuverschenken/adwatcher/services/worker"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		event := log.Fatal().Err(err)
		var appErr *apperrors.Error
		if errors.As(err, &appErr) && len(appErr.Fields) > 0 {
			event = event.Str("parameters", strings.Join(appErr.Fields, ", "))
		}
		event.Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("listing_url", cfg.ListingURL).
		Strs("exclusions", cfg.Exclusions).
		Dur("poll_min", cfg.PollMin).
		Dur("poll_max", cfg.PollMax).
		Dur("max_ad_age", cfg.MaxAdAge).
		Str("dedup_mode", cfg.DedupMode).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services := initializeServices(ctx, cfg)
	defer services.Cleanup()

	c, err := crawler.CreateCrawler(cfg, services.Cache)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create crawler")
	}

	t, err := tracker.New(cfg.DedupMode, cfg.SeenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create tracker")
	}
	logger.ForTracker().Info().
		Str("mode", cfg.DedupMode).
		Dur("ttl", cfg.SeenTTL).
		Msg("Created tracker")

	// Create and start worker
	w := worker.NewWorker(
		c,
		filter.New(cfg.Exclusions, cfg.MaxAdAge),
		t,
		services.Notifier,
		logger.ForWorker(),
		worker.Options{
			PollMin:   cfg.PollMin,
			PollMax:   cfg.PollMax,
			Sound:     cfg.NotifierSound,
			Publisher: services.Publisher,
		},
	)

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting ad watcher")
		workerDone <- w.Start(ctx)
	}()

	// Wait for shutdown signal or worker error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		select {
		case <-workerDone:
		case <-time.After(cfg.FetchTimeout):
			log.Warn().Msg("Worker did not stop in time")
		}
	case err := <-workerDone:
		if err != nil {
			logger.LogError("worker", err, "Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
	Notifier  notifier.Notifier
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		if err := s.Publisher.Close(); err != nil {
			logger.LogError("publisher", err, "Failed to close publisher")
		}
	}
}

// initializeServices wires the cooldown cache and the notification sinks.
// Optional backends that cannot be reached are logged and skipped.
func initializeServices(ctx context.Context, cfg *config.Config) *Services {
	services := &Services{}

	// Initialize cache service
	if cfg.MemcacheAddr != "" {
		memcacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
		if err := memcacheService.Ping(); err != nil {
			logger.LogError("cache", err, "Memcache at %s is unreachable, using in-memory cooldown", cfg.MemcacheAddr)
			services.Cache = cache.NewMemoryService()
		} else {
			services.Cache = memcacheService
			logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
		}
	} else {
		services.Cache = cache.NewMemoryService()
	}

	sinks := notifier.Multi{notifier.NewLog(logger.ForNotifier())}

	if cfg.DesktopNotifications {
		desktop := notifier.NewDesktop(cfg.NotifierCommand)
		if desktop.Available() {
			sinks = append(sinks, desktop)
		} else {
			logger.ForNotifier().Warn().
				Str("command", cfg.NotifierCommand).
				Msg("Notifier command not found, desktop notifications disabled")
		}
	}

	// Initialize publisher
	if cfg.RedisAddr != "" {
		redisPublisher := publisher.NewRedisPublisher(
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		pingCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
		err := redisPublisher.Ping(pingCtx)
		cancel()
		if err != nil {
			logger.LogError("publisher", err, "Redis at %s is unreachable, stream publishing disabled", cfg.RedisAddr)
			redisPublisher.Close()
		} else {
			services.Publisher = redisPublisher
			sinks = append(sinks, notifier.NewStream(redisPublisher))
			logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
				cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
		}
	}

	services.Notifier = sinks
	return services
}
