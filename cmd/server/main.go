package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/kazetani/ghibli-watch-api/internal/availability"
	"github.com/kazetani/ghibli-watch-api/internal/cache"
	"github.com/kazetani/ghibli-watch-api/internal/config"
	"github.com/kazetani/ghibli-watch-api/internal/database"
	"github.com/kazetani/ghibli-watch-api/internal/handler"
	"github.com/kazetani/ghibli-watch-api/internal/middleware"
	"github.com/kazetani/ghibli-watch-api/internal/queue"
	"github.com/kazetani/ghibli-watch-api/internal/repository"
	"github.com/kazetani/ghibli-watch-api/internal/router"
	queue_publisher "github.com/kazetani/ghibli-watch-api/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set env vars directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect: %v", err)
	}

	cacheCfg := config.LoadCacheConfig()
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	// Resolver cache: shared Redis when available, per-process fallback
	// otherwise. Either way stale-within-TTL reads are fine.
	var readCache cache.Cache
	if rdb != nil {
		readCache = cache.NewRedis(rdb, cacheCfg.Prefix+":resolver")
	} else {
		readCache = cache.NewMemory()
	}

	movieRepo := repository.NewMovieRepo(db)
	availRepo := repository.NewAvailabilityRepo(db)
	regionRepo := repository.NewRegionRepo(db)
	platformRepo := repository.NewPlatformRepo(db)
	statsRepo := repository.NewStatsRepo(db)
	characterRepo := repository.NewCharacterRepo(db)
	guideRepo := repository.NewGuideRepo(db)

	gate := repository.NewSchemaGate(db)
	store := repository.NewReadStore(availRepo, regionRepo, platformRepo)
	resolver := availability.New(store, gate, readCache, cacheCfg.TTL)

	h := router.Handlers{
		Health:       &handler.HealthHandler{DB: db, RDB: rdb},
		Availability: &handler.AvailabilityHandler{Resolver: resolver},
		Movies:       &handler.MovieHandler{MovieRepo: movieRepo, Resolver: resolver},
		Stats:        &handler.StatsHandler{StatsRepo: statsRepo, Publish: queue_publisher.PublishStatRecorded},
		Characters:   &handler.CharacterHandler{CharacterRepo: characterRepo},
		Guides:       &handler.GuideHandler{GuideRepo: guideRepo},
	}

	e := echo.New()
	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	respCache := middleware.NewRedisCache(cacheCfg, rdb)
	router.RegisterRoutes(e, h, rateLimit, respCache)

	// Background analytics consumer; reconnects on its own and never
	// takes the API down.
	go func() {
		if err := queue.StartStatsConsumer(); err != nil {
			log.Printf("stats consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
