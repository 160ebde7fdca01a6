// Command sweeper runs a single reservation sweep and exits. The API
// server runs the same sweep on a timer; this binary exists for cron or
// Cloud Scheduler setups where the server is scaled to zero.
package main

import (
	"context"
	"log"
	"time"

	appcache "github.com/gauravkatara53/Topic-Backend/internal/cache"
	"github.com/gauravkatara53/Topic-Backend/internal/config"
	"github.com/gauravkatara53/Topic-Backend/internal/services"
)

func main() {
	cfg := config.Load()
	if cfg.MongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var cacheBackend appcache.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := appcache.NewRedisCache(cfg.RedisAddr)
		if err != nil {
			log.Fatalf("Failed to connect to Redis at %s: %v", cfg.RedisAddr, err)
		}
		cacheBackend = redisCache
	} else {
		// Without Redis the invalidation only touches this process; a
		// Redis-backed server keeps serving stale search results until
		// the cache TTL lapses.
		log.Printf("[Sweeper] REDIS_ADDR not set, shared cache will not be invalidated")
		cacheBackend = appcache.NewMemoryCache()
	}
	listingCaches := appcache.NewListingCaches(cacheBackend, cfg.CacheTTL)

	listingService, err := services.NewMongoListingService(ctx, cfg.MongoURI, cfg.MongoDB, listingCaches)
	if err != nil {
		log.Fatalf("Failed to initialize listing service: %v", err)
	}

	sweeper := services.NewReservationSweeper(listingService, listingCaches, cfg.SweepInterval)
	swept, err := sweeper.SweepOnce(ctx)
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}
	log.Printf("Sweep complete: %d reservation(s) expired", swept)
}
