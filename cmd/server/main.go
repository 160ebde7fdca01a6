package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appcache "github.com/gauravkatara53/Topic-Backend/internal/cache"
	"github.com/gauravkatara53/Topic-Backend/internal/config"
	"github.com/gauravkatara53/Topic-Backend/internal/handlers"
	appMiddleware "github.com/gauravkatara53/Topic-Backend/internal/middleware"
	"github.com/gauravkatara53/Topic-Backend/internal/services"
	"github.com/gauravkatara53/Topic-Backend/internal/storage"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Cache: Redis when configured, in-process map otherwise.
	var cacheBackend appcache.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := appcache.NewRedisCache(cfg.RedisAddr)
		if err != nil {
			log.Fatalf("Failed to connect to Redis at %s: %v", cfg.RedisAddr, err)
		}
		cacheBackend = redisCache
		log.Printf("Redis connected: %s", cfg.RedisAddr)
	} else {
		cacheBackend = appcache.NewMemoryCache()
		log.Println("REDIS_ADDR not set, using in-memory cache")
	}
	listingCaches := appcache.NewListingCaches(cacheBackend, cfg.CacheTTL)

	// Services: Mongo when configured, JSON-backed in-memory otherwise.
	var (
		userService    services.UserService
		listingService services.ListingService
		boardService   services.BoardService
	)
	if cfg.MongoURI != "" {
		mongoUsers, err := services.NewMongoUserService(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("Failed to initialize user service: %v", err)
		}
		mongoListings, err := services.NewMongoListingService(ctx, cfg.MongoURI, cfg.MongoDB, listingCaches)
		if err != nil {
			log.Fatalf("Failed to initialize listing service: %v", err)
		}
		mongoBoards, err := services.NewMongoBoardService(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("Failed to initialize board service: %v", err)
		}
		userService = mongoUsers
		listingService = mongoListings
		boardService = mongoBoards
	} else {
		log.Println("MONGO_URI not set, using in-memory services with JSON persistence")
		userStore, err := storage.NewJSONStore(cfg.DataDir, "users.json")
		if err != nil {
			log.Fatalf("Failed to initialize user store: %v", err)
		}
		listingStore, err := storage.NewJSONStore(cfg.DataDir, "listings.json")
		if err != nil {
			log.Fatalf("Failed to initialize listing store: %v", err)
		}
		memUsers := services.NewMemoryUserService(userStore)
		userService = memUsers
		listingService = services.NewMemoryListingService(memUsers, listingStore)
		boardService = services.NewMemoryBoardService()
	}

	searchService := services.NewSearchService(listingService, boardService)

	// Google sign-in is optional; without a client ID the endpoint reports
	// not configured.
	var googleVerifier *services.GoogleVerifier
	if cfg.GoogleAudience != "" {
		googleVerifier = services.NewGoogleVerifier(cfg.GoogleAudience)
	}

	// OTP delivery is optional in the same way.
	var otpService *services.OTPService
	if cfg.SendGridAPIKey != "" {
		mailer := services.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFrom)
		otpService = services.NewOTPService(cacheBackend, mailer)
	}

	// File storage: GCS bucket when configured, local disk otherwise.
	var fileStorage services.FileStorage
	if cfg.StorageBucket != "" {
		gcs, err := services.NewGCSFileStorage(ctx, cfg.StorageBucket)
		if err != nil {
			log.Fatalf("Failed to initialize GCS storage: %v", err)
		}
		defer gcs.Close()
		fileStorage = gcs
	} else {
		fileStorage = services.NewLocalFileStorage(cfg.UploadDir)
	}

	// Hourly sweep releases listings whose reservation hold has lapsed.
	sweeper := services.NewReservationSweeper(listingService, listingCaches, cfg.SweepInterval)
	sweeper.Start()
	defer sweeper.Stop()

	authHandler := handlers.NewAuthHandler(userService, googleVerifier, otpService, cfg.JWTSecret, cfg.JWTExpiration)
	listingHandler := handlers.NewListingHandler(listingService)
	boardHandler := handlers.NewBoardHandler(boardService)
	searchHandler := handlers.NewSearchHandler(searchService)
	uploadHandler := handlers.NewUploadHandler(fileStorage, cfg.MaxUploadSizeMB)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/google", authHandler.GoogleLogin)
		r.Post("/auth/otp/send", authHandler.SendOTP)
		r.Post("/auth/otp/verify", authHandler.VerifyOTP)

		r.Get("/listings", listingHandler.ListListings)
		r.Get("/listings/{listingId}", listingHandler.GetListing)

		r.Get("/notes", boardHandler.ListNotes)
		r.Get("/notes/{noteId}", boardHandler.GetNote)
		r.Get("/papers", boardHandler.ListPapers)
		r.Get("/papers/{paperId}", boardHandler.GetPaper)
		r.Get("/news", boardHandler.ListNews)
		r.Get("/news/{newsId}", boardHandler.GetNews)

		r.Get("/search", searchHandler.Search)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.JWTAuth(cfg.JWTSecret))

			r.Get("/auth/me", authHandler.Me)

			r.Route("/listings", func(r chi.Router) {
				r.Post("/", listingHandler.CreateListing)
				r.Get("/mine", listingHandler.ListMyListings)
				r.Get("/purchases", listingHandler.ListMyPurchases)
				r.Get("/transactions", listingHandler.ListMyTransactions)

				r.Route("/{listingId}", func(r chi.Router) {
					r.Put("/", listingHandler.UpdateListing)
					r.Post("/reserve", listingHandler.ReserveListing)
					r.Post("/sold", listingHandler.MarkSold)
					r.Post("/images", listingHandler.AddImage)
					r.Delete("/images", listingHandler.RemoveImage)
				})
			})

			r.Post("/notes", boardHandler.CreateNote)
			r.Post("/papers", boardHandler.CreatePaper)
			r.Post("/news", boardHandler.CreateNews)

			r.Post("/upload", uploadHandler.Upload)
			r.Delete("/upload", uploadHandler.Delete)
		})
	})

	// Serve locally stored uploads when no bucket is configured.
	if cfg.StorageBucket == "" {
		filesDir := http.Dir(cfg.UploadDir)
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(filesDir)))
	}

	server := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: r,
	}

	go func() {
		log.Printf("Topic API server starting on %s", cfg.ServerAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
