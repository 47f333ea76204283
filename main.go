package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"gametracker/internal/auth"
	"gametracker/internal/config"
	"gametracker/internal/covers"
	"gametracker/internal/database"
	"gametracker/internal/games"
	games_db "gametracker/internal/games/db"
	"gametracker/internal/games/game_api"
	"gametracker/internal/kafka"
	"gametracker/internal/logger"
	"gametracker/internal/snapshot"
	snapshot_db "gametracker/internal/snapshot/db"
	snapshot_redis "gametracker/internal/snapshot/redis"
	"gametracker/internal/snapshot/snapshot_api"
	"gametracker/internal/stats"
	stats_api "gametracker/internal/stats/api"
	"gametracker/internal/steam"
	"gametracker/internal/steam/steam_api"
)

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting game tracker initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bunDB, err := database.Connect(cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Database connection failed: %v", err))
	}
	defer bunDB.Close()

	if err := database.CreateTables(ctx, bunDB); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Schema setup failed: %v", err))
	}
	log.Info("DATABASE", "Schema ready")

	location, err := time.LoadLocation(cfg.Snapshot.Timezone)
	if err != nil {
		log.Fatal("CONFIG", fmt.Sprintf("Invalid SNAPSHOT_TIMEZONE %q: %v", cfg.Snapshot.Timezone, err))
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
		}
		defer redisClient.Close()
		log.Info("DATABASE", fmt.Sprintf("Redis connection successful to %s", cfg.Redis.Addr))
	}

	coverFetcher, err := covers.NewFetcher(cfg.Covers.Dir)
	if err != nil {
		log.Fatal("APP", fmt.Sprintf("Covers directory setup failed: %v", err))
	}

	steamClient := steam.NewClient(cfg.Steam, log)
	if cfg.Steam.APIKey == "" {
		log.Warn("STEAM", "STEAM_API_KEY not set, playtime refresh will record stored hours only")
	}

	gamesDB := &games_db.DB{Bun: bunDB}
	gameService := games.NewGameService(gamesDB, coverFetcher, log)

	snapshotDB := &snapshot_db.DB{Bun: bunDB}

	var guard snapshot.RunGuard
	if redisClient != nil {
		guard = snapshot_redis.NewRunLock(redisClient, cfg.Snapshot.RunLockTTL)
		log.Info("SNAPSHOT", "Using redis-backed run lock")
	} else {
		guard = snapshot.NewCycleGuard()
	}

	recorder := snapshot.NewRecorder(gamesDB, steamClient, snapshotDB, guard,
		log, location, cfg.Snapshot.PlayedEpsilon)

	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.MockMode)
		defer producer.Close()
		recorder.Events = producer
		log.Info("KAFKA", fmt.Sprintf("Snapshot events enabled on topic %s", cfg.Kafka.Topic))
	}

	historyService := snapshot.NewHistoryService(snapshotDB, cfg.Snapshot.PlayedEpsilon)
	statsService := stats.NewService(bunDB)

	var sessions auth.SessionStore
	if redisClient != nil {
		sessions = auth.NewRedisSessionStore(redisClient, cfg.Auth.SessionTTL)
	} else {
		sessions = auth.NewMemorySessionStore(cfg.Auth.SessionTTL)
	}
	authHandler := auth.NewHandler(sessions, cfg.Auth.AdminPassword, cfg.Auth.SessionTTL, log)

	gameHandler := game_api.NewHandler(gameService, log)
	snapshotHandler := snapshot_api.NewHandler(recorder, historyService, snapshotDB, log)
	statsHandler := stats_api.NewHandler(statsService, log)
	steamHandler := steam_api.NewHandler(steamClient, log)

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	// --- Public routes ---
	r.Post("/api/login", authHandler.Login)
	r.Post("/api/logout", authHandler.Logout)
	r.Get("/api/auth/check", authHandler.Check)

	r.Get("/api/games", gameHandler.ListGames)
	r.Get("/api/games/{gameID}", gameHandler.GetGame)
	r.Get("/api/games/{gameID}/achievements", gameHandler.ListAchievements)
	r.Get("/api/games/{gameID}/completionist", gameHandler.ListCompletionist)
	r.Get("/api/completionist/all", gameHandler.AllCompletionist)
	r.Get("/api/stats", statsHandler.GetStats)

	r.Get("/api/steam/search", steamHandler.Search)
	r.Get("/api/steam/achievements/{appID}", steamHandler.Achievements)
	r.Get("/api/steam/game-details/{appID}", steamHandler.GameDetails)

	r.Get("/api/history", snapshotHandler.GetDailyHistory)
	r.Get("/api/history/{date}/games", snapshotHandler.GetGamesPlayedOnDate)

	fileServer := http.FileServer(http.Dir("static"))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// --- Protected routes ---
	r.Group(func(r chi.Router) {
		r.Use(authHandler.Middleware())

		r.Post("/api/games", gameHandler.CreateGame)
		r.Put("/api/games/{gameID}", gameHandler.UpdateGame)
		r.Delete("/api/games/{gameID}", gameHandler.DeleteGame)

		r.Post("/api/games/{gameID}/achievements", gameHandler.CreateAchievement)
		r.Put("/api/games/{gameID}/achievements/{achID}", gameHandler.UpdateAchievement)
		r.Delete("/api/games/{gameID}/achievements/{achID}", gameHandler.DeleteAchievement)

		r.Post("/api/games/{gameID}/completionist", gameHandler.CreateCompletionist)
		r.Put("/api/games/{gameID}/completionist/{compID}", gameHandler.UpdateCompletionist)
		r.Delete("/api/games/{gameID}/completionist/{compID}", gameHandler.DeleteCompletionist)

		r.Post("/api/snapshot/run", snapshotHandler.RunSnapshot)
		r.Get("/api/snapshot/runs", snapshotHandler.GetRunLogs)
	})
	log.Info("ROUTER", "Routes registered")

	scheduler := snapshot.NewScheduler(recorder, snapshotDB, log, location,
		cfg.Snapshot.Hour, cfg.Snapshot.Minute)
	scheduler.Start(ctx)
	log.Info("SCHEDULER", fmt.Sprintf("Daily snapshot scheduled at %02d:%02d %s",
		cfg.Snapshot.Hour, cfg.Snapshot.Minute, cfg.Snapshot.Timezone))

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Game tracker running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	} else {
		log.Info("HTTP", "Game tracker shutdown complete")
	}
}
