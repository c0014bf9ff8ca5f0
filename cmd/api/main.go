package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"retreatdesk/internal/config"
	"retreatdesk/internal/database"
	"retreatdesk/internal/events"
	"retreatdesk/internal/lock"
	jwtsvc "retreatdesk/internal/pkg/jwt"
	"retreatdesk/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, reading the environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	redisClient := config.NewRedisClient()
	if redisClient != nil {
		defer redisClient.Close()
		log.Println("run lock: redis")
	} else {
		log.Println("run lock: in-process")
	}

	board := events.NewBoard()
	defer board.Close()

	router := server.New(server.Options{
		DB:              db,
		JWT:             jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL),
		Locker:          lock.New(redisClient, cfg.RunLockTTL),
		Publisher:       events.NewPublisher(cfg.AMQPURL),
		Board:           board,
		ShuffleSeed:     cfg.ShuffleSeed,
		MonasticMarkers: cfg.MonasticMarkers,
		CORSOrigins:     cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
