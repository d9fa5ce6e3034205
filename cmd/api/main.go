package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/snapsong-labs/snapsong/internal/adapters/gemini"
	"github.com/snapsong-labs/snapsong/internal/adapters/rest"
	"github.com/snapsong-labs/snapsong/internal/adapters/spotify"
	"github.com/snapsong-labs/snapsong/internal/adapters/sqlite"
	"github.com/snapsong-labs/snapsong/internal/config"
	"github.com/snapsong-labs/snapsong/internal/core/services"
	"github.com/snapsong-labs/snapsong/internal/httpclient"
	"github.com/snapsong-labs/snapsong/internal/worker"
)

func main() {
	// 1. Configuration (Environment Variables)
	// It's best practice to crash early if required config is missing.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARN: could not load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: invalid configuration: %v", err)
	}

	// 2. Initialize "Driven" Adapters (The Tools)
	// -- Resolution Cache
	cache, err := sqlite.NewAdapter(cfg.CachePath)
	if err != nil {
		log.Fatalf("FATAL: failed to initialize cache database: %v", err)
	}
	defer cache.Close()

	// -- Spotify Adapter
	catalogClient := httpclient.New(httpclient.Options{Timeout: cfg.CatalogTimeout})
	catalog := spotify.NewClient(spotify.Options{
		ClientID:     cfg.SpotifyClientID,
		ClientSecret: cfg.SpotifyClientSecret,
		HTTPClient:   catalogClient,
	})

	// -- Gemini Adapter
	suggester := gemini.NewClient(gemini.Options{
		APIKey:   cfg.GeminiAPIKey,
		Model:    cfg.GeminiModel,
		Grounded: cfg.GeminiGrounding,
		Timeout:  cfg.AITimeout,
	})

	// -- Preview Analysis Workers
	pool := worker.NewPool(cache, cfg.WorkerQueue)
	pool.Start(cfg.WorkerCount)
	defer pool.Stop()

	// 3. Initialize Core Logic (The Driver)
	// This is Dependency Injection in action.
	// We inject the specific adapters into the agnostic service.
	svc := services.NewOrchestrator(suggester, catalog, cache, pool, cfg.GeminiGrounding)

	// 4. Initialize "Driving" Adapter (The Interface)
	// The HTTP handler talks to the Service.
	handler := rest.CORS(cfg.AllowedOrigins, rest.NewHandler(svc))

	// 5. Start the Server
	log.Println("------------------------------------------------")
	log.Printf("🎶 SnapSong API is running on http://localhost:%s", cfg.Port)
	log.Println("------------------------------------------------")

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}
