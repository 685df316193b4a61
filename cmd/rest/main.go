package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"finquest-be/internal/bootstrap"
	"finquest-be/internal/config"
	"finquest-be/internal/server"
	"finquest-be/internal/tracer"
	"finquest-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Tracing
	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled)
	defer shutdownTracer(context.Background())

	// 3. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.App.IsProduction())
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 5. Start Background Services
	if err := container.RankService.Consume(ctx); err != nil {
		log.Printf("Background: rank consumer not started: %v", err)
	}
	if container.Relay != nil {
		go func() {
			if err := container.Relay.Run(ctx); err != nil {
				log.Printf("Background: redis relay stopped: %v", err)
			}
		}()
	}

	// 6. Run Server
	srv := server.New(cfg, container)
	go func() {
		if err := srv.Run(); err != nil {
			log.Printf("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	// Closing the bus ends every open stream so the HTTP shutdown does not wait on them.
	container.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
