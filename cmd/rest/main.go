package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"library-management-be/internal/bootstrap"
	"library-management-be/internal/config"
	"library-management-be/internal/server"
	"library-management-be/internal/tracer"
	"library-management-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(gormDB, cfg)
	if err != nil {
		log.Fatalf("Bootstrap failed: %v", err)
	}
	defer container.Close()

	shutdownTracer := tracer.InitTracer(cfg.App, container.Logger)
	defer shutdownTracer(context.Background())

	// 4. Start Background Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := container.ConsumerService.Consume(ctx); err != nil {
		container.Logger.Error("MAIN", "Consumer failed to start", map[string]interface{}{"error": err.Error()})
	}
	if container.EventAudit != nil {
		if err := container.EventAudit.Start(ctx); err != nil {
			container.Logger.Warn("MAIN", "Event audit failed to start", map[string]interface{}{"error": err.Error()})
		}
		defer container.EventAudit.Stop()
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		container.Logger.Info("MAIN", "Shutting down", nil)
		_ = srv.Shutdown()
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		container.Logger.Error("MAIN", "Server stopped", map[string]interface{}{"error": err.Error()})
	}
}
