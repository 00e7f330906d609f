package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"launchdash/internal/config"
	"launchdash/internal/container"
	"launchdash/ui"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	log.Printf("Loaded %s", appContainer)

	server, err := ui.NewServer(appContainer)
	if err != nil {
		log.Fatalf("Failed to create web server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if appConfig.Profiling.Enabled {
		opsAddr := net.JoinHostPort(appConfig.Server.Host, appConfig.Profiling.Port)
		go func() {
			log.Printf("View profiles: go tool pprof -http=:8081 http://%s/debug/pprof/profile?seconds=30", opsAddr)
			if err := ui.StartOps(ctx, appContainer, opsAddr); err != nil {
				log.Printf("ops server failed: %v", err)
			}
		}()
	}

	log.Printf("Starting launch dashboard on http://%s", appConfig.Server.Addr())
	if err := server.Start(ctx, appConfig.Server.Addr()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
