package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"

	"github.com/hkaplan/crisispin/config"
	"github.com/hkaplan/crisispin/internal/db"
	api "github.com/hkaplan/crisispin/internal/http/rest"
)

const (
	allowConnectionsAfterShutdown = 1 * time.Second
)

func main() {
	cfg := config.New()

	if cfg.Dsn == "" {
		log.Fatal("missing DSN in environment")
	}

	database, err := db.New(cfg.Dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	a := &api.API{
		Config: cfg,
		DB:     database.Pool(),
	}
	go func() {
		log.Infof("Server running on port %v ...", cfg.Port)
		if err := a.Serve(); err != nil {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-stopChan

	log.Infof("Request to shutdown server. Doing nothing for %v", allowConnectionsAfterShutdown)
	waitTimer := time.NewTimer(allowConnectionsAfterShutdown)
	<-waitTimer.C

	log.Info("Shutting down server...")

	if err := a.Shutdown(); err != nil {
		log.Errorf("server shutdown: %v", err)
	}
	database.Close()
	log.Info("Database connections closed.")
}
