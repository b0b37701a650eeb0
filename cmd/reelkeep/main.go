package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/reelkeep/reelkeep/internal/api"
	"github.com/reelkeep/reelkeep/internal/config"
	"github.com/reelkeep/reelkeep/internal/db"
	"github.com/reelkeep/reelkeep/internal/jobs"
	"github.com/reelkeep/reelkeep/internal/scheduler"
	"github.com/reelkeep/reelkeep/internal/version"
)

func main() {
	ver := version.Load()
	log.Printf("ReelKeep %s starting...", ver.Version)

	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	cfg.MergeFromDB(database.DB)

	queue := jobs.NewQueue(cfg.RedisAddr)
	defer queue.Stop()

	srv, err := api.NewServer(cfg, database, queue, ver)
	if err != nil {
		log.Fatalf("server setup failed: %v", err)
	}

	jobs.RegisterHandlers(queue, srv.Scanner(), srv.PathRepo(), srv.MovieRepo(),
		srv.FrameRepo(), srv.TranscriptRepo(), srv.Transcriber(),
		srv.FrameExtractor(), srv.SettingsRepo(), cfg, srv.WSHub())

	ctx := context.Background()
	if err := queue.Start(ctx); err != nil {
		log.Fatalf("job queue failed: %v", err)
	}

	enqueueScan := func(pathID uuid.UUID) {
		if _, err := queue.EnqueueScan(pathID); err != nil {
			log.Printf("failed to enqueue scan for %s: %v", pathID, err)
		}
	}

	sched := scheduler.New(srv.PathRepo(), enqueueScan)
	if err := sched.Start(cfg.ScanCron); err != nil {
		log.Printf("scheduler disabled: %v", err)
	} else {
		defer sched.Stop()
	}

	if fw := srv.Watcher(); fw != nil {
		fw.Start()
		defer fw.Stop()
	} else {
		log.Println("filesystem watcher disabled")
	}

	httpServer := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on :%d", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	httpServer.Shutdown(shutdownCtx)
}
