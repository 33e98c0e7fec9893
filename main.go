package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/MegatronPika/question-system-v3/auth"
	"github.com/MegatronPika/question-system-v3/backup"
	"github.com/MegatronPika/question-system-v3/bank"
	"github.com/MegatronPika/question-system-v3/config"
	"github.com/MegatronPika/question-system-v3/handlers"
	"github.com/MegatronPika/question-system-v3/store"
	"github.com/MegatronPika/question-system-v3/utils"
)

func main() {
	// Set up logging with timestamps
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	utils.LogStartup("Question practice API starting...")

	cfg := config.Load()
	utils.LogStartup("Listening port: %s", cfg.Port)
	utils.LogStartup("Question bank file: %s", cfg.QuestionsFile)
	if cfg.VolumePath != "" {
		utils.LogStartup("Data volume: %s", cfg.VolumePath)
	}

	st := store.New(cfg.UserDataFile, cfg.VolumePath, cfg.SnapshotEnvVar)
	repo := bank.NewRepository(cfg.QuestionsFile, cfg.CacheTTL)
	sessionStore := auth.NewSessionStore()

	// Warm the question cache so the first request does not pay the load.
	utils.LogStartup("Question bank loaded: %d questions", len(repo.GetAll()))

	backupMgr := backup.NewManager(cfg.BackupDir, cfg.BackupKeep)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.BackupSchedule, func() {
		snapshot, err := st.Snapshot()
		if err != nil {
			utils.LogBackup("Snapshot failed: %v", err)
			return
		}
		path, err := backupMgr.Create(snapshot)
		if err != nil {
			utils.LogBackup("Scheduled backup failed: %v", err)
			return
		}
		utils.LogBackup("Scheduled backup written to %s", path)
	}); err != nil {
		log.Fatalf("[FATAL] Invalid backup schedule %q: %v", cfg.BackupSchedule, err)
	}
	scheduler.Start()
	utils.LogStartup("Backup schedule: %s (keep %d)", cfg.BackupSchedule, cfg.BackupKeep)

	router := handlers.NewRouter(cfg, st, repo, sessionStore)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		utils.LogShutdown("Received shutdown signal")
		scheduler.Stop()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			utils.LogError("Server shutdown: %v", err)
		}
	}()

	utils.LogStartup("Server ready to accept connections at http://localhost:%s", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[FATAL] Server failed to start: %v", err)
	}
	utils.LogShutdown("Server stopped")
}
