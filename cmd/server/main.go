package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gobrgbridge/config"
	"gobrgbridge/history"
	"gobrgbridge/redis"
	"gobrgbridge/workers"
	"gobrgbridge/workers/handlers"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger := logrus.New()
	logger.Print("Starting BRG bridge transfer tracker")

	f, err := os.OpenFile(fmt.Sprintf("logs/log_%s.txt", time.Now().Format("2006-01-02")), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		logger.Fatalf("error opening log file for writing: %v", err)
	}
	defer f.Close()

	logger.SetOutput(f)

	config.Init()
	cfg := config.Config
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.WithFields(logrus.Fields{
		"network":        cfg.Network,
		"poll_interval":  cfg.Tracker.PollInterval,
		"sweep_interval": cfg.Tracker.SweepInterval,
		"history_key":    cfg.History.Key,
	}).Info("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// connect to Redis, without persistence do not continue
	kv := redis.New(logger, cfg.Server.RedisHost, cfg.Server.RedisPort, cfg.Server.RedisDB)
	defer kv.Close()
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = kv.Ping(pingCtx)
	cancel()
	if err != nil {
		logger.Fatalf("cannot reach Redis: %v", err)
	}

	store := history.NewStore(logger, kv, cfg.History.Key, cfg.History.Capacity)
	chains := workers.NewChains(logger, cfg.Chains())
	poller := workers.NewPoller(logger, store, chains)
	tracker := workers.NewTracker(logger, poller, cfg.Tracker.PollInterval, cfg.Tracker.PollTimeout, cfg.IsTestnet())
	sweeper := workers.NewSweeper(logger, poller, store, cfg.Tracker.SweepInterval, cfg.Tracker.PollTimeout)
	api := handlers.NewAPI(logger, store, tracker, cfg.Chains(), cfg.IsTestnet())

	// two workers share the history store:
	// * sweep of every non-terminal transfer, resumes tracking after restart
	// * HTTP API, starts one tracker per submitted transfer
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return sweeper.Run(ctx)
	})
	eg.Go(func() error {
		return workers.Worker_HTTP(ctx, logger, cfg.Server.Port, workers.NewRouter(api))
	})

	err = eg.Wait()
	tracker.Stop()
	if err != nil {
		logger.Errorf("stopped with error: %v", err)
		os.Exit(1)
	}
	logger.Info("tracker shutdown normal")
}
