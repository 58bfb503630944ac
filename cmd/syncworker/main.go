package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cloudrental/go-car-rental.git/internal/carsapi"
	"github.com/cloudrental/go-car-rental.git/internal/config"
	kafkax "github.com/cloudrental/go-car-rental.git/internal/kafka"
	"github.com/cloudrental/go-car-rental.git/internal/redisx"
	"github.com/cloudrental/go-car-rental.git/internal/rental"
	"github.com/cloudrental/go-car-rental.git/internal/syncworker"
)

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &syncworker.Service{
		Cars:  carsapi.New(cfg.CarsBaseURL),
		Redis: rdb,
	}

	group := getenv("SYNCWORKER_GROUP", "carsync-worker")
	workers := mustAtoi(os.Getenv("SYNCWORKER_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, rental.TopicCarSyncPending, workers)

	go func() {
		log.Printf("sync consumer started: group=%s topic=%s workers=%d", group, rental.TopicCarSyncPending, workers)
		if err := cons.Start(ctx, svc.HandleCarSyncPending); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
