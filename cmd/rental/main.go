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

	"github.com/cloudrental/go-car-rental.git/internal/carsapi"
	"github.com/cloudrental/go-car-rental.git/internal/config"
	"github.com/cloudrental/go-car-rental.git/internal/httpx"
	kafkax "github.com/cloudrental/go-car-rental.git/internal/kafka"
	"github.com/cloudrental/go-car-rental.git/internal/postgres"
	"github.com/cloudrental/go-car-rental.git/internal/redisx"
	"github.com/cloudrental/go-car-rental.git/internal/rental"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.MigrateRentals(ctx, db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	pCreated := kafkax.NewProducer(cfg.KafkaBrokers, rental.TopicRentalCreated, 1024)
	pCreated.Start(ctx)
	pCancelled := kafkax.NewProducer(cfg.KafkaBrokers, rental.TopicRentalCancelled, 1024)
	pCancelled.Start(ctx)
	pSync := kafkax.NewProducer(cfg.KafkaBrokers, rental.TopicCarSyncPending, 1024)
	pSync.Start(ctx)

	// Repo, cars client & handler
	repo := &rental.Repo{DB: db}
	router := httpx.NewRouter(cfg.ServiceName)
	rh := &httpx.RentalsHandler{
		Repo:         repo,
		Cars:         carsapi.New(cfg.CarsBaseURL),
		Events:       pCreated,
		CancelEvents: pCancelled,
		SyncEvents:   pSync,
		Redis:        rdb,
		Service:      cfg.ServiceName,
	}
	rh.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	// close inboxes -> flush & close writers
	pCreated.Close()
	pCancelled.Close()
	pSync.Close()
	cancel()
	pCreated.WaitClosed()
	pCancelled.WaitClosed()
	pSync.WaitClosed()
}
