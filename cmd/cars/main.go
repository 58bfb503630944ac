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

	"github.com/cloudrental/go-car-rental.git/internal/cars"
	"github.com/cloudrental/go-car-rental.git/internal/config"
	"github.com/cloudrental/go-car-rental.git/internal/httpx"
	"github.com/cloudrental/go-car-rental.git/internal/postgres"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.MigrateCars(ctx, db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	router := httpx.NewRouter("cars-service")
	ch := &httpx.CarsHandler{Repo: &cars.Repo{DB: db}}
	ch.Register(router)

	srv := &http.Server{Addr: cfg.CarsHTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.CarsHTTPAddr)
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
}
