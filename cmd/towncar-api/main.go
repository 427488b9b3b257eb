// README: Entry point; loads config, wires services, starts HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"towncar/internal/config"
	httptransport "towncar/internal/http"
	"towncar/internal/infra"
	"towncar/internal/maps"
	"towncar/internal/modules/booking"
	"towncar/internal/modules/fare"
	"towncar/internal/modules/refdata"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	routeService, err := maps.NewRouteService(cfg.Maps.APIKey)
	if err != nil {
		log.Fatalf("maps init: %v", err)
	}
	geocodeService, err := maps.NewGeocodeService(cfg.Maps.APIKey)
	if err != nil {
		log.Fatalf("maps init: %v", err)
	}

	fareStore := fare.NewStore(dbPool)
	bookingStore := booking.NewStore(dbPool)
	bookingSvc := booking.NewService(bookingStore, fareStore, routeService, booking.Config{
		RecalcDebounce: cfg.Booking.RecalcDebounce,
	})

	refdataStore := refdata.NewStore(dbPool, redisClient, cfg.Refdata.TTL)
	refdataSvc := refdata.NewService(refdataStore)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Booking:  bookingSvc,
		Rates:    fareStore,
		Refdata:  refdataSvc,
		Geocoder: geocodeService,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
