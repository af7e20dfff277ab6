package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"beneficios.club/internal/audit"
	"beneficios.club/internal/auth"
	"beneficios.club/internal/catalog"
	"beneficios.club/internal/config"
	"beneficios.club/internal/httpapi"
	"beneficios.club/internal/obs"
	"beneficios.club/internal/store/pg"
	"beneficios.club/internal/stream"
)

var version = "0.3.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	obs.Init()
	obs.InitBuildInfo(version, os.Getenv("BENEFICIOS_COMMIT"))

	deps := httpapi.Deps{
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
		RateBurst:    cfg.HTTP.RateBurst,
		RatePerSec:   cfg.HTTP.RatePerSec,
	}

	var store *pg.Store
	if cfg.DB.DSN != "" {
		store, err = pg.Open(cfg.DB.DSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db := store.DB()
		db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
		db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
		db.SetConnMaxIdleTime(cfg.DB.ConnMaxIdleTime)

		deps.Identities = store
		deps.Registry = store
		deps.Catalog = catalog.NewService(store)
		deps.Audit = store.Audit()
	} else {
		// No DSN: run on in-memory stores. Local development only.
		log.Println("BENEFICIOS_PG_DSN not set, using in-memory stores")
		deps.Identities = auth.NewInMemoryIdentityStore()
		deps.Registry = auth.NewInMemoryRegistry()
		deps.Catalog = catalog.NewService(catalog.NewInMemory())
		deps.Audit = audit.NewInMemoryStore()
	}

	deps.Auth = auth.NewService(deps.Identities, cfg.Auth.TokenTTL)
	deps.Stream = stream.New()
	recorder := audit.NewRecorder(deps.Audit, deps.Stream)
	deps.Recorder = recorder

	var probe httpapi.ReadyProbe
	if store != nil {
		probe.DB = store.DB()
	}
	api := httpapi.New(probe, version, deps)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	log.Printf("Starting beneficios-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")
	obs.SetReady(false)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	_ = srv.Shutdown(ctx)
	// Let in-flight audit writes land before the process exits.
	recorder.Drain()
	if store != nil {
		_ = store.Close()
	}
	log.Println("Stopped")
}
