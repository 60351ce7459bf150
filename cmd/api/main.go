package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/yunseochoi/famtalk/backend/internal/config"
	"github.com/yunseochoi/famtalk/backend/internal/handler"
	"github.com/yunseochoi/famtalk/backend/internal/model/persona"
	"github.com/yunseochoi/famtalk/backend/internal/service/ai"
	"github.com/yunseochoi/famtalk/backend/internal/service/chat"
	"github.com/yunseochoi/famtalk/backend/internal/service/fortune"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Persona loading runs to completion before the listener starts. A
	// missing or malformed file degrades the store to empty rather than
	// failing startup: every conversation start then answers 400.
	personaStore, err := persona.LoadFile(cfg.Personas.File)
	if err != nil {
		log.Printf("warning: failed to load personas from %s: %v", cfg.Personas.File, err)
		log.Println("continuing with an empty persona store - conversation creation will be rejected")
		personaStore = persona.NewMemoryStore(nil)
	} else {
		log.Printf("loaded %d persona(s) from %s", len(personaStore.List()), cfg.Personas.File)
	}

	chatSvc := chat.NewService()
	chatSvc.StartJanitor(ctx, cfg.Session.TTL, cfg.Session.SweepInterval)

	if !cfg.Provider.Enabled() {
		log.Println("warning: OPENAI_API_KEY is not set - provider calls will fail")
	}
	gateway := ai.NewGateway(cfg.Provider)
	fortuneSvc := fortune.NewService(gateway)

	router := handler.NewRouter(personaStore, chatSvc, gateway, fortuneSvc)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("famtalk backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
