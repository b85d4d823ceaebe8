package main

import (
	"context"
	"log"
	"os"

	"iso20022-assistant-be/internal/bootstrap"
	"iso20022-assistant-be/internal/config"
	"iso20022-assistant-be/internal/server"
	"iso20022-assistant-be/internal/tracer"
	"iso20022-assistant-be/pkg/docstore"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Load Reference Documents
	docsLogger := log.New(os.Stdout, "[DOCSTORE] ", log.LstdFlags)
	store, err := docstore.Open(cfg.Docs.Dir, docsLogger)
	if err != nil {
		log.Panicf("Unable to load reference documents: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(store, cfg)

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
