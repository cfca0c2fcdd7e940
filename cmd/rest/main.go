package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"prescription-chatbot-be/internal/bootstrap"
	"prescription-chatbot-be/internal/config"
	"prescription-chatbot-be/internal/server"
	"prescription-chatbot-be/internal/tracer"
	"prescription-chatbot-be/internal/watcher"

	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer
	shutdownTracer, err := tracer.InitTracer(ctx, cfg.Otel)
	if err != nil {
		log.Printf("Tracing disabled: %v", err)
	}
	defer shutdownTracer(context.Background())

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(ctx, cfg)
	defer container.Logger.Sync()
	defer container.PubSub.Close()

	// 4. Start Background Services
	if err := container.AuditService.Consume(ctx); err != nil {
		container.Logger.Error("MAIN", "Audit consumer failed to start", map[string]interface{}{"error": err.Error()})
	}

	srv := server.New(cfg, container)
	g, gctx := errgroup.WithContext(ctx)

	if cfg.App.InboxDir != "" {
		inbox, err := watcher.NewInbox(cfg.App.InboxDir, container.PrescriptionService, container.Logger)
		if err != nil {
			container.Logger.Warn("MAIN", "Inbox watcher disabled", map[string]interface{}{"error": err.Error()})
		} else {
			g.Go(func() error {
				inbox.Run(gctx)
				return inbox.Stop()
			})
		}
	}

	// 5. Run Server until a signal or a failed listener
	g.Go(srv.Run)
	g.Go(func() error {
		<-gctx.Done()
		return srv.Shutdown()
	})

	if err := g.Wait(); err != nil {
		container.Logger.Error("MAIN", "Server stopped", map[string]interface{}{"error": err.Error()})
	}
}
