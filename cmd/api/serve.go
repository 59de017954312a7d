package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	_ "archiv/docs"
	"archiv/internal/catalog"
	"archiv/internal/config"
	handlers "archiv/internal/http/handler"
	"archiv/internal/http/middleware"
	"archiv/internal/logging"
	"archiv/internal/otel"
	"archiv/internal/service"
	"archiv/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&flagPort, "port", "p", "", "Listen port (overrides PORT)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, serviceName, logger)
	if err != nil {
		logger.Error("tracing_init_failed", map[string]any{"error": err})
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing_shutdown_failed", map[string]any{"error": err})
		}
	}()

	store, err := newStore(cfg, logger)
	if err != nil {
		logger.Error("storage_init_failed", map[string]any{"backend": cfg.Documents.Backend, "error": err})
		return err
	}

	app, docSvc, err := newServer(cfg, logger, store, prometheus.NewRegistry())
	if err != nil {
		logger.Error("server_init_failed", map[string]any{"error": err})
		return err
	}

	logStartup(ctx, cfg, logger, docSvc)

	errCh := make(chan error, 1)
	go func() { errCh <- app.Listen(":" + cfg.Port) }()

	select {
	case err := <-errCh:
		logger.Error("server_failed", map[string]any{"error": err})
		return err
	case <-ctx.Done():
	}

	logger.Info("server_stopping", nil)
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

// newServer assembles the fiber app with its middleware chain and routes.
func newServer(c *config.AppConfig, log *logging.Logger, store storage.Storage, reg *prometheus.Registry) (*fiber.App, service.DocumentService, error) {
	docSvc := service.NewDocumentService(store, log)

	courses, err := catalog.Load(c.CoursesFile)
	if err != nil {
		return nil, nil, err
	}

	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, nil, err
	}
	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, nil, err
	}
	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return nil, nil, err
	}

	cors, err := middleware.CORS(c.CORS.AllowedOrigins, c.CORS.AllowedOriginPatterns)
	if err != nil {
		return nil, nil, err
	}

	production := c.IsProduction()
	app := fiber.New(fiber.Config{
		AppName:               "Archiv Backend",
		ErrorHandler:          handlers.ErrorHandler(production),
		DisableStartupMessage: production,
	})

	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(log))
	app.Use(prom.Handler())
	app.Use(cors)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Swagger UI; the document has no host, so requests go to the host serving the UI.
	app.Get("/swagger/*", swagger.HandlerDefault)

	handlers.RegisterRoutes(app, handlers.Deps{
		Documents: docSvc,
		Courses:   courses,
		Info: handlers.ServerInfo{
			Name:        "Archiv Backend",
			Version:     version,
			Environment: c.Environment,
			Port:        c.Port,
			StartedAt:   time.Now(),
		},
		Serve: handlers.ServeOptions{
			CacheMaxAgeSec:    c.Documents.CacheMaxAgeSec,
			SendContentLength: c.Documents.SendContentLength,
			Production:        production,
			OnStreamError:     func(string, error) { prom.StreamError() },
		},
		Log: log,
	})

	return app, docSvc, nil
}

func logStartup(ctx context.Context, c *config.AppConfig, log *logging.Logger, docSvc service.DocumentService) {
	fields := map[string]any{
		"port":        c.Port,
		"environment": c.Environment,
		"backend":     c.Documents.Backend,
		"origins":     c.CORS.AllowedOrigins,
	}
	if c.Documents.Backend == config.BackendMinIO {
		fields["bucket"] = c.MinIO.Bucket
	} else {
		fields["document_dir"] = c.Documents.Dir
	}

	list, err := docSvc.List(ctx)
	if err != nil {
		fields["error"] = err
		log.Warn("server_starting", fields)
		return
	}
	names := make([]string, 0, len(list))
	for _, d := range list {
		names = append(names, d.Filename)
	}
	fields["pdf_count"] = len(list)
	fields["pdfs"] = names
	log.Info("server_starting", fields)
}
