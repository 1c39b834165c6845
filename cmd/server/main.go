package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gala/internal/audit"
	cataloghandler "gala/internal/catalog/handler"
	catalogstore "gala/internal/catalog/store"
	certhandler "gala/internal/certificates/handler"
	certmetrics "gala/internal/certificates/metrics"
	"gala/internal/certificates/renderer"
	certservice "gala/internal/certificates/service"
	"gala/internal/certificates/signer"
	certstore "gala/internal/certificates/store"
	"gala/internal/platform/config"
	"gala/internal/platform/httpserver"
	"gala/internal/platform/logger"
	"gala/internal/platform/postgres"
	platformredis "gala/internal/platform/redis"
	"gala/internal/ratelimit"
	resulthandler "gala/internal/results/handler"
	resultmetrics "gala/internal/results/metrics"
	resultservice "gala/internal/results/service"
	resultstore "gala/internal/results/store"
	httptransport "gala/internal/transport/http"
	"gala/pkg/platform/circuit"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	// Stores: postgres when configured, in-memory otherwise.
	var (
		db         *sql.DB
		catalog    catalogStores
		results    resultstore.ResultStore
		certs      certstore.CertificateStore
		auditStore audit.Store
	)
	if cfg.Postgres.URL != "" {
		var err error
		db, err = postgres.Open(ctx, cfg.Postgres.URL)
		if err != nil {
			fatal(log, "postgres connect failed", err)
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			fatal(log, "postgres migrate failed", err)
		}
		pg := catalogstore.NewPostgres(db)
		catalog = catalogStores{pg.Events(), pg.Items(), pg.Sections(), pg.Participants(), pg.Registrations(), pg.GroupRegistrations()}
		results = resultstore.NewPostgres(db)
		certs = certstore.NewPostgres(db)
		auditStore = audit.NewPostgresStore(db)
		log.Info("using postgres stores")
	} else {
		mem := catalogstore.NewMemory()
		catalog = catalogStores{mem.Events(), mem.Items(), mem.Sections(), mem.Participants(), mem.Registrations(), mem.GroupRegistrations()}
		results = resultstore.NewMemory()
		certs = certstore.NewMemory()
		auditStore = audit.NewMemoryStore()
		log.Info("using in-memory stores")
	}

	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		fatal(log, "redis connect failed", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Audit trail, optionally fanned out to kafka.
	auditOpts := []audit.Option{}
	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := audit.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			fatal(log, "kafka connect failed", err)
		}
		defer sink.Close()
		auditOpts = append(auditOpts, audit.WithSink(sink))
		log.Info("audit events fanned out to kafka", "topic", cfg.Kafka.Topic)
	}
	auditPublisher := audit.NewPublisher(auditStore, log, auditOpts...)

	// Results module.
	resultSvc, err := resultservice.New(
		results,
		catalog.items, catalog.events, catalog.registrations,
		catalog.groupRegistrations, catalog.participants, catalog.sections,
		log,
		resultservice.WithAuditPublisher(auditPublisher),
		resultservice.WithMetrics(resultmetrics.New()),
	)
	if err != nil {
		fatal(log, "results service init failed", err)
	}

	// Certificates module.
	breaker := circuit.New("renderer",
		circuit.WithFailureThreshold(5),
		circuit.WithSuccessThreshold(2),
	)
	rendererClient := renderer.New(cfg.Renderer, log, renderer.WithBreaker(breaker))
	certSvc, err := certservice.New(
		certs,
		catalog.items,
		certservice.NewResolver(catalog.events, catalog.items, catalog.participants, catalog.sections),
		signer.New(cfg.Signing.Secret, cfg.Signing.Issuer),
		rendererClient,
		log,
		certservice.WithAuditPublisher(auditPublisher),
		certservice.WithMetrics(certmetrics.New()),
	)
	if err != nil {
		fatal(log, "certificates service init failed", err)
	}

	// Rate limiter for issuance, redis-backed when available.
	var counters ratelimit.CounterStore = ratelimit.NewMemoryStore()
	if redisClient != nil {
		counters = ratelimit.NewRedisStore(redisClient.Client)
	}
	limiter := ratelimit.New(counters, log,
		ratelimit.WithDisabled(!cfg.RateLimit.Enabled),
		ratelimit.WithWindow(cfg.RateLimit.Window),
	)

	healthChecks := map[string]httptransport.HealthChecker{}
	if db != nil {
		healthChecks["postgres"] = pingChecker{db}
	}
	if redisClient != nil {
		healthChecks["redis"] = redisClient
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Catalog: cataloghandler.New(
			catalog.events, catalog.items, catalog.sections,
			catalog.participants, catalog.registrations, catalog.groupRegistrations,
			log,
		),
		Results:      resulthandler.New(resultSvc, log),
		Certificates: certhandler.New(certSvc, log),
		IssueLimit:   limiter.Limit(cfg.RateLimit.Limit),
		HealthChecks: healthChecks,
	})

	srv := httpserver.New(cfg.Server.Addr, router)
	log.Info("starting gala server", "addr", cfg.Server.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(log, "server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fatal(log, "graceful shutdown failed", err)
	}
}

// catalogStores groups the catalog read surfaces so wiring stays readable.
type catalogStores struct {
	events             catalogstore.EventStore
	items              catalogstore.ItemStore
	sections           catalogstore.SectionStore
	participants       catalogstore.ParticipantStore
	registrations      catalogstore.RegistrationStore
	groupRegistrations catalogstore.GroupRegistrationStore
}

type pingChecker struct {
	db *sql.DB
}

func (c pingChecker) Health(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
