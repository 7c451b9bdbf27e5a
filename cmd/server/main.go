package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Drivers
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	// Instrumentation
	"github.com/exaring/otelpgx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	// Interne
	"github.com/jupiterclapton/recipify/config"
	http_adapter "github.com/jupiterclapton/recipify/internal/adapters/primary/http"
	"github.com/jupiterclapton/recipify/internal/adapters/secondary/eventbroker"
	"github.com/jupiterclapton/recipify/internal/adapters/secondary/repository"
	"github.com/jupiterclapton/recipify/internal/adapters/secondary/repository/migrations"
	"github.com/jupiterclapton/recipify/internal/adapters/secondary/security"
	"github.com/jupiterclapton/recipify/internal/core/services"
)

func main() {
	// 1. Config & Logger
	cfg := config.Load()
	initLogger(cfg)
	slog.Info("🚀 Starting Recipify", "env", cfg.Env, "port", cfg.HTTPPort)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Télémétrie (Tracing)
	tp, err := initTracer(ctx, cfg)
	if err != nil {
		slog.Error("Failed to init tracer", "error", err)
	} else {
		defer func() { _ = tp.Shutdown(context.Background()) }()
	}

	// 3. Infrastructure: Base de données (Postgres)
	dbConfig, err := pgxpool.ParseConfig(cfg.DBUrl)
	if err != nil {
		slog.Error("Unable to parse DB config", "error", err)
		os.Exit(1)
	}
	// Instrumentation SQL (pour voir les requêtes dans Jaeger)
	dbConfig.ConnConfig.Tracer = otelpgx.NewTracer()

	dbPool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	slog.Info("✅ Connected to Postgres")

	// Schéma à jour avant de servir quoi que ce soit
	if err := migrations.Up(cfg.DBUrl); err != nil {
		slog.Error("Migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("✅ Database schema up to date")

	// 4. Infrastructure: Graphe social (Neo4j)
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jUrl, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		slog.Error("Unable to create Neo4j driver", "error", err)
		os.Exit(1)
	}
	defer driver.Close(ctx)

	if err := driver.VerifyConnectivity(ctx); err != nil {
		slog.Error("Unable to reach Neo4j", "error", err)
		os.Exit(1)
	}
	slog.Info("✅ Connected to Neo4j")

	// 5. Infrastructure: Event Broker (NATS)
	nc, err := nats.Connect(cfg.NatsUrl)
	if err != nil {
		slog.Error("Unable to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer nc.Close()
	slog.Info("✅ Connected to NATS")

	// 6. Initialisation des Adapters (Driven)
	userRepo := repository.NewUserRepo(dbPool)
	recipeRepo := repository.NewRecipeRepo(dbPool)
	favouriteRepo := repository.NewFavouriteRepo(dbPool)
	commentRepo := repository.NewCommentRepo(dbPool)
	graphRepo := repository.NewGraphRepo(driver)
	eventPub := eventbroker.NewNatsPublisher(nc)

	if err := graphRepo.EnsureSchema(ctx); err != nil {
		slog.Error("Unable to ensure graph schema", "error", err)
		os.Exit(1)
	}

	publicKeyPEM, err := os.ReadFile(cfg.JWTPublicKey)
	if err != nil {
		slog.Error("Unable to read JWT public key", "path", cfg.JWTPublicKey, "error", err)
		os.Exit(1)
	}
	verifier, err := security.NewJWTVerifier(publicKeyPEM)
	if err != nil {
		slog.Error("Unable to init JWT verifier", "error", err)
		os.Exit(1)
	}

	// 7. Initialisation du Core (Domain Logic)
	listingService := services.NewListingService(recipeRepo, userRepo, graphRepo, favouriteRepo)
	graphService := services.NewGraphService(graphRepo, userRepo, eventPub)
	favouriteService := services.NewFavouriteService(favouriteRepo, recipeRepo, eventPub)
	recipeService := services.NewRecipeService(recipeRepo, commentRepo, graphRepo, eventPub)

	// 8. Initialisation du Primary Adapter (HTTP)
	serverAdapter := http_adapter.NewServer(listingService, graphService, favouriteService, recipeService, verifier)

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           serverAdapter.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 9. Démarrage + Graceful Shutdown
	go func() {
		slog.Info("📡 Recipify listening", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("🛑 Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
	slog.Info("👋 Server exited")
}

// --- Helpers ---

func initLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.Env == "local" {
		opts.Level = slog.LevelDebug
	}
	var handler slog.Handler
	if cfg.Env == "local" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func initTracer(ctx context.Context, cfg config.Config) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OtelEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, _ := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String("recipify"),
			semconv.DeploymentEnvironmentKey.String(cfg.Env),
		),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}
