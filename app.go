package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"todo-api/attachments"
	"todo-api/config"
	"todo-api/db"
	_ "todo-api/docs"
	"todo-api/handlers"
	"todo-api/middlewares"
	"todo-api/service"
	"todo-api/tracing"
)

// buildApp constructs every client once and returns the root handler.
func buildApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (http.Handler, func(), error) {
	tp, err := tracing.NewProvider(ctx, tracing.Config{
		Enabled:     cfg.TracingEnabled,
		Exporter:    cfg.TracingExporter,
		Endpoint:    cfg.TracingEndpoint,
		SampleRate:  cfg.TracingSampleRate,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("start tracing: %w", err)
	}
	shutdownTracing := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}
	cleanup := shutdownTracing

	var (
		awsCfg    aws.Config
		awsLoaded bool
	)
	loadAWS := func() (aws.Config, error) {
		if awsLoaded {
			return awsCfg, nil
		}
		c, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return aws.Config{}, fmt.Errorf("load AWS config: %w", err)
		}
		tracing.InstrumentAWS(&c, tp.TracerProvider())
		awsCfg, awsLoaded = c, true
		return awsCfg, nil
	}

	var store service.TodoStore
	switch cfg.StorageBackend {
	case config.StorageBackendPostgres:
		sqlDB, closeDB, err := db.Connect(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		cleanup = func() {
			closeDB()
			shutdownTracing()
		}
		store = db.NewPostgresStore(sqlDB, cfg.TodosTable)
	case config.StorageBackendDynamoDB:
		c, err := loadAWS()
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		store = db.NewDynamoStore(dynamodb.NewFromConfig(c), cfg.TodosTable, cfg.TodosByUserIndex)
	default:
		logger.Warn("using in-memory storage, data is lost on restart")
		store = db.NewMemoryStore()
	}

	var (
		files   service.AttachmentStore
		uploads *handlers.UploadHandler
	)
	switch cfg.AttachmentBackend {
	case config.AttachmentBackendLocal:
		local, err := attachments.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL, []byte(cfg.JWTSecret), cfg.SignedURLExpiration)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		files = local
		uploads = handlers.NewUploadHandler(local, logger)
	default:
		c, err := loadAWS()
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		files = attachments.NewS3Store(s3.NewPresignClient(s3.NewFromConfig(c)), cfg.AttachmentsBucket, cfg.SignedURLExpiration)
	}

	auth, err := middlewares.NewAuthenticator(cfg.JWTSecret, cfg.JWTPublicKey, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	todos := service.NewTodoService(store, files, logger)
	router := handlers.NewRouter(handlers.RouterConfig{
		Todos:    handlers.NewTodoHandler(todos, logger),
		Uploads:  uploads,
		Auth:     auth,
		Metrics:  middlewares.NewMetrics(registry),
		Gatherer: registry,
		Tracing:  tracing.Middleware(cfg.ServiceName, tp.TracerProvider()),
	})

	return middlewares.Chain(logger, router), cleanup, nil
}
