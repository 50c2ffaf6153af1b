package container

import (
	"fmt"
	"net/http"

	"go-image-quality/internal/analyzer"
	"go-image-quality/internal/config"
	"go-image-quality/internal/factory"
	"go-image-quality/internal/logger"
	"go-image-quality/internal/observer"
	"go-image-quality/internal/repository"
	"go-image-quality/internal/service"
	"go-image-quality/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config            *config.Config
	pool              *analyzer.WorkerPool
	evaluator         analyzer.ImageEvaluator
	imageRepository   repository.ImageRepository
	metrics           *observer.MetricsObserver
	evaluationService service.EvaluationService
	handler           http.Handler
}

// NewContainer creates a new dependency injection container. The worker
// pool is started here and released by Close.
func NewContainer(cfg *config.Config) (*Container, error) {
	logger.SetLevel(cfg.LogLevel)

	components := factory.NewComponentFactory(cfg)

	resolutions, err := components.StrategyFactory.CreateStrategy(factory.StrategyType(cfg.ResolutionStrategy))
	if err != nil {
		return nil, fmt.Errorf("failed to create resolution strategy: %w", err)
	}
	evaluator := analyzer.NewEvaluator(analyzer.DefaultOptions().WithResolutionStrategy(resolutions))

	sources, err := buildSources(components.StorageFactory, cfg)
	if err != nil {
		return nil, err
	}
	imageRepository := repository.NewSourceRepository(sources, nil)

	metrics := observer.NewMetricsObserver()
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(metrics)

	pool := analyzer.NewWorkerPool(cfg.Workers)
	pool.Start()

	evaluationService := service.NewEvaluationService(imageRepository, evaluator, pool, publisher, service.Config{
		FetchTimeout:      cfg.FetchTimeout,
		EvaluationTimeout: cfg.EvaluationTimeout,
		MaxUploadSize:     cfg.MaxUploadSize,
	})
	handler := transport.NewHandler(evaluationService, metrics, cfg)

	logger.WithFields(map[string]interface{}{
		"workers":       pool.Workers(),
		"strategy":      resolutions.GetStrategyName(),
		"azure_enabled": sources.Azure != nil,
		"local_enabled": sources.Local != nil,
		"max_upload_mb": cfg.MaxUploadSize >> 20,
	}).Info("Container initialized")

	return &Container{
		config:            cfg,
		pool:              pool,
		evaluator:         evaluator,
		imageRepository:   imageRepository,
		metrics:           metrics,
		evaluationService: evaluationService,
		handler:           handler,
	}, nil
}

func buildSources(f factory.StorageFactory, cfg *config.Config) (repository.Sources, error) {
	var sources repository.Sources

	httpSource, err := f.CreateStorage(factory.HTTPStorage)
	if err != nil {
		return sources, fmt.Errorf("failed to create http storage: %w", err)
	}
	sources.HTTP = httpSource

	if cfg.AzureEnabled() {
		if sources.Azure, err = f.CreateStorage(factory.AzureStorage); err != nil {
			return sources, fmt.Errorf("failed to create azure storage: %w", err)
		}
	}
	if cfg.AllowLocalPaths {
		if sources.Local, err = f.CreateStorage(factory.LocalStorage); err != nil {
			return sources, fmt.Errorf("failed to create local storage: %w", err)
		}
	}
	return sources, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Service returns the evaluation service
func (c *Container) Service() service.EvaluationService {
	return c.evaluationService
}

// Stats returns the evaluation counters
func (c *Container) Stats() *observer.MetricsObserver {
	return c.metrics
}

// Close stops the worker pool after queued evaluations finish
func (c *Container) Close() {
	c.pool.Close()
	c.pool.Wait()
	logger.WithFields(map[string]interface{}{
		"completed_jobs": c.pool.GetStats().CompletedJobs,
	}).Info("Worker pool stopped")
}
