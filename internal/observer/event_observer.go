package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"go-image-quality/pkg/models"
)

// EvaluationEvent describes one step of an evaluation
type EvaluationEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	Source         string                 `json:"source"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	QualityLevel   models.QualityLevel    `json:"quality_level,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of evaluation event
type EventType string

const (
	// EvaluationStarted when an evaluation begins
	EvaluationStarted EventType = "evaluation_started"
	// EvaluationCompleted when a report was produced
	EvaluationCompleted EventType = "evaluation_completed"
	// EvaluationFailed when no report could be produced
	EvaluationFailed EventType = "evaluation_failed"
	// ImageFetched when the image reached local disk
	ImageFetched EventType = "image_fetched"
	// ImageFetchFailed when the image could not be fetched
	ImageFetchFailed EventType = "image_fetch_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event EvaluationEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event EvaluationEvent)
}

// LoggingObserver logs evaluation events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles evaluation events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event EvaluationEvent) {
	fields := logrus.Fields{
		"event_type":      event.EventType,
		"source":          event.Source,
		"processing_time": event.ProcessingTime,
		"success":         event.Success,
	}

	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	if event.QualityLevel != models.QualityUnknown {
		fields["quality_level"] = event.QualityLevel.String()
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case EvaluationStarted:
		entry.Debug("Image evaluation started")
	case EvaluationCompleted:
		entry.Info("Image evaluation completed")
	case EvaluationFailed:
		entry.Error("Image evaluation failed")
	case ImageFetched:
		entry.Debug("Image fetched successfully")
	case ImageFetchFailed:
		entry.Warn("Image fetch failed")
	default:
		entry.Info("Evaluation event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver collects counters from evaluation events
type MetricsObserver struct {
	mu                    sync.RWMutex
	totalEvaluations      int64
	successfulEvaluations int64
	failedEvaluations     int64
	totalProcessingTime   time.Duration
	byQualityLevel        map[models.QualityLevel]int64
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{byQualityLevel: make(map[models.QualityLevel]int64)}
}

// OnEvent handles evaluation events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event EvaluationEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case EvaluationStarted:
		o.totalEvaluations++
	case EvaluationCompleted:
		o.successfulEvaluations++
		o.totalProcessingTime += event.ProcessingTime
		o.byQualityLevel[event.QualityLevel]++
	case EvaluationFailed:
		o.failedEvaluations++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// Stats returns a snapshot of the counters
func (o *MetricsObserver) Stats() models.StatsResponse {
	o.mu.RLock()
	defer o.mu.RUnlock()

	var avgMs float64
	if o.successfulEvaluations > 0 {
		avg := o.totalProcessingTime / time.Duration(o.successfulEvaluations)
		avgMs = float64(avg) / float64(time.Millisecond)
	}

	levels := make(map[models.QualityLevel]int64, len(o.byQualityLevel))
	for k, v := range o.byQualityLevel {
		levels[k] = v
	}

	return models.StatsResponse{
		TotalEvaluations:      o.totalEvaluations,
		SuccessfulEvaluations: o.successfulEvaluations,
		FailedEvaluations:     o.failedEvaluations,
		AvgProcessingTimeMs:   avgMs,
		ByQualityLevel:        levels,
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers delivers event to every observer in subscription order.
// A panicking observer is logged and skipped.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event EvaluationEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	for _, obs := range observers {
		notify(ctx, obs, event)
	}
}

func notify(ctx context.Context, obs Observer, event EvaluationEvent) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("observer", obs.GetObserverName()).
				WithField("panic", r).
				Error("Observer panicked while handling event")
		}
	}()
	obs.OnEvent(ctx, event)
}
