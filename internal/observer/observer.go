package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// EventType represents the type of job event
type EventType string

const (
	// JobStarted when a job begins dispatching pages
	JobStarted EventType = "job_started"
	// PageCompleted when a page's OCR call succeeds
	PageCompleted EventType = "page_completed"
	// PageFailed when a page's OCR call fails
	PageFailed EventType = "page_failed"
	// JobCompleted when the whole job finishes
	JobCompleted EventType = "job_completed"
)

// JobEvent represents one observable moment in a job's lifecycle.
type JobEvent struct {
	Type      EventType     `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
	Document  string        `json:"document"`
	Page      int           `json:"page,omitempty"`
	Pages     int           `json:"pages,omitempty"`
	Elapsed   time.Duration `json:"elapsed,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event JobEvent)
	Name() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Notify(ctx context.Context, event JobEvent)
}

// Publisher implements Subject with a mutex-guarded subscriber list.
type Publisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewPublisher creates an empty event publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// Subscribe registers an observer.
func (p *Publisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Notify delivers the event to every subscribed observer in order.
func (p *Publisher) Notify(ctx context.Context, event JobEvent) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, o := range p.observers {
		o.OnEvent(ctx, event)
	}
}

// LoggingObserver logs job events.
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a logging observer.
func NewLoggingObserver(logger *logrus.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

// OnEvent handles job events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event JobEvent) {
	fields := logrus.Fields{
		"event_type": event.Type,
		"document":   event.Document,
	}
	if event.Elapsed > 0 {
		fields["elapsed"] = event.Elapsed.String()
	}
	if event.Error != "" {
		fields["error"] = event.Error
	}

	switch event.Type {
	case JobStarted:
		fields["pages"] = event.Pages
		o.logger.WithFields(fields).Info("OCR job started")
	case PageCompleted:
		fields["page"] = event.Page
		o.logger.WithFields(fields).Debug("Page completed")
	case PageFailed:
		fields["page"] = event.Page
		o.logger.WithFields(fields).Warn("Page failed")
	case JobCompleted:
		fields["pages"] = event.Pages
		o.logger.WithFields(fields).Info("OCR job completed")
	default:
		o.logger.WithFields(fields).Info("Job event occurred")
	}
}

// Name returns the observer name
func (o *LoggingObserver) Name() string {
	return "logging_observer"
}

// MetricsObserver collects counters from job events.
type MetricsObserver struct {
	mu             sync.RWMutex
	pagesCompleted int64
	pagesFailed    int64
	totalOCRTime   time.Duration
}

// NewMetricsObserver creates a metrics observer.
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// OnEvent handles job events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event JobEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.Type {
	case PageCompleted:
		o.pagesCompleted++
		o.totalOCRTime += event.Elapsed
	case PageFailed:
		o.pagesFailed++
	}
}

// Name returns the observer name
func (o *MetricsObserver) Name() string {
	return "metrics_observer"
}

// Metrics returns the counters collected so far.
func (o *MetricsObserver) Metrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avg := time.Duration(0)
	if o.pagesCompleted > 0 {
		avg = o.totalOCRTime / time.Duration(o.pagesCompleted)
	}
	return map[string]interface{}{
		"pages_completed": o.pagesCompleted,
		"pages_failed":    o.pagesFailed,
		"total_ocr_time":  o.totalOCRTime,
		"avg_ocr_time":    avg,
	}
}
