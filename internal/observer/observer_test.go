package observer

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []JobEvent
}

func (o *recordingObserver) OnEvent(ctx context.Context, event JobEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) Name() string { return "recording_observer" }

func (o *recordingObserver) recorded() []JobEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]JobEvent, len(o.events))
	copy(out, o.events)
	return out
}

func TestPublisher_NotifyDeliversToAllObservers(t *testing.T) {
	pub := NewPublisher()
	first := &recordingObserver{}
	second := &recordingObserver{}
	pub.Subscribe(first)
	pub.Subscribe(second)

	event := JobEvent{Type: JobStarted, Document: "doc.pdf", Pages: 3}
	pub.Notify(context.Background(), event)

	for _, obs := range []*recordingObserver{first, second} {
		got := obs.recorded()
		if len(got) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(got))
		}
		if got[0].Type != JobStarted || got[0].Pages != 3 {
			t.Errorf("Unexpected event: %+v", got[0])
		}
	}
}

func TestPublisher_NotifyWithoutObservers(t *testing.T) {
	pub := NewPublisher()
	// Must not panic with an empty subscriber list.
	pub.Notify(context.Background(), JobEvent{Type: JobCompleted})
}

func TestPublisher_ConcurrentNotify(t *testing.T) {
	pub := NewPublisher()
	rec := &recordingObserver{}
	pub.Subscribe(rec)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			pub.Notify(context.Background(), JobEvent{Type: PageCompleted, Page: page})
		}(i)
	}
	wg.Wait()

	if got := len(rec.recorded()); got != 20 {
		t.Errorf("Expected 20 events, got %d", got)
	}
}

func TestMetricsObserver_Counters(t *testing.T) {
	obs := NewMetricsObserver()
	ctx := context.Background()

	obs.OnEvent(ctx, JobEvent{Type: PageCompleted, Page: 0, Elapsed: 100 * time.Millisecond})
	obs.OnEvent(ctx, JobEvent{Type: PageCompleted, Page: 2, Elapsed: 300 * time.Millisecond})
	obs.OnEvent(ctx, JobEvent{Type: PageFailed, Page: 1})
	// Lifecycle events do not touch the page counters.
	obs.OnEvent(ctx, JobEvent{Type: JobStarted, Pages: 3})
	obs.OnEvent(ctx, JobEvent{Type: JobCompleted, Pages: 3})

	metrics := obs.Metrics()
	if metrics["pages_completed"] != int64(2) {
		t.Errorf("pages_completed = %v, want 2", metrics["pages_completed"])
	}
	if metrics["pages_failed"] != int64(1) {
		t.Errorf("pages_failed = %v, want 1", metrics["pages_failed"])
	}
	if metrics["total_ocr_time"] != 400*time.Millisecond {
		t.Errorf("total_ocr_time = %v, want 400ms", metrics["total_ocr_time"])
	}
	if metrics["avg_ocr_time"] != 200*time.Millisecond {
		t.Errorf("avg_ocr_time = %v, want 200ms", metrics["avg_ocr_time"])
	}
}

func TestMetricsObserver_EmptyMetrics(t *testing.T) {
	obs := NewMetricsObserver()

	metrics := obs.Metrics()
	if metrics["pages_completed"] != int64(0) {
		t.Errorf("pages_completed = %v, want 0", metrics["pages_completed"])
	}
	if metrics["avg_ocr_time"] != time.Duration(0) {
		t.Errorf("avg_ocr_time = %v, want 0", metrics["avg_ocr_time"])
	}
}

func TestObserverNames(t *testing.T) {
	if name := NewMetricsObserver().Name(); name != "metrics_observer" {
		t.Errorf("MetricsObserver.Name() = %q", name)
	}
	if name := (&LoggingObserver{}).Name(); name != "logging_observer" {
		t.Errorf("LoggingObserver.Name() = %q", name)
	}
}
