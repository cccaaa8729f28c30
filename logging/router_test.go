package logging_test

import (
	"context"
	"testing"
	"time"

	"wolfden/server/logging"
	"wolfden/server/logging/sinks"
)

func newTestRouter(t *testing.T, cfg logging.Config) (*logging.Router, *sinks.MemorySink) {
	t.Helper()
	memory := sinks.NewMemorySink()
	router, err := logging.NewRouter(
		logging.ClockFunc(func() time.Time { return time.Unix(0, 0).UTC() }),
		cfg,
		[]logging.NamedSink{{Name: "memory", Sink: memory}},
	)
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		router.Close(ctx)
	})
	return router, memory
}

func waitForEvents(t *testing.T, memory *sinks.MemorySink, want int) []logging.Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		events := memory.Events()
		if len(events) >= want {
			return events
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, have %d", want, len(memory.Events()))
	return nil
}

func TestRouterDeliversToSink(t *testing.T) {
	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityDebug
	router, memory := newTestRouter(t, cfg)

	router.Publish(context.Background(), logging.Event{
		Type:     "behavior.state_change",
		Tick:     7,
		Severity: logging.SeverityDebug,
	})

	events := waitForEvents(t, memory, 1)
	if events[0].Type != "behavior.state_change" || events[0].Tick != 7 {
		t.Fatalf("delivered event = %+v", events[0])
	}
	if events[0].Time.IsZero() {
		t.Fatal("router did not stamp the event time")
	}
}

func TestRouterFiltersBelowMinimumSeverity(t *testing.T) {
	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityWarn
	router, memory := newTestRouter(t, cfg)

	router.Publish(context.Background(), logging.Event{Type: "quiet", Severity: logging.SeverityInfo})
	router.Publish(context.Background(), logging.Event{Type: "loud", Severity: logging.SeverityError})

	events := waitForEvents(t, memory, 1)
	for _, event := range events {
		if event.Type == "quiet" {
			t.Fatal("info event passed a warn threshold")
		}
	}
}

func TestRouterDropsUntypedEvents(t *testing.T) {
	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityDebug
	router, memory := newTestRouter(t, cfg)

	router.Publish(context.Background(), logging.Event{Severity: logging.SeverityInfo})
	router.Publish(context.Background(), logging.Event{Type: "typed", Severity: logging.SeverityInfo})

	events := waitForEvents(t, memory, 1)
	if len(events) != 1 || events[0].Type != "typed" {
		t.Fatalf("events = %+v, want only the typed one", events)
	}
}

func TestRouterAttachesConfiguredFields(t *testing.T) {
	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityDebug
	cfg.Fields = map[string]any{"engine": "wolfden"}
	router, memory := newTestRouter(t, cfg)

	router.Publish(context.Background(), logging.Event{Type: "tagged", Severity: logging.SeverityInfo})

	events := waitForEvents(t, memory, 1)
	if events[0].Extra["engine"] != "wolfden" {
		t.Fatalf("extra = %+v, want configured engine field", events[0].Extra)
	}
}
