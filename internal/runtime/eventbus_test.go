package runtime

import (
	"sync"
	"testing"
)

func TestEventBus_Subscribe(t *testing.T) {
	eb := NewEventBus()

	var received []Event
	eb.Subscribe(EventRitualBegun, func(e Event) {
		received = append(received, e)
	})

	eb.PublishSimple(EventRitualBegun, "s1")
	eb.PublishSimple(EventSessionReset, "s1") // different type, not delivered

	if len(received) != 1 {
		t.Fatalf("expected 1 event, got %d", len(received))
	}
	if received[0].SessionID != "s1" {
		t.Errorf("expected session s1, got %q", received[0].SessionID)
	}
	if received[0].Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestEventBus_SubscribeAll(t *testing.T) {
	eb := NewEventBus()

	count := 0
	eb.SubscribeAll(func(e Event) { count++ })

	eb.PublishSimple(EventRitualBegun, "s1")
	eb.PublishSimple(EventTurnComplete, "s1")
	eb.PublishSimple(EventMemoryArchived, "s1")

	if count != 3 {
		t.Errorf("expected 3 events, got %d", count)
	}
}

func TestEventBus_PublishWithData(t *testing.T) {
	eb := NewEventBus()

	var got Event
	eb.Subscribe(EventArchiveChoice, func(e Event) { got = e })

	eb.PublishWithData(EventArchiveChoice, "s1", map[string]interface{}{"choice": "float"})

	if got.Data["choice"] != "float" {
		t.Errorf("expected choice data, got %v", got.Data)
	}
}

func TestEventBus_MultipleHandlers(t *testing.T) {
	eb := NewEventBus()

	a, b := 0, 0
	eb.Subscribe(EventTurnComplete, func(Event) { a++ })
	eb.Subscribe(EventTurnComplete, func(Event) { b++ })

	eb.PublishSimple(EventTurnComplete, "s1")

	if a != 1 || b != 1 {
		t.Errorf("expected both handlers called once, got a=%d b=%d", a, b)
	}
}

func TestEventBus_ConcurrentPublish(t *testing.T) {
	eb := NewEventBus()

	var mu sync.Mutex
	count := 0
	eb.SubscribeAll(func(Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			eb.PublishSimple(EventTurnComplete, "s1")
		}()
	}
	wg.Wait()

	if count != 50 {
		t.Errorf("expected 50 events, got %d", count)
	}
}
