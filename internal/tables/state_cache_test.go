package tables

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/appetiteclub/apt/events"

	"github.com/crepeskaffee/pos/pkg"
	"github.com/crepeskaffee/pos/pkg/enums/tablestatus"
)

func TestStateCacheSetAndGet(t *testing.T) {
	cache := NewStateCache(nil, nil)

	if _, ok := cache.Get(3); ok {
		t.Error("Get() on empty cache = true, want false")
	}

	cache.Set(3, tablestatus.Statuses.Occupied.Name)

	status, ok := cache.Get(3)
	if !ok {
		t.Fatal("Get() = false, want true")
	}
	if status != tablestatus.Statuses.Occupied.Name {
		t.Errorf("Get() = %s, want occupied", status)
	}
}

func TestStateCacheWarm(t *testing.T) {
	repo := NewMockTableRepo()
	seedTable(t, repo, 1, tablestatus.Statuses.Free.Name)
	seedTable(t, repo, 2, tablestatus.Statuses.Cleaning.Name)

	cache := NewStateCache(repo, nil)
	if err := cache.Warm(context.Background()); err != nil {
		t.Fatalf("Warm() error = %v", err)
	}

	snapshot := cache.Snapshot()
	if len(snapshot) != 2 {
		t.Fatalf("Snapshot() size = %d, want 2", len(snapshot))
	}
	if snapshot[2] != tablestatus.Statuses.Cleaning.Name {
		t.Errorf("table 2 status = %s, want cleaning", snapshot[2])
	}
}

func TestStatusSubscriberUpdatesCache(t *testing.T) {
	cache := NewStateCache(nil, nil)

	var handler events.HandlerFunc
	sub := NewMockSubscriber()
	sub.SubscribeFunc = func(ctx context.Context, topic string, h events.HandlerFunc) error {
		if topic != pkg.TableStatusTopic {
			t.Errorf("subscribed topic = %s, want %s", topic, pkg.TableStatusTopic)
		}
		handler = h
		return nil
	}

	statusSub := NewStatusSubscriber(sub, cache, nil)
	if err := statusSub.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if handler == nil {
		t.Fatal("subscriber did not register a handler")
	}

	payload, err := json.Marshal(pkg.TableStatusEvent{
		EventType:   pkg.EventTableStatusChanged,
		TableNumber: 7,
		Status:      tablestatus.Statuses.Occupied.Name,
	})
	if err != nil {
		t.Fatalf("cannot marshal event: %v", err)
	}

	if err := handler(context.Background(), payload); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	status, ok := cache.Get(7)
	if !ok || status != tablestatus.Statuses.Occupied.Name {
		t.Errorf("cache state = (%s, %v), want (occupied, true)", status, ok)
	}
}

func TestStatusSubscriberIgnoresMalformedEvents(t *testing.T) {
	cache := NewStateCache(nil, nil)
	statusSub := NewStatusSubscriber(NewMockSubscriber(), cache, nil)

	if err := statusSub.handleEvent(context.Background(), []byte("not json")); err != nil {
		t.Errorf("handleEvent() on garbage = %v, want nil", err)
	}
	if len(cache.Snapshot()) != 0 {
		t.Error("cache changed on malformed event")
	}
}
