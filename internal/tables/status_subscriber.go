package tables

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"

	"github.com/crepeskaffee/pos/pkg"
)

// StatusSubscriber keeps the local StateCache in sync with table status
// changes announced by other terminals sharing the store.
type StatusSubscriber struct {
	subscriber events.Subscriber
	cache      *StateCache
	logger     apt.Logger
}

func NewStatusSubscriber(sub events.Subscriber, cache *StateCache, logger apt.Logger) *StatusSubscriber {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &StatusSubscriber{
		subscriber: sub,
		cache:      cache,
		logger:     logger,
	}
}

func (s *StatusSubscriber) Start(ctx context.Context) error {
	s.logger.Info("starting table status subscriber", "topic", pkg.TableStatusTopic)
	if s.cache != nil {
		if err := s.cache.Warm(ctx); err != nil {
			s.logger.Info("table cache warmup failed", "error", err)
		}
	}
	if s.subscriber == nil {
		return fmt.Errorf("table status subscriber not configured")
	}
	return s.subscriber.Subscribe(ctx, pkg.TableStatusTopic, s.handleEvent)
}

func (s *StatusSubscriber) handleEvent(ctx context.Context, msg []byte) error {
	var event pkg.TableStatusEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		s.logger.Info("invalid table status event", "error", err)
		return nil
	}

	if event.TableNumber <= 0 {
		s.logger.Info("invalid table number in event", "table_number", event.TableNumber)
		return nil
	}

	s.cache.Set(event.TableNumber, event.Status)
	s.logger.Debug("table status updated", "table", event.TableNumber, "status", event.Status)
	return nil
}
