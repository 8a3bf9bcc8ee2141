package tables

import (
	"context"
	"fmt"
	"sync"

	"github.com/appetiteclub/apt"
)

// StateCache mirrors the status of every table as last announced on the
// status topic. It exists for the board view other terminals render between
// sweeps; the Registry itself always goes back to the store.
type StateCache struct {
	mu     sync.RWMutex
	state  map[int]string
	repo   TableRepo
	logger apt.Logger
}

func NewStateCache(repo TableRepo, logger apt.Logger) *StateCache {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &StateCache{
		state:  make(map[int]string),
		repo:   repo,
		logger: logger,
	}
}

// Warm loads the current store state so the cache is useful before the
// first event arrives.
func (c *StateCache) Warm(ctx context.Context) error {
	if c.repo == nil {
		return nil
	}
	tables, err := c.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	for _, t := range tables {
		c.Set(t.Number, t.Status)
	}
	return nil
}

func (c *StateCache) Get(number int) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	status, ok := c.state[number]
	return status, ok
}

func (c *StateCache) Set(number int, status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state[number] = status
}

// Snapshot returns a copy of the whole board.
func (c *StateCache) Snapshot() map[int]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[int]string, len(c.state))
	for number, status := range c.state {
		out[number] = status
	}
	return out
}
