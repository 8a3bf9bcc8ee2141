package tables

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/crepeskaffee/pos/pkg"
	"github.com/crepeskaffee/pos/pkg/enums/tablestatus"
)

const tableEventSource = "pos-terminal"

// Registry owns the occupancy state of the room. Every mutator re-fetches
// the persisted table before changing it so that a terminal never acts on a
// long-lived in-memory copy another terminal may have replaced.
type Registry struct {
	repo      TableRepo
	publisher events.Publisher
	logger    apt.Logger
}

func NewRegistry(repo TableRepo, publisher events.Publisher, logger apt.Logger) *Registry {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Registry{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (g *Registry) List(ctx context.Context) ([]*Table, error) {
	return g.repo.List(ctx)
}

func (g *Registry) Get(ctx context.Context, number int) (*Table, error) {
	table, err := g.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("cannot load table %d: %w", number, err)
	}
	if table == nil {
		return nil, ErrTableNotFound
	}
	return table, nil
}

// Available lists the tables a new dine-in order may take.
func (g *Registry) Available(ctx context.Context) ([]*Table, error) {
	return g.repo.ListByStatus(ctx, tablestatus.Statuses.Free.Name)
}

// Assign seats an order at a free table. Any other state means the caller's
// view of the room is stale.
func (g *Registry) Assign(ctx context.Context, number int, orderID uuid.UUID) (*Table, error) {
	table, err := g.Get(ctx, number)
	if err != nil {
		return nil, err
	}

	if !table.IsFree() {
		return nil, fmt.Errorf("table %d is %s: %w", number, table.Status, ErrTableNotFree)
	}

	previous := table.Status
	table.Occupy(orderID)
	table.BeforeUpdate()

	if err := g.repo.Save(ctx, table); err != nil {
		return nil, fmt.Errorf("cannot save table %d: %w", number, err)
	}

	g.publishStatusChanged(ctx, table, previous, "order.assigned")
	return table, nil
}

// Release frees the table only when it still references the expected order.
// A stale or cancelled order must never clear a table that has since been
// reassigned, so a mismatch is a silent no-op.
func (g *Registry) Release(ctx context.Context, number int, expectedOrderID uuid.UUID) (bool, error) {
	return g.clear(ctx, number, expectedOrderID, "order.released", func(t *Table) { t.Release() })
}

// MarkForCleaning works like Release but parks the table in cleaning so a
// human has to confirm it before the next seating.
func (g *Registry) MarkForCleaning(ctx context.Context, number int, expectedOrderID uuid.UUID) (bool, error) {
	return g.clear(ctx, number, expectedOrderID, "order.paid", func(t *Table) { t.MarkCleaning() })
}

func (g *Registry) clear(ctx context.Context, number int, expectedOrderID uuid.UUID, reason string, apply func(*Table)) (bool, error) {
	table, err := g.Get(ctx, number)
	if err != nil {
		return false, err
	}

	if !table.References(expectedOrderID) {
		g.logger.Debug("skipping table clear, order ref mismatch",
			"table", number, "expected_order", expectedOrderID.String())
		return false, nil
	}

	previous := table.Status
	apply(table)
	table.BeforeUpdate()

	if err := g.repo.Save(ctx, table); err != nil {
		return false, fmt.Errorf("cannot save table %d: %w", number, err)
	}

	g.publishStatusChanged(ctx, table, previous, reason)
	return true, nil
}

// MarkClean confirms a cleaned table back into rotation.
func (g *Registry) MarkClean(ctx context.Context, number int) (*Table, error) {
	table, err := g.Get(ctx, number)
	if err != nil {
		return nil, err
	}

	if table.Status != tablestatus.Statuses.Cleaning.Name {
		return nil, fmt.Errorf("table %d is %s: %w", number, table.Status, ErrTableNotCleaning)
	}

	previous := table.Status
	table.MarkClean()
	table.BeforeUpdate()

	if err := g.repo.Save(ctx, table); err != nil {
		return nil, fmt.Errorf("cannot save table %d: %w", number, err)
	}

	g.publishStatusChanged(ctx, table, previous, "table.cleaned")
	return table, nil
}

// ReconcileOrphans force-releases every table whose linked order is no
// longer active. It is the self-healing pass behind the occupancy
// invariant and runs after bulk order changes and on the periodic sweep.
func (g *Registry) ReconcileOrphans(ctx context.Context, activeOrderIDs map[uuid.UUID]struct{}) (int, error) {
	occupied, err := g.repo.ListByStatus(ctx, tablestatus.Statuses.Occupied.Name)
	if err != nil {
		return 0, fmt.Errorf("cannot list occupied tables: %w", err)
	}

	released := 0
	for _, table := range occupied {
		if table.CurrentOrderID == nil {
			// Occupied without an order ref is the same invariant breach.
		} else if _, live := activeOrderIDs[*table.CurrentOrderID]; live {
			continue
		}

		g.logger.Info("releasing orphaned table", "table", table.Number)

		previous := table.Status
		table.Release()
		table.BeforeUpdate()

		if err := g.repo.Save(ctx, table); err != nil {
			return released, fmt.Errorf("cannot release orphaned table %d: %w", table.Number, err)
		}

		g.publishStatusChanged(ctx, table, previous, "orphan.reconciled")
		released++
	}

	return released, nil
}

func (g *Registry) publishStatusChanged(ctx context.Context, table *Table, previousStatus, reason string) {
	if g.publisher == nil {
		return
	}

	evt := pkg.TableStatusEvent{
		EventType:      pkg.EventTableStatusChanged,
		TableID:        table.ID.String(),
		TableNumber:    table.Number,
		Status:         table.Status,
		PreviousStatus: previousStatus,
		Reason:         reason,
		Source:         tableEventSource,
		OccurredAt:     time.Now(),
	}
	if table.CurrentOrderID != nil {
		evt.OrderID = table.CurrentOrderID.String()
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		g.logger.Error("cannot marshal table status event", "error", err)
		return
	}

	if err := g.publisher.Publish(ctx, pkg.TableStatusTopic, payload); err != nil {
		g.logger.Error("cannot publish table status event", "error", err, "table", table.Number)
	}
}
