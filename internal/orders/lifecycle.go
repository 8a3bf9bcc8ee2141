package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/crepeskaffee/pos/internal/catalog"
	"github.com/crepeskaffee/pos/internal/tables"
	"github.com/crepeskaffee/pos/pkg"
	"github.com/crepeskaffee/pos/pkg/enums/orderstatus"
)

const orderEventSource = "pos-terminal"

// Lifecycle drives an order from creation to payment or cancellation and
// keeps the table registry in step with it.
type Lifecycle struct {
	orderRepo OrderRepo
	products  catalog.ProductRepo
	registry  *tables.Registry
	publisher events.Publisher
	logger    apt.Logger
}

type LifecycleDeps struct {
	OrderRepo OrderRepo
	Products  catalog.ProductRepo
	Registry  *tables.Registry
	Publisher events.Publisher
}

func NewLifecycle(deps LifecycleDeps, logger apt.Logger) *Lifecycle {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Lifecycle{
		orderRepo: deps.OrderRepo,
		products:  deps.Products,
		registry:  deps.Registry,
		publisher: deps.Publisher,
		logger:    logger,
	}
}

type ItemParams struct {
	ProductID uuid.UUID
	Quantity  int
}

type CreateParams struct {
	DineIn      bool
	TableNumber *int
	Items       []ItemParams
	CreatedBy   string
}

// Create validates and persists a new pending order. For dine-in orders the
// table is seated first; a table that cannot be assigned fails the whole
// creation with nothing persisted.
func (l *Lifecycle) Create(ctx context.Context, params CreateParams) (*Order, error) {
	if len(params.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if params.DineIn && params.TableNumber == nil {
		return nil, ErrMissingTable
	}

	order := NewOrder()
	order.CreatedBy = params.CreatedBy
	if params.DineIn {
		order.TableNumber = params.TableNumber
	}

	for _, item := range params.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("quantity for %s must be greater than 0: %w", item.ProductID, ErrEmptyOrder)
		}

		product, err := l.products.Get(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("cannot load product %s: %w", item.ProductID, err)
		}
		if product == nil || !product.Active {
			return nil, fmt.Errorf("product %s: %w", item.ProductID, ErrUnknownProduct)
		}

		order.Items = append(order.Items, OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
		})
	}
	order.RecomputeTotal()
	order.BeforeCreate()

	if params.DineIn {
		if _, err := l.registry.Assign(ctx, *params.TableNumber, order.ID); err != nil {
			return nil, err
		}
	}

	if err := l.orderRepo.Create(ctx, order); err != nil {
		if params.DineIn {
			// Compensate the seat we just took.
			if _, relErr := l.registry.Release(ctx, *params.TableNumber, order.ID); relErr != nil {
				l.logger.Error("cannot release table after failed order create",
					"table", *params.TableNumber, "error", relErr)
			}
		}
		return nil, fmt.Errorf("cannot create order: %w", err)
	}

	l.publishStatusChanged(ctx, order, "", "order.created")
	return order, nil
}

// Advance moves an order along the lifecycle graph. Tables are untouched:
// a dine-in order keeps its seat all the way through delivered.
func (l *Lifecycle) Advance(ctx context.Context, id uuid.UUID, target string) (*Order, error) {
	if orderstatus.ByName(target) == nil {
		return nil, fmt.Errorf("unknown status %q: %w", target, ErrIllegalTransition)
	}

	order, err := l.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !orderstatus.CanTransition(order.Status, target) {
		return nil, fmt.Errorf("%s → %s: %w", order.Status, target, ErrIllegalTransition)
	}

	previous := order.Status
	order.Status = target
	order.BeforeUpdate()

	if err := l.orderRepo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("cannot save order: %w", err)
	}

	l.publishStatusChanged(ctx, order, previous, "order.advanced")
	return order, nil
}

// Cancel aborts an order that the kitchen has not yet committed to. Ready
// and delivered orders are served commitments and must be paid instead.
func (l *Lifecycle) Cancel(ctx context.Context, id uuid.UUID) (*Order, error) {
	order, err := l.get(ctx, id)
	if err != nil {
		return nil, err
	}

	target := orderstatus.Statuses.Cancelled.Name
	if !orderstatus.CanTransition(order.Status, target) {
		return nil, fmt.Errorf("%s → %s: %w", order.Status, target, ErrIllegalTransition)
	}

	previous := order.Status
	order.Cancel()
	order.BeforeUpdate()

	if err := l.orderRepo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("cannot save order: %w", err)
	}

	if order.IsDineIn() {
		if _, err := l.registry.Release(ctx, *order.TableNumber, order.ID); err != nil {
			l.logger.Error("cannot release table for cancelled order",
				"table", *order.TableNumber, "order_id", order.ID.String(), "error", err)
		}
	}

	l.publishStatusChanged(ctx, order, previous, "order.cancelled")
	return order, nil
}

// UpdateItemQuantity changes the quantity of one line on an in-progress
// order and rederives the total. Quantity 0 removes the line; the last
// line can never be removed, the caller cancels instead.
func (l *Lifecycle) UpdateItemQuantity(ctx context.Context, id, productID uuid.UUID, quantity int) (*Order, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative: %w", ErrItemNotFound)
	}
	if quantity == 0 {
		return l.RemoveItem(ctx, id, productID)
	}

	order, err := l.editable(ctx, id)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range order.Items {
		if order.Items[i].ProductID == productID {
			order.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, ErrItemNotFound
	}

	order.RecomputeTotal()
	order.BeforeUpdate()

	if err := l.orderRepo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("cannot save order: %w", err)
	}
	return order, nil
}

// RemoveItem drops one line from an in-progress order.
func (l *Lifecycle) RemoveItem(ctx context.Context, id, productID uuid.UUID) (*Order, error) {
	order, err := l.editable(ctx, id)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range order.Items {
		if order.Items[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrItemNotFound
	}
	if len(order.Items) == 1 {
		return nil, ErrLastItem
	}

	order.Items = append(order.Items[:idx], order.Items[idx+1:]...)
	order.RecomputeTotal()
	order.BeforeUpdate()

	if err := l.orderRepo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("cannot save order: %w", err)
	}
	return order, nil
}

// ActiveOrderIDs yields the orders that still hold tables. It backs the
// registry's orphan reconciliation.
func (l *Lifecycle) ActiveOrderIDs(ctx context.Context) (map[uuid.UUID]struct{}, error) {
	active, err := l.orderRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot list active orders: %w", err)
	}

	ids := make(map[uuid.UUID]struct{}, len(active))
	for _, o := range active {
		ids[o.ID] = struct{}{}
	}
	return ids, nil
}

func (l *Lifecycle) get(ctx context.Context, id uuid.UUID) (*Order, error) {
	order, err := l.orderRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cannot load order %s: %w", id, err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (l *Lifecycle) editable(ctx context.Context, id uuid.UUID) (*Order, error) {
	order, err := l.get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case orderstatus.Statuses.Pending.Name, orderstatus.Statuses.Preparing.Name:
		return order, nil
	default:
		return nil, fmt.Errorf("order is %s: %w", order.Status, ErrOrderNotEditable)
	}
}

func (l *Lifecycle) publishStatusChanged(ctx context.Context, order *Order, previousStatus, reason string) {
	if l.publisher == nil {
		return
	}

	evt := pkg.OrderStatusEvent{
		EventType:      pkg.EventOrderStatusChanged,
		OrderID:        order.ID.String(),
		TableNumber:    order.TableNumber,
		Status:         order.Status,
		PreviousStatus: previousStatus,
		Total:          order.Total,
		Reason:         reason,
		Source:         orderEventSource,
		OccurredAt:     time.Now(),
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		l.logger.Error("cannot marshal order status event", "error", err)
		return
	}

	if err := l.publisher.Publish(ctx, pkg.OrderStatusTopic, payload); err != nil {
		l.logger.Error("cannot publish order status event", "error", err, "order_id", order.ID.String())
	}
}
