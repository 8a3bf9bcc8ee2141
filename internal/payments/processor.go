package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/crepeskaffee/pos/internal/cashier"
	"github.com/crepeskaffee/pos/internal/orders"
	"github.com/crepeskaffee/pos/internal/tables"
	"github.com/crepeskaffee/pos/pkg"
	"github.com/crepeskaffee/pos/pkg/enums/orderstatus"
	"github.com/crepeskaffee/pos/pkg/enums/paymethod"
)

const saleEventSource = "pos-terminal"

// Processor is the one place where order, cash session and table change
// together. Validation runs against fresh copies of all three before the
// first write, so a rejected payment leaves everything untouched. The
// writes themselves are sequential store operations: two terminals racing
// to pay the same order is an accepted limitation of the shared store, not
// something this code pretends to solve.
type Processor struct {
	orders    orders.OrderRepo
	ledger    *cashier.Ledger
	registry  *tables.Registry
	publisher events.Publisher
	logger    apt.Logger
}

func NewProcessor(orderRepo orders.OrderRepo, ledger *cashier.Ledger, registry *tables.Registry, publisher events.Publisher, logger apt.Logger) *Processor {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Processor{
		orders:    orderRepo,
		ledger:    ledger,
		registry:  registry,
		publisher: publisher,
		logger:    logger,
	}
}

// Result carries what the terminal shows after a payment: the immutable
// sale and the updated session summary.
type Result struct {
	Sale    *cashier.Sale        `json:"sale"`
	Session *cashier.CashSession `json:"session"`
	Change  int64                `json:"change"`
}

// Process settles an order. The order moves to paid, a sale is recorded
// against the open session, and a dine-in table is sent to cleaning.
func (p *Processor) Process(ctx context.Context, orderID uuid.UUID, detail PaymentDetail, cashierID string) (*Result, error) {
	order, err := p.orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("cannot load order %s: %w", orderID, err)
	}
	if order == nil {
		return nil, orders.ErrOrderNotFound
	}
	if orderstatus.IsTerminal(order.Status) {
		return nil, fmt.Errorf("order is %s: %w", order.Status, ErrAlreadyPaid)
	}

	// The open session is a precondition, checked before any mutation.
	if _, err := p.ledger.CurrentOpen(ctx); err != nil {
		return nil, err
	}

	change, err := detail.Validate(order.Total)
	if err != nil {
		return nil, err
	}

	paidAt := time.Now()
	order.MarkPaid(orders.PaymentInfo{
		Method:   detail.Method,
		Received: detail.Received,
		Change:   change,
		CashPart: detail.CashPart,
		CardPart: detail.CardPart,
		PaidAt:   paidAt,
	})
	order.BeforeUpdate()

	if err := p.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("cannot save paid order: %w", err)
	}

	sale := cashier.NewSale()
	sale.OrderID = order.ID
	sale.TableNumber = order.TableNumber
	sale.Items = append([]orders.OrderItem(nil), order.Items...)
	sale.Total = order.Total
	sale.Method = detail.Method
	sale.CashAmount = detail.cashComponent(order.Total)
	sale.CardAmount = detail.cardComponent(order.Total)
	if detail.Method == paymethod.Methods.Transfer.Name {
		sale.TransferAmount = order.Total
	}
	sale.CashierID = cashierID

	session, err := p.ledger.RecordSale(ctx, sale)
	if err != nil {
		return nil, fmt.Errorf("order %s paid but sale not recorded: %w", order.ID, err)
	}

	if order.IsDineIn() {
		if _, err := p.registry.MarkForCleaning(ctx, *order.TableNumber, order.ID); err != nil {
			p.logger.Error("cannot send table to cleaning after payment",
				"table", *order.TableNumber, "order_id", order.ID.String(), "error", err)
		}
	}

	p.publishSaleRecorded(ctx, sale)

	return &Result{Sale: sale, Session: session, Change: change}, nil
}

func (p *Processor) publishSaleRecorded(ctx context.Context, sale *cashier.Sale) {
	if p.publisher == nil {
		return
	}

	evt := pkg.SaleRecordedEvent{
		EventType:   pkg.EventSaleRecorded,
		SaleID:      sale.ID.String(),
		OrderID:     sale.OrderID.String(),
		SessionID:   sale.SessionID.String(),
		TableNumber: sale.TableNumber,
		Total:       sale.Total,
		Method:      sale.Method,
		Source:      saleEventSource,
		OccurredAt:  time.Now(),
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		p.logger.Error("cannot marshal sale event", "error", err)
		return
	}
	if err := p.publisher.Publish(ctx, pkg.SalesTopic, payload); err != nil {
		p.logger.Error("cannot publish sale event", "error", err, "sale_id", sale.ID.String())
	}
}
