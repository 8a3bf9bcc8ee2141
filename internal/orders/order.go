package orders

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/crepeskaffee/pos/pkg/enums/orderstatus"
)

// Order is a guest check. TableNumber is nil for takeaway. Total is always
// derived from the items; amounts are minor currency units.
type Order struct {
	ID          uuid.UUID    `json:"id" bson:"_id"`
	TableNumber *int         `json:"table_number,omitempty" bson:"table_number,omitempty"`
	Items       []OrderItem  `json:"items" bson:"items"`
	Total       int64        `json:"total" bson:"total"`
	Status      string       `json:"status" bson:"status"`
	PaymentInfo *PaymentInfo `json:"payment_info,omitempty" bson:"payment_info,omitempty"`
	CreatedAt   time.Time    `json:"created_at" bson:"created_at"`
	CreatedBy   string       `json:"created_by" bson:"created_by"`
	UpdatedAt   time.Time    `json:"updated_at" bson:"updated_at"`
}

// OrderItem carries a denormalized copy of the product name and the price
// at the moment it was added. Catalog edits never reprice an open check.
type OrderItem struct {
	ProductID   uuid.UUID `json:"product_id" bson:"product_id"`
	ProductName string    `json:"product_name" bson:"product_name"`
	Quantity    int       `json:"quantity" bson:"quantity"`
	UnitPrice   int64     `json:"unit_price" bson:"unit_price"`
	Subtotal    int64     `json:"subtotal" bson:"subtotal"`
}

// PaymentInfo is written exactly once, when the order is paid.
type PaymentInfo struct {
	Method   string    `json:"method" bson:"method"`
	Received int64     `json:"received,omitempty" bson:"received,omitempty"`
	Change   int64     `json:"change,omitempty" bson:"change,omitempty"`
	CashPart int64     `json:"cash_part,omitempty" bson:"cash_part,omitempty"`
	CardPart int64     `json:"card_part,omitempty" bson:"card_part,omitempty"`
	PaidAt   time.Time `json:"paid_at" bson:"paid_at"`
}

func (o *Order) GetID() uuid.UUID {
	return o.ID
}

func (o *Order) ResourceType() string {
	return "order"
}

func (o *Order) SetID(id uuid.UUID) {
	o.ID = id
}

func NewOrder() *Order {
	return &Order{
		ID:     apt.GenerateNewID(),
		Status: orderstatus.Statuses.Pending.Name,
	}
}

func (o *Order) EnsureID() {
	if o.ID == uuid.Nil {
		o.ID = apt.GenerateNewID()
	}
}

func (o *Order) BeforeCreate() {
	o.EnsureID()
	o.CreatedAt = time.Now()
	o.UpdatedAt = time.Now()
}

func (o *Order) BeforeUpdate() {
	o.UpdatedAt = time.Now()
}

// IsDineIn reports whether the order holds a table.
func (o *Order) IsDineIn() bool {
	return o.TableNumber != nil
}

// IsActive reports whether the order still occupies its table.
func (o *Order) IsActive() bool {
	return orderstatus.IsActive(o.Status)
}

// RecomputeTotal rederives the order total from its items.
func (o *Order) RecomputeTotal() {
	var total int64
	for i := range o.Items {
		o.Items[i].Subtotal = int64(o.Items[i].Quantity) * o.Items[i].UnitPrice
		total += o.Items[i].Subtotal
	}
	o.Total = total
}

// MarkPaid finalizes the order with its payment record.
func (o *Order) MarkPaid(info PaymentInfo) {
	o.Status = orderstatus.Statuses.Paid.Name
	o.PaymentInfo = &info
	o.UpdatedAt = time.Now()
}

func (o *Order) Cancel() {
	o.Status = orderstatus.Statuses.Cancelled.Name
	o.UpdatedAt = time.Now()
}
