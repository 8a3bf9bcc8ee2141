package catalog

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// Product is a catalog entry. Price and Cost are minor currency units.
// Once an order references a product its name and price are copied into the
// order item, so later catalog edits never rewrite history.
type Product struct {
	ID        uuid.UUID `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Price     int64     `json:"price" bson:"price"`
	Cost      int64     `json:"cost" bson:"cost"`
	Category  string    `json:"category" bson:"category"`
	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	CreatedBy string    `json:"created_by" bson:"created_by"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	UpdatedBy string    `json:"updated_by" bson:"updated_by"`
}

func (p *Product) GetID() uuid.UUID {
	return p.ID
}

func (p *Product) ResourceType() string {
	return "product"
}

func (p *Product) SetID(id uuid.UUID) {
	p.ID = id
}

func NewProduct() *Product {
	return &Product{
		ID:     apt.GenerateNewID(),
		Active: true,
	}
}

func (p *Product) EnsureID() {
	if p.ID == uuid.Nil {
		p.ID = apt.GenerateNewID()
	}
}

func (p *Product) BeforeCreate() {
	p.EnsureID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
}

func (p *Product) BeforeUpdate() {
	p.UpdatedAt = time.Now()
}

func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
}

func (p *Product) Activate() {
	p.Active = true
	p.UpdatedAt = time.Now()
}
