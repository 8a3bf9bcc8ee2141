package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/crepeskaffee/pos/internal/cashier"
)

type SaleRepo struct {
	collection *mongo.Collection
}

func NewSaleRepo(db *mongo.Database) *SaleRepo {
	return &SaleRepo{
		collection: db.Collection("sales"),
	}
}

func (r *SaleRepo) Create(ctx context.Context, sale *cashier.Sale) error {
	if sale == nil {
		return fmt.Errorf("sale is nil")
	}

	if _, err := r.collection.InsertOne(ctx, sale); err != nil {
		return fmt.Errorf("cannot create sale: %w", err)
	}

	return nil
}

func (r *SaleRepo) Get(ctx context.Context, id uuid.UUID) (*cashier.Sale, error) {
	var sale cashier.Sale
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&sale)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get sale: %w", err)
	}
	return &sale, nil
}

func (r *SaleRepo) List(ctx context.Context) ([]*cashier.Sale, error) {
	return r.find(ctx, bson.M{})
}

func (r *SaleRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*cashier.Sale, error) {
	return r.find(ctx, bson.M{"session_id": sessionID})
}

func (r *SaleRepo) find(ctx context.Context, filter bson.M) ([]*cashier.Sale, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("cannot list sales: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*cashier.Sale
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode sales: %w", err)
	}

	return result, nil
}
