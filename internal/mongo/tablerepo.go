package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/crepeskaffee/pos/internal/tables"
	"github.com/crepeskaffee/pos/pkg/enums/tablestatus"
)

type TableRepo struct {
	collection *mongo.Collection
}

func NewTableRepo(db *mongo.Database) *TableRepo {
	return &TableRepo{
		collection: db.Collection("tables"),
	}
}

// tableDoc absorbs the schema drift in long-lived table collections, where
// older records carry Spanish field names and status values. Everything is
// normalized here, once, so the rest of the code only ever sees the
// canonical shape.
type tableDoc struct {
	ID             uuid.UUID  `bson:"_id"`
	Number         int        `bson:"number,omitempty"`
	LegacyNumber   int        `bson:"numero,omitempty"`
	Capacity       int        `bson:"capacity,omitempty"`
	LegacyCapacity int        `bson:"capacidad,omitempty"`
	Location       string     `bson:"location,omitempty"`
	LegacyLocation string     `bson:"ubicacion,omitempty"`
	Status         string     `bson:"status,omitempty"`
	LegacyStatus   string     `bson:"estado,omitempty"`
	CurrentOrderID *uuid.UUID `bson:"current_order_id,omitempty"`
	LastActivityAt time.Time  `bson:"last_activity_at,omitempty"`
	CreatedAt      time.Time  `bson:"created_at,omitempty"`
	UpdatedAt      time.Time  `bson:"updated_at,omitempty"`
}

var legacyStatusNames = map[string]string{
	"libre":     tablestatus.Statuses.Free.Name,
	"ocupada":   tablestatus.Statuses.Occupied.Name,
	"limpieza":  tablestatus.Statuses.Cleaning.Name,
	"reservada": tablestatus.Statuses.Reserved.Name,
}

func (d tableDoc) toTable() *tables.Table {
	table := &tables.Table{
		ID:             d.ID,
		Number:         d.Number,
		Capacity:       d.Capacity,
		Location:       d.Location,
		Status:         d.Status,
		CurrentOrderID: d.CurrentOrderID,
		LastActivityAt: d.LastActivityAt,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}

	if table.Number == 0 {
		table.Number = d.LegacyNumber
	}
	if table.Capacity == 0 {
		table.Capacity = d.LegacyCapacity
	}
	if table.Location == "" {
		table.Location = d.LegacyLocation
	}
	if table.Status == "" {
		if canonical, ok := legacyStatusNames[d.LegacyStatus]; ok {
			table.Status = canonical
		} else {
			table.Status = tablestatus.Statuses.Free.Name
		}
	}

	return table
}

// EnsureIndexes creates the unique index on the table number.
func (r *TableRepo) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "number", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("cannot create index: %w", err)
	}
	return nil
}

func (r *TableRepo) Create(ctx context.Context, table *tables.Table) error {
	if table == nil {
		return fmt.Errorf("table is nil")
	}

	if _, err := r.collection.InsertOne(ctx, table); err != nil {
		return fmt.Errorf("cannot create table: %w", err)
	}

	return nil
}

func (r *TableRepo) Get(ctx context.Context, id uuid.UUID) (*tables.Table, error) {
	var doc tableDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get table: %w", err)
	}
	return doc.toTable(), nil
}

func (r *TableRepo) GetByNumber(ctx context.Context, number int) (*tables.Table, error) {
	var doc tableDoc
	filter := bson.M{"$or": []bson.M{{"number": number}, {"numero": number}}}
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get table by number: %w", err)
	}
	return doc.toTable(), nil
}

func (r *TableRepo) List(ctx context.Context) ([]*tables.Table, error) {
	return r.find(ctx, bson.M{})
}

func (r *TableRepo) ListByStatus(ctx context.Context, status string) ([]*tables.Table, error) {
	filter := bson.M{"status": status}
	for legacy, canonical := range legacyStatusNames {
		if canonical == status {
			filter = bson.M{"$or": []bson.M{{"status": status}, {"estado": legacy}}}
			break
		}
	}
	return r.find(ctx, filter)
}

func (r *TableRepo) Save(ctx context.Context, table *tables.Table) error {
	if table == nil {
		return fmt.Errorf("table is nil")
	}

	filter := bson.M{"_id": table.ID}
	update := bson.M{
		"$set": table,
		// Saving always rewrites the canonical fields, so the legacy ones
		// are retired on first touch.
		"$unset": bson.M{"numero": "", "capacidad": "", "ubicacion": "", "estado": ""},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("cannot update table: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("table not found")
	}

	return nil
}

func (r *TableRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("cannot delete table: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("table not found")
	}

	return nil
}

func (r *TableRepo) find(ctx context.Context, filter bson.M) ([]*tables.Table, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("cannot list tables: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []tableDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cannot decode tables: %w", err)
	}

	result := make([]*tables.Table, 0, len(docs))
	for _, doc := range docs {
		result = append(result, doc.toTable())
	}

	return result, nil
}
