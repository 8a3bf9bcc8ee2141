package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/crepeskaffee/pos/internal/cashier"
)

type SessionRepo struct {
	collection *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) *SessionRepo {
	return &SessionRepo{
		collection: db.Collection("cash_sessions"),
	}
}

func (r *SessionRepo) Create(ctx context.Context, session *cashier.CashSession) error {
	if session == nil {
		return fmt.Errorf("session is nil")
	}

	if _, err := r.collection.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("cannot create cash session: %w", err)
	}

	return nil
}

func (r *SessionRepo) Get(ctx context.Context, id uuid.UUID) (*cashier.CashSession, error) {
	var session cashier.CashSession
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get cash session: %w", err)
	}
	return &session, nil
}

func (r *SessionRepo) GetOpen(ctx context.Context) (*cashier.CashSession, error) {
	var session cashier.CashSession
	err := r.collection.FindOne(ctx, bson.M{"status": cashier.SessionStatusOpen}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get open cash session: %w", err)
	}
	return &session, nil
}

func (r *SessionRepo) List(ctx context.Context) ([]*cashier.CashSession, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("cannot list cash sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*cashier.CashSession
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode cash sessions: %w", err)
	}

	return result, nil
}

func (r *SessionRepo) Save(ctx context.Context, session *cashier.CashSession) error {
	if session == nil {
		return fmt.Errorf("session is nil")
	}

	filter := bson.M{"_id": session.ID}
	update := bson.M{"$set": session}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("cannot update cash session: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("cash session not found")
	}

	return nil
}
