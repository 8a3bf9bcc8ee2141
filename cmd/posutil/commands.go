package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/appetiteclub/apt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/crepeskaffee/pos/internal/catalog"
	posmongo "github.com/crepeskaffee/pos/internal/mongo"
	"github.com/crepeskaffee/pos/internal/seeds"
	"github.com/crepeskaffee/pos/internal/tables"
)

const (
	defaultMongoURL = "mongodb://localhost:27017"
	defaultDBName   = "crepes_kaffee_pos"

	catalogSeedID = "2026-01-10_base_catalog_v1"
	layoutSeedID  = "2026-01-10_room_layout_v1"
)

// seedManifest mirrors the embedded seed file just enough to know which
// records the demo seeding created.
type seedManifest struct {
	Products []struct {
		Name string `json:"name"`
	} `json:"products"`
	Tables []struct {
		Number int `json:"number"`
	} `json:"tables"`
}

func connect(ctx context.Context, config *apt.Config) (*mongo.Client, *mongo.Database, error) {
	mongoURL, _ := config.GetString("db.mongo.url")
	if mongoURL == "" {
		mongoURL = defaultMongoURL
	}
	dbName, _ := config.GetString("db.mongo.name")
	if dbName == "" {
		dbName = defaultDBName
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, client.Database(dbName), nil
}

// SeedDemo applies the base catalog and room layout seeds, the same ones
// the service applies on startup when seeding.demo is enabled.
func SeedDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	client, db, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	logger.Info("Connected to MongoDB", "database", db.Name())

	productRepo := posmongo.NewProductRepo(db)
	tableRepo := posmongo.NewTableRepo(db)

	if err := tableRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure table indexes: %w", err)
	}

	if err := catalog.ApplySeeds(ctx, productRepo, db, seeds.FS, logger); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if err := tables.ApplySeeds(ctx, tableRepo, db, seeds.FS, logger); err != nil {
		return fmt.Errorf("seed tables: %w", err)
	}
	return nil
}

// ClearDemo removes the seeded demo records and their tracker entries so
// seed-demo can run again from scratch.
func ClearDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	manifest, err := loadManifest()
	if err != nil {
		return err
	}

	client, db, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	logger.Info("Connected to MongoDB", "database", db.Name())

	names := make([]string, 0, len(manifest.Products))
	for _, p := range manifest.Products {
		names = append(names, p.Name)
	}
	numbers := make([]int, 0, len(manifest.Tables))
	for _, t := range manifest.Tables {
		numbers = append(numbers, t.Number)
	}

	productResult, err := db.Collection("products").DeleteMany(ctx, bson.M{"name": bson.M{"$in": names}})
	if err != nil {
		return fmt.Errorf("delete demo products: %w", err)
	}
	logger.Info("Deleted demo products", "count", productResult.DeletedCount)

	tableResult, err := db.Collection("tables").DeleteMany(ctx, bson.M{"number": bson.M{"$in": numbers}})
	if err != nil {
		return fmt.Errorf("delete demo tables: %w", err)
	}
	logger.Info("Deleted demo tables", "count", tableResult.DeletedCount)

	trackerResult, err := db.Collection("_seeds").DeleteMany(ctx, bson.M{
		"_id": bson.M{"$in": []string{catalogSeedID, layoutSeedID}},
	})
	if err != nil {
		return fmt.Errorf("delete seed trackers: %w", err)
	}
	logger.Info("Cleared seed trackers", "count", trackerResult.DeletedCount)

	return nil
}

// ResetDB drops the POS database - USE WITH CAUTION
func ResetDB(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	client, db, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	logger.Info("Dropping database", "database", db.Name())
	result := db.RunCommand(ctx, bson.D{{Key: "dropDatabase", Value: 1}})
	if result.Err() != nil {
		return fmt.Errorf("drop database %s: %w", db.Name(), result.Err())
	}
	logger.Info("Database dropped", "database", db.Name())
	return nil
}

func loadManifest() (*seedManifest, error) {
	seedBytes, err := seeds.FS.ReadFile("seed.json")
	if err != nil {
		return nil, fmt.Errorf("read seed.json: %w", err)
	}
	var manifest seedManifest
	if err := json.Unmarshal(seedBytes, &manifest); err != nil {
		return nil, fmt.Errorf("decode seed manifest: %w", err)
	}
	return &manifest, nil
}
