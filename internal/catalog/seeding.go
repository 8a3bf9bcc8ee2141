package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/seed"
	"go.mongodb.org/mongo-driver/mongo"
)

const catalogSeedApplication = "catalog"

type catalogSeedDocument struct {
	Products []productSeed `json:"products"`
}

type productSeed struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Cost     int64  `json:"cost"`
	Category string `json:"category"`
}

func loadProductSeeds(seedFS embed.FS) ([]productSeed, error) {
	seedBytes, err := seedFS.ReadFile("seed.json")
	if err != nil {
		return nil, fmt.Errorf("read seed.json: %w", err)
	}

	var doc catalogSeedDocument
	if err := json.Unmarshal(seedBytes, &doc); err != nil {
		return nil, fmt.Errorf("decode product seed file: %w", err)
	}

	if len(doc.Products) == 0 {
		return nil, errors.New("seed file does not contain products")
	}

	return doc.Products, nil
}

// ApplySeeds ensures the initial product catalog exists.
func ApplySeeds(ctx context.Context, repo ProductRepo, db *mongo.Database, seedFS embed.FS, logger apt.Logger) error {
	if repo == nil {
		return errors.New("product repository is required")
	}
	if db == nil {
		return errors.New("database is required for seeding")
	}

	seedDocs, err := loadProductSeeds(seedFS)
	if err != nil {
		return err
	}

	seedDefs := []seed.Seed{
		{
			ID:          "2026-01-10_base_catalog_v1",
			Description: "Create the base crêpe and coffee catalog",
			Run: func(ctx context.Context) error {
				return seedProducts(ctx, repo, seedDocs, logger)
			},
		},
	}

	tracker := seed.NewMongoTracker(db)

	logger.Info("Applying catalog seeds")
	if err := seed.Apply(ctx, tracker, seedDefs, catalogSeedApplication); err != nil {
		return err
	}
	logger.Info("Catalog seeds applied successfully")
	return nil
}

func seedProducts(ctx context.Context, repo ProductRepo, seeds []productSeed, logger apt.Logger) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("cannot list products: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, p := range existing {
		known[p.Name] = true
	}

	for _, s := range seeds {
		if known[s.Name] {
			continue
		}

		product := NewProduct()
		product.Name = s.Name
		product.Price = s.Price
		product.Cost = s.Cost
		product.Category = s.Category
		product.BeforeCreate()

		if err := repo.Create(ctx, product); err != nil {
			return fmt.Errorf("cannot seed product %q: %w", s.Name, err)
		}
		logger.Debug("seeded product", "name", s.Name)
	}
	return nil
}
