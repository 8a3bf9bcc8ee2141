package tables

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

const tableSeedApplication = "tables"

type bootstrapSeedDocument struct {
	Tables []tableSeed `json:"tables"`
}

type tableSeed struct {
	Number   int    `json:"number"`
	Capacity int    `json:"capacity"`
	Location string `json:"location,omitempty"`
	Status   string `json:"status,omitempty"`
}

func loadTableSeeds(seedFS embed.FS) ([]tableSeed, error) {
	seedBytes, err := seedFS.ReadFile("seed.json")
	if err != nil {
		return nil, fmt.Errorf("read seed.json: %w", err)
	}

	var doc bootstrapSeedDocument
	if err := json.Unmarshal(seedBytes, &doc); err != nil {
		return nil, fmt.Errorf("decode table seed file: %w", err)
	}

	if len(doc.Tables) == 0 {
		return nil, errors.New("seed file does not contain tables")
	}

	return doc.Tables, nil
}

// ApplySeeds ensures the physical table layout exists.
func ApplySeeds(ctx context.Context, repo TableRepo, db *mongo.Database, seedFS embed.FS, logger apt.Logger) error {
	if repo == nil {
		return errors.New("table repository is required")
	}
	if db == nil {
		return errors.New("database is required for seeding")
	}

	seedDocs, err := loadTableSeeds(seedFS)
	if err != nil {
		return err
	}

	seedDefs := []seed.Seed{
		{
			ID:          "2026-01-10_room_layout_v1",
			Description: "Create the physical table layout",
			Run: func(ctx context.Context) error {
				return seedTables(ctx, repo, seedDocs, logger)
			},
		},
	}

	tracker := seed.NewMongoTracker(db)

	logger.Info("Applying table seeds")
	if err := seed.Apply(ctx, tracker, seedDefs, tableSeedApplication); err != nil {
		return err
	}
	logger.Info("Table seeds applied successfully")
	return nil
}

func seedTables(ctx context.Context, repo TableRepo, seeds []tableSeed, logger apt.Logger) error {
	for _, s := range seeds {
		existing, err := repo.GetByNumber(ctx, s.Number)
		if err == nil && existing != nil {
			continue
		}

		table := NewTable()
		table.Number = s.Number
		table.Capacity = s.Capacity
		table.Location = s.Location
		if s.Status != "" {
			table.Status = s.Status
		}
		table.BeforeCreate()

		if err := repo.Create(ctx, table); err != nil {
			return fmt.Errorf("cannot seed table %d: %w", s.Number, err)
		}
		logger.Debug("seeded table", "number", s.Number)
	}
	return nil
}
