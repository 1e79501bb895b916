// Package migrations holds the storefront's index migrations. Each file
// registers itself with migration.Register from init(); cmd/unistore
// imports this package for that side effect.
package migrations

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// indexSet creates and drops a fixed set of named indexes on one collection.
type indexSet struct {
	collection string
	indexes    []mongo.IndexModel
}

func (s indexSet) Up(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(s.collection).Indexes().CreateMany(ctx, s.indexes); err != nil {
		return fmt.Errorf("create %s indexes: %w", s.collection, err)
	}
	return nil
}

func (s indexSet) Down(ctx context.Context, db *mongo.Database) error {
	for _, idx := range s.indexes {
		name := *idx.Options.Name
		if _, err := db.Collection(s.collection).Indexes().DropOne(ctx, name); err != nil {
			return fmt.Errorf("drop %s.%s: %w", s.collection, name, err)
		}
	}
	return nil
}
