package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/unistore/app/models"
	"github.com/shashiranjanraj/unistore/pkg/apperr"
	"github.com/shashiranjanraj/unistore/pkg/database"
	"github.com/shashiranjanraj/unistore/pkg/metrics"
)

// MongoCartRepository keeps one document per user, written whole on every
// change.
type MongoCartRepository struct {
	coll *mongo.Collection
}

func NewCartRepository(h *database.Handle) *MongoCartRepository {
	return &MongoCartRepository{coll: h.Collection(CollectionCarts)}
}

func (r *MongoCartRepository) FindByUser(ctx context.Context, user string) (models.Cart, error) {
	defer metrics.ObserveDBQuery(CollectionCarts, "find_one", time.Now())

	var c models.Cart
	err := r.coll.FindOne(ctx, bson.M{"user": user}).Decode(&c)
	if database.IsNotFound(err) {
		return c, apperr.NotFound("cart not found")
	}
	if err != nil {
		return c, fmt.Errorf("repositories: find cart: %w", err)
	}
	return c, nil
}

func (r *MongoCartRepository) Save(ctx context.Context, c *models.Cart) error {
	defer metrics.ObserveDBQuery(CollectionCarts, "replace", time.Now())

	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}

	opts := options.FindOneAndReplace().SetUpsert(true).SetReturnDocument(options.After)
	var saved models.Cart
	if err := r.coll.FindOneAndReplace(ctx, bson.M{"user": c.User}, c, opts).Decode(&saved); err != nil {
		return fmt.Errorf("repositories: save cart: %w", err)
	}
	c.ID = saved.ID
	return nil
}

func (r *MongoCartRepository) Delete(ctx context.Context, user string) error {
	defer metrics.ObserveDBQuery(CollectionCarts, "delete", time.Now())

	if _, err := r.coll.DeleteOne(ctx, bson.M{"user": user}); err != nil {
		return fmt.Errorf("repositories: delete cart: %w", err)
	}
	return nil
}
