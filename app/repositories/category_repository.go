package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/unistore/app/models"
	"github.com/shashiranjanraj/unistore/pkg/apperr"
	"github.com/shashiranjanraj/unistore/pkg/database"
	"github.com/shashiranjanraj/unistore/pkg/metrics"
)

type MongoCategoryRepository struct {
	coll *mongo.Collection
}

func NewCategoryRepository(h *database.Handle) *MongoCategoryRepository {
	return &MongoCategoryRepository{coll: h.Collection(CollectionCategories)}
}

func (r *MongoCategoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	defer metrics.ObserveDBQuery(CollectionCategories, "find_one", time.Now())

	var c models.Category
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if database.IsNotFound(err) {
		return c, apperr.NotFound("category not found")
	}
	if err != nil {
		return c, fmt.Errorf("repositories: find category: %w", err)
	}
	return c, nil
}

// List orders categories by sortOrder, then name.
func (r *MongoCategoryRepository) List(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	defer metrics.ObserveDBQuery(CollectionCategories, "find", time.Now())

	filter := bson.M{}
	if !includeInactive {
		filter["isActive"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}, {Key: "name", Value: 1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("repositories: list categories: %w", err)
	}
	categories := []models.Category{}
	if err := cur.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("repositories: decode categories: %w", err)
	}
	return categories, nil
}

func (r *MongoCategoryRepository) Create(ctx context.Context, c *models.Category) error {
	defer metrics.ObserveDBQuery(CollectionCategories, "insert", time.Now())

	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, c)
	if database.IsDuplicateKey(err) {
		return apperr.Conflict("a category with slug %q already exists", c.Slug)
	}
	if err != nil {
		return fmt.Errorf("repositories: insert category: %w", err)
	}
	return nil
}

func (r *MongoCategoryRepository) Update(ctx context.Context, c *models.Category) error {
	defer metrics.ObserveDBQuery(CollectionCategories, "replace", time.Now())

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if database.IsDuplicateKey(err) {
		return apperr.Conflict("a category with slug %q already exists", c.Slug)
	}
	if err != nil {
		return fmt.Errorf("repositories: replace category: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("category not found")
	}
	return nil
}

func (r *MongoCategoryRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	defer metrics.ObserveDBQuery(CollectionCategories, "update", time.Now())

	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("repositories: update category: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("category not found")
	}
	return nil
}
