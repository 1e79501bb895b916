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

// MongoProductRepository stores products.
type MongoProductRepository struct {
	coll *mongo.Collection
}

func NewProductRepository(h *database.Handle) *MongoProductRepository {
	return &MongoProductRepository{coll: h.Collection(CollectionProducts)}
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	defer metrics.ObserveDBQuery(CollectionProducts, "find_one", time.Now())

	var p models.Product
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if database.IsNotFound(err) {
		return p, apperr.NotFound("product not found")
	}
	if err != nil {
		return p, fmt.Errorf("repositories: find product: %w", err)
	}
	return p, nil
}

func (r *MongoProductRepository) List(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	defer metrics.ObserveDBQuery(CollectionProducts, "find", time.Now())

	filter := productQuery(f)
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("repositories: count products: %w", err)
	}

	_, limit, skip := Paging(f.Page, f.Limit)
	opts := options.Find().
		SetSort(productSort(f.Sort)).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("repositories: list products: %w", err)
	}
	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("repositories: decode products: %w", err)
	}
	return products, total, nil
}

func productQuery(f ProductFilter) bson.M {
	q := bson.M{}
	if !f.IncludeInactive {
		q["isActive"] = true
	}
	if !f.Category.IsZero() {
		q["category"] = f.Category
	}
	if f.Search != "" {
		q["$text"] = bson.M{"$search": f.Search}
	}
	if f.Featured != nil {
		q["isFeatured"] = *f.Featured
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		q["price"] = price
	}
	return q
}

func productSort(sort string) bson.D {
	switch sort {
	case SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	}
}

func (r *MongoProductRepository) Create(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveDBQuery(CollectionProducts, "insert", time.Now())

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("repositories: insert product: %w", err)
	}
	return nil
}

func (r *MongoProductRepository) Update(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveDBQuery(CollectionProducts, "replace", time.Now())

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("repositories: replace product: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}

func (r *MongoProductRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	defer metrics.ObserveDBQuery(CollectionProducts, "update", time.Now())

	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("repositories: update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}
