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

// MongoUserRepository handles database operations for User.
type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(h *database.Handle) *MongoUserRepository {
	return &MongoUserRepository{coll: h.Collection(CollectionUsers)}
}

// FindByID looks up a user by identity-provider subject.
func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	defer metrics.ObserveDBQuery(CollectionUsers, "find_one", time.Now())

	var u models.User
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if database.IsNotFound(err) {
		return u, apperr.NotFound("user not found")
	}
	if err != nil {
		return u, fmt.Errorf("repositories: find user: %w", err)
	}
	return u, nil
}

// Upsert records a sign-in.
func (r *MongoUserRepository) Upsert(ctx context.Context, u models.User) (models.User, error) {
	defer metrics.ObserveDBQuery(CollectionUsers, "upsert", time.Now())

	now := time.Now().UTC()
	role := u.Role
	if !role.Valid() {
		role = models.RoleStudent
	}
	update := bson.M{
		"$set": bson.M{"email": u.Email, "name": u.Name, "updatedAt": now},
		"$setOnInsert": bson.M{
			"role":      role,
			"isActive":  true,
			"phone":     "",
			"image":     u.Image,
			"wishlist":  []primitive.ObjectID{},
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out models.User
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": u.ID}, update, opts).Decode(&out); err != nil {
		return out, fmt.Errorf("repositories: upsert user: %w", err)
	}
	return out, nil
}

// Update persists changes to an existing user.
func (r *MongoUserRepository) Update(ctx context.Context, u *models.User) error {
	defer metrics.ObserveDBQuery(CollectionUsers, "update", time.Now())

	u.UpdatedAt = time.Now().UTC()
	res, err := r.coll.UpdateByID(ctx, u.ID, bson.M{"$set": bson.M{
		"name":      u.Name,
		"phone":     u.Phone,
		"image":     u.Image,
		"role":      u.Role,
		"isActive":  u.IsActive,
		"updatedAt": u.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("repositories: update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// List returns users newest first with pagination.
func (r *MongoUserRepository) List(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	defer metrics.ObserveDBQuery(CollectionUsers, "find", time.Now())

	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("repositories: count users: %w", err)
	}

	_, limit, skip := Paging(page, limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("repositories: list users: %w", err)
	}
	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("repositories: decode users: %w", err)
	}
	return users, total, nil
}

func (r *MongoUserRepository) AddToWishlist(ctx context.Context, id string, product primitive.ObjectID) error {
	return r.wishlist(ctx, id, "$addToSet", product)
}

func (r *MongoUserRepository) RemoveFromWishlist(ctx context.Context, id string, product primitive.ObjectID) error {
	return r.wishlist(ctx, id, "$pull", product)
}

func (r *MongoUserRepository) wishlist(ctx context.Context, id, op string, product primitive.ObjectID) error {
	defer metrics.ObserveDBQuery(CollectionUsers, "wishlist", time.Now())

	res, err := r.coll.UpdateByID(ctx, id, bson.M{
		op:     bson.M{"wishlist": product},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("repositories: update wishlist: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
