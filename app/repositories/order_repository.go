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

// MongoOrderRepository stores orders. Orders are inserted once and then
// only their status fields change.
type MongoOrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(h *database.Handle) *MongoOrderRepository {
	return &MongoOrderRepository{coll: h.Collection(CollectionOrders)}
}

func (r *MongoOrderRepository) Create(ctx context.Context, o *models.Order) error {
	defer metrics.ObserveDBQuery(CollectionOrders, "insert", time.Now())

	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, o)
	if database.IsDuplicateKey(err) {
		return apperr.Conflict("order %s already exists", o.OrderNumber)
	}
	if err != nil {
		return fmt.Errorf("repositories: insert order: %w", err)
	}
	return nil
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoOrderRepository) FindByCheckoutToken(ctx context.Context, user, token string) (models.Order, error) {
	return r.findOne(ctx, bson.M{"user": user, "checkoutToken": token})
}

func (r *MongoOrderRepository) findOne(ctx context.Context, filter bson.M) (models.Order, error) {
	defer metrics.ObserveDBQuery(CollectionOrders, "find_one", time.Now())

	var o models.Order
	err := r.coll.FindOne(ctx, filter).Decode(&o)
	if database.IsNotFound(err) {
		return o, apperr.NotFound("order not found")
	}
	if err != nil {
		return o, fmt.Errorf("repositories: find order: %w", err)
	}
	return o, nil
}

func orderQuery(f OrderFilter) bson.M {
	q := bson.M{}
	if f.User != "" {
		q["user"] = f.User
	}
	if f.Status != "" {
		q["orderStatus"] = f.Status
	}
	if f.PaymentStatus != "" {
		q["paymentStatus"] = f.PaymentStatus
	}
	return q
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// List returns one page of matching orders, newest first.
func (r *MongoOrderRepository) List(ctx context.Context, f OrderFilter) ([]models.Order, int64, error) {
	defer metrics.ObserveDBQuery(CollectionOrders, "find", time.Now())

	filter := orderQuery(f)
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("repositories: count orders: %w", err)
	}

	_, limit, skip := Paging(f.Page, f.Limit)
	opts := options.Find().SetSort(newestFirst).SetSkip(int64(skip)).SetLimit(int64(limit))

	orders, err := r.find(ctx, filter, opts)
	return orders, total, err
}

// All returns every matching order, newest first, ignoring paging.
func (r *MongoOrderRepository) All(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	defer metrics.ObserveDBQuery(CollectionOrders, "find_all", time.Now())
	return r.find(ctx, orderQuery(f), options.Find().SetSort(newestFirst))
}

func (r *MongoOrderRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Order, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("repositories: list orders: %w", err)
	}
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("repositories: decode orders: %w", err)
	}
	return orders, nil
}

func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, change models.StatusChange, adminNotes *string) (models.Order, error) {
	defer metrics.ObserveDBQuery(CollectionOrders, "update_status", time.Now())

	set := bson.M{
		"orderStatus":   change.OrderStatus,
		"paymentStatus": change.PaymentStatus,
		"updatedAt":     change.At,
	}
	if adminNotes != nil {
		set["adminNotes"] = *adminNotes
	}
	filter := bson.M{
		"_id":           id,
		"orderStatus":   from.OrderStatus,
		"paymentStatus": from.PaymentStatus,
	}
	update := bson.M{"$set": set, "$push": bson.M{"history": change}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var o models.Order
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&o)
	if database.IsNotFound(err) {
		if _, ferr := r.FindByID(ctx, id); ferr != nil {
			return o, ferr
		}
		return o, apperr.Conflict("order status changed concurrently, reload and retry")
	}
	if err != nil {
		return o, fmt.Errorf("repositories: update order status: %w", err)
	}
	return o, nil
}

type statsRow struct {
	ID struct {
		OrderStatus   string `bson:"orderStatus"`
		PaymentStatus string `bson:"paymentStatus"`
	} `bson:"_id"`
	Count   int64   `bson:"count"`
	Revenue float64 `bson:"revenue"`
}

// Stats counts orders per status and sums the totals of paid orders.
func (r *MongoOrderRepository) Stats(ctx context.Context) (OrderStats, error) {
	defer metrics.ObserveDBQuery(CollectionOrders, "aggregate", time.Now())

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "orderStatus", Value: "$orderStatus"},
				{Key: "paymentStatus", Value: "$paymentStatus"},
			}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$totalAmount"}}},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return OrderStats{}, fmt.Errorf("repositories: aggregate orders: %w", err)
	}
	var rows []statsRow
	if err := cur.All(ctx, &rows); err != nil {
		return OrderStats{}, fmt.Errorf("repositories: decode order stats: %w", err)
	}

	stats := NewOrderStats()
	for _, row := range rows {
		stats.Orders += row.Count
		stats.ByStatus[row.ID.OrderStatus] += row.Count
		stats.ByPayment[row.ID.PaymentStatus] += row.Count
		if row.ID.PaymentStatus == string(models.PaymentPaid) {
			stats.Revenue += row.Revenue
		}
	}
	return stats, nil
}
