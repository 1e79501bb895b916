package migrations

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/unistore/app/repositories"
	"github.com/shashiranjanraj/unistore/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_categories_indexes", CategoriesIndexes)
	migration.Register("20260101000001_create_products_indexes", ProductsIndexes)
	migration.Register("20260101000002_create_carts_indexes", CartsIndexes)
	migration.Register("20260101000003_create_orders_indexes", OrdersIndexes)
}

var CategoriesIndexes = indexSet{
	collection: repositories.CollectionCategories,
	indexes: []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetName("slug_unique").SetUnique(true)},
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "sortOrder", Value: 1}, {Key: "name", Value: 1}}, Options: options.Index().SetName("active_sort")},
	},
}

var ProductsIndexes = indexSet{
	collection: repositories.CollectionProducts,
	indexes: []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "isActive", Value: 1}}, Options: options.Index().SetName("category_active")},
		{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "tags", Value: "text"}}, Options: options.Index().SetName("name_tags_text")},
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("active_newest")},
	},
}

// Carts are keyed by owner; Save upserts on user.
var CartsIndexes = indexSet{
	collection: repositories.CollectionCarts,
	indexes: []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}}, Options: options.Index().SetName("user_unique").SetUnique(true)},
	},
}

// The checkout token index only covers orders that were placed with one.
var OrdersIndexes = indexSet{
	collection: repositories.CollectionOrders,
	indexes: []mongo.IndexModel{
		{Keys: bson.D{{Key: "orderNumber", Value: 1}}, Options: options.Index().SetName("order_number_unique").SetUnique(true)},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("user_newest")},
		{
			Keys: bson.D{{Key: "user", Value: 1}, {Key: "checkoutToken", Value: 1}},
			Options: options.Index().
				SetName("user_checkout_token_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"checkoutToken": bson.M{"$type": "string"}}),
		},
		{Keys: bson.D{{Key: "orderStatus", Value: 1}, {Key: "paymentStatus", Value: 1}}, Options: options.Index().SetName("status_pair")},
	},
}
