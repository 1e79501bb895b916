package models

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/unistore/app/pricing"
)

// SelectedVariant is a variant choice copied onto a cart or order line,
// carrying the price delta resolved when it was chosen.
type SelectedVariant struct {
	Type  string  `bson:"type"  json:"type"`
	Value string  `bson:"value" json:"value"`
	Price float64 `bson:"price" json:"price"`
}

// CartItem is one line of a cart. Price is the product's base price at the
// moment the line was added.
type CartItem struct {
	ID               string             `bson:"itemId"                     json:"id"`
	Product          primitive.ObjectID `bson:"product"                    json:"product"`
	Name             string             `bson:"name"                       json:"name"`
	Image            string             `bson:"image,omitempty"            json:"image,omitempty"`
	Quantity         int                `bson:"quantity"                   json:"quantity"`
	Price            float64            `bson:"price"                      json:"price"`
	SelectedVariants []SelectedVariant  `bson:"selectedVariants,omitempty" json:"selectedVariants,omitempty"`
	AddedAt          time.Time          `bson:"addedAt"                    json:"addedAt"`
}

// Line converts the item to a pricing input.
func (i CartItem) Line() pricing.Line {
	return pricing.Line{
		BasePrice:     i.Price,
		Quantity:      i.Quantity,
		VariantDeltas: variantDeltas(i.SelectedVariants),
	}
}

// SameSelection reports whether the item is for product with exactly the
// given variants, ignoring order.
func (i CartItem) SameSelection(product primitive.ObjectID, variants []SelectedVariant) bool {
	if i.Product != product || len(i.SelectedVariants) != len(variants) {
		return false
	}
	return variantKey(i.SelectedVariants) == variantKey(variants)
}

// Cart is the single mutable cart of a user.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      string             `bson:"user"          json:"user"`
	Items     []CartItem         `bson:"items"         json:"items"`
	Total     float64            `bson:"total"         json:"total"`
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"     json:"updatedAt"`
}

// Lines returns the pricing inputs of every item.
func (c Cart) Lines() []pricing.Line {
	lines := make([]pricing.Line, len(c.Items))
	for i, item := range c.Items {
		lines[i] = item.Line()
	}
	return lines
}

// Recalculate refreshes the stored total. Call after every mutation.
func (c *Cart) Recalculate() {
	c.Total = pricing.Subtotal(c.Lines())
}

// FindItem returns the index of the line with id, or -1.
func (c Cart) FindItem(id string) int {
	for i, item := range c.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// QuantityOf sums the quantity of every line for product.
func (c Cart) QuantityOf(product primitive.ObjectID) int {
	n := 0
	for _, item := range c.Items {
		if item.Product == product {
			n += item.Quantity
		}
	}
	return n
}

func (c Cart) IsEmpty() bool { return len(c.Items) == 0 }

func variantDeltas(vs []SelectedVariant) []float64 {
	if len(vs) == 0 {
		return nil
	}
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v.Price
	}
	return out
}

func variantKey(vs []SelectedVariant) string {
	keys := make([]string, len(vs))
	for i, v := range vs {
		keys[i] = v.Type + "\x00" + v.Value
	}
	sort.Strings(keys)
	key := ""
	for _, k := range keys {
		key += k + "\x01"
	}
	return key
}
