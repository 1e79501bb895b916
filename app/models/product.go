package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Variant is a purchasable option of a product such as a size or colour.
// Price is a delta added to the product's base price.
type Variant struct {
	Type  string  `bson:"type"            json:"type"  validate:"required,max=50"`
	Value string  `bson:"value"           json:"value" validate:"required,max=100"`
	Price float64 `bson:"price,omitempty" json:"price" validate:"gte=0"`
	Stock *int    `bson:"stock,omitempty" json:"stock,omitempty" validate:"omitempty,gte=0"`
}

// Product is a catalogue entry. Products are never hard-deleted; deleting
// one clears IsActive.
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"          json:"id"`
	Name         string             `bson:"name"                   json:"name"`
	Description  string             `bson:"description"            json:"description"`
	Price        float64            `bson:"price"                  json:"price"`
	ComparePrice *float64           `bson:"comparePrice,omitempty" json:"comparePrice,omitempty"`
	Category     primitive.ObjectID `bson:"category"               json:"category"`
	Images       []string           `bson:"images"                 json:"images"`
	Tags         []string           `bson:"tags"                   json:"tags"`
	Variants     []Variant          `bson:"variants"               json:"variants"`
	Quantity     int                `bson:"quantity"               json:"quantity"`
	IsActive     bool               `bson:"isActive"               json:"isActive"`
	IsFeatured   bool               `bson:"isFeatured"             json:"isFeatured"`
	CreatedAt    time.Time          `bson:"createdAt"              json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"              json:"updatedAt"`
}

// FindVariant looks up a variant by type and value, case-sensitively.
func (p Product) FindVariant(typ, value string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.Type == typ && v.Value == value {
			return v, true
		}
	}
	return Variant{}, false
}

// FirstImage is the image copied into order snapshots.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
