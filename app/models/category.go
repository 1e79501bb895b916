package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups products.
type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name"          json:"name"`
	Slug        string             `bson:"slug"          json:"slug"`
	Description string             `bson:"description"   json:"description,omitempty"`
	Image       string             `bson:"image"         json:"image,omitempty"`
	IsActive    bool               `bson:"isActive"      json:"isActive"`
	SortOrder   int                `bson:"sortOrder"     json:"sortOrder"`
	CreatedAt   time.Time          `bson:"createdAt"     json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"     json:"updatedAt"`
}
