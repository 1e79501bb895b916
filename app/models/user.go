package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool { return r == RoleStudent || r == RoleAdmin }

// User is an account. ID is the subject issued by the identity provider.
type User struct {
	ID        string               `bson:"_id"       json:"id"`
	Email     string               `bson:"email"     json:"email"`
	Name      string               `bson:"name"      json:"name"`
	Phone     string               `bson:"phone"     json:"phone,omitempty"`
	Image     string               `bson:"image"     json:"image,omitempty"`
	Role      Role                 `bson:"role"      json:"role"`
	IsActive  bool                 `bson:"isActive"  json:"isActive"`
	Wishlist  []primitive.ObjectID `bson:"wishlist"  json:"wishlist"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}
