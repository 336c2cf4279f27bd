package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category names are unique across the collection (case-sensitive, enforced by
// a unique index). The products of a category are derived by lookup, never
// stored on the category itself.
type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
