package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product always references exactly one existing category. CategoryName is a
// denormalized copy of that category's name, rewritten on category rename; the
// read path resolves the live reference when the two disagree.
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description" json:"description"`
	Price        float64            `bson:"price" json:"price"`
	Stock        int                `bson:"stock" json:"stock"`
	Brand        string             `bson:"brand,omitempty" json:"brand,omitempty"`
	CategoryID   primitive.ObjectID `bson:"categoryId" json:"categoryId"`
	CategoryName string             `bson:"categoryName" json:"categoryName"`
	ProductPic   Image              `bson:"productPic,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
