package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is assigned once, when the account is provisioned. Authorization reads
// it from the stored record, never from the login email.
type Role string

const (
	RoleShopper Role = "shopper"
	RoleAdmin   Role = "admin"
)

type Status string

const (
	StatusActive  Status = "Active"
	StatusBlocked Status = "Blocked"
)

// User represents an account. A single record may act as a shopper or, when
// provisioned with RoleAdmin, as an administrator.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	Status       Status             `bson:"status" json:"status"`
	ProfilePic   Image              `bson:"profilePic,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
