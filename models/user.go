// models/user.go
package models

import "time"

// User is a marketplace customer as seen by the booking core: only the
// loyalty balance is read.
type User struct {
	ID            string    `bson:"id" json:"id"`
	Name          string    `bson:"name,omitempty" json:"name,omitempty"`
	PhoneNumber   string    `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	LoyaltyPoints int64     `bson:"loyaltyPoints" json:"loyaltyPoints"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}
