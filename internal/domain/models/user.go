// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an end-user account.
//
// PasswordHash holds the bcrypt hash once a password is set. It is never
// serialized to JSON; representations handed back to a caller additionally
// go through WithoutHash so the hash cannot leak through bson round-trips.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	FirstName    string             `bson:"first_name" json:"firstName"`
	LastName     string             `bson:"last_name" json:"lastName"`
	PasswordHash *string            `bson:"password,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// WithoutHash returns a copy of the user with the password hash removed.
func (u User) WithoutHash() User {
	u.PasswordHash = nil
	return u
}
