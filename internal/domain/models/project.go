// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is a tenant: an isolated partition of the document store with an
// explicit member list. Users holds the hex ObjectIDs of member accounts.
// A project with no members is legal but unreachable.
type Project struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name  string             `bson:"name" json:"name"`
	Users []string           `bson:"users" json:"users"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// HasMember reports whether the subject id is in the project's member list.
func (p Project) HasMember(subject string) bool {
	for _, u := range p.Users {
		if u == subject {
			return true
		}
	}
	return false
}
