package models

import "time"

// Roles a user can hold. The role is chosen at signup and never changed by the API.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// User is the model for the 'users' collection.
// Email is the dedup key; ID is assigned by the store.
type User struct {
	ID        string    `json:"_id" bson:"-"`
	Email     string    `json:"email" bson:"email"`
	Name      string    `json:"name" bson:"name"`
	Role      string    `json:"role" bson:"role"`
	PhotoURL  string    `json:"photoURL,omitempty" bson:"photoURL,omitempty"`
	Verified  bool      `json:"verified" bson:"verified"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
