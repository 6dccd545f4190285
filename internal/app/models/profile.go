package models

import "time"

// Profile is the account profile linked 1:1 to an auth provider user.
// ID is the auth provider's user id.
type Profile struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"nombre" db:"nombre"`
	Role      RoleType  `json:"rol" db:"rol"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ProfileFilter narrows profile listings
type ProfileFilter struct {
	Role *RoleType
}
