package models

// Organization represents a tenant workspace. Personal marks an individual
// (non-team) workspace. Names are not unique.
type Organization struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Status    int     `json:"status"`
	Personal  bool    `json:"personal"`
	Settings  JSONMap `json:"settings"`
	CreatedAt int64   `json:"created_at"`
	UpdatedAt int64   `json:"updated_at"`
}

// Role belongs to exactly one organization and is cascade-deleted with it.
// Duplicate role names within an org are permitted.
type Role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	OrgID       int64  `json:"org_id"`
}

// RoleOwner is the role created and assigned automatically during signup.
const RoleOwner = "Owner"
