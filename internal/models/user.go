package models

// JSONMap is an open, schema-less JSON object used for profile and settings
// blobs. Values round-trip through jsonb columns as-is.
type JSONMap map[string]interface{}

// StatusActive is the default status code for newly created rows.
const StatusActive = 0

// User represents an account identified by a unique email.
type User struct {
	ID        int64   `json:"id"`
	Email     string  `json:"email"`
	Password  string  `json:"-"`
	Profile   JSONMap `json:"profile"`
	Status    int     `json:"status"`
	Settings  JSONMap `json:"settings"`
	CreatedAt int64   `json:"created_at"`
	UpdatedAt int64   `json:"updated_at"`
}

// UserPublic is User without sensitive fields for API responses.
type UserPublic struct {
	ID        int64   `json:"id"`
	Email     string  `json:"email"`
	Profile   JSONMap `json:"profile"`
	Status    int     `json:"status"`
	CreatedAt int64   `json:"created_at"`
}

// ToPublic converts User to UserPublic.
func (u *User) ToPublic() UserPublic {
	return UserPublic{
		ID:        u.ID,
		Email:     u.Email,
		Profile:   u.Profile,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}
