package models

// Member status codes. These are flags set by the flows that create members,
// not a formal state machine.
const (
	MemberStatusOwner   = 0 // set by signup for the founding member
	MemberStatusInvited = 1 // set by the invite flow
)

// Member links one User to one Organization via one Role. The row is
// cascade-deleted when its organization, user, or role is deleted.
type Member struct {
	ID        int64   `json:"id"`
	OrgID     int64   `json:"org_id"`
	UserID    int64   `json:"user_id"`
	RoleID    int64   `json:"role_id"`
	Status    int     `json:"status"`
	Settings  JSONMap `json:"settings"`
	CreatedAt int64   `json:"created_at"`
	UpdatedAt int64   `json:"updated_at"`
}
