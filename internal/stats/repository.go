package stats

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RoleCount is the member count for one role name, across all organizations.
type RoleCount struct {
	Role      string `json:"role"`
	UserCount int64  `json:"user_count"`
}

// OrgCount is the member count for one organization name.
type OrgCount struct {
	Organization string `json:"organization"`
	MemberCount  int64  `json:"member_count"`
}

// OrgRoleCount is the member count for one (organization, role) name pair.
type OrgRoleCount struct {
	Organization string `json:"organization"`
	Role         string `json:"role"`
	UserCount    int64  `json:"user_count"`
}

// Repository runs the reporting aggregates. Grouping is by human-readable
// name, not id: organizations (or roles) sharing a name merge into one row.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a stats repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RoleWiseUsers returns member counts grouped by role name.
func (r *Repository) RoleWiseUsers(ctx context.Context) ([]RoleCount, error) {
	const q = `SELECT r.name, COUNT(m.user_id)
		FROM roles r
		INNER JOIN members m ON m.role_id = r.id
		GROUP BY r.name
		ORDER BY r.name`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []RoleCount
	for rows.Next() {
		var rc RoleCount
		if err := rows.Scan(&rc.Role, &rc.UserCount); err != nil {
			return nil, err
		}
		list = append(list, rc)
	}
	return list, rows.Err()
}

// OrgWiseMembers returns member counts grouped by organization name.
func (r *Repository) OrgWiseMembers(ctx context.Context) ([]OrgCount, error) {
	const q = `SELECT o.name, COUNT(m.user_id)
		FROM organizations o
		INNER JOIN members m ON m.org_id = o.id
		GROUP BY o.name
		ORDER BY o.name`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []OrgCount
	for rows.Next() {
		var oc OrgCount
		if err := rows.Scan(&oc.Organization, &oc.MemberCount); err != nil {
			return nil, err
		}
		list = append(list, oc)
	}
	return list, rows.Err()
}

// OrgRoleWiseUsers returns member counts grouped by organization and role name.
func (r *Repository) OrgRoleWiseUsers(ctx context.Context) ([]OrgRoleCount, error) {
	const q = `SELECT o.name, r.name, COUNT(m.user_id)
		FROM organizations o
		INNER JOIN members m ON m.org_id = o.id
		INNER JOIN roles r ON r.id = m.role_id
		GROUP BY o.name, r.name
		ORDER BY o.name, r.name`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []OrgRoleCount
	for rows.Next() {
		var orc OrgRoleCount
		if err := rows.Scan(&orc.Organization, &orc.Role, &orc.UserCount); err != nil {
			return nil, err
		}
		list = append(list, orc)
	}
	return list, rows.Err()
}
