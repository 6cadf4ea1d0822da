package members

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewstack/auth-backend/internal/models"
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaches.
const uniqueViolation = "23505"

// Repository handles organization, role, and member persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a membership repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SignUpParams carries the rows created by one signup.
type SignUpParams struct {
	Email            string
	PasswordHash     string
	Profile          models.JSONMap
	UserSettings     models.JSONMap
	OrganizationName string
	OrgSettings      models.JSONMap
	Personal         bool
}

// SignUp creates organization, user, Owner role, and member in one
// transaction. If any step fails, nothing is committed. A concurrent signup
// with the same email surfaces as ErrEmailTaken via the unique constraint.
func (r *Repository) SignUp(ctx context.Context, p SignUpParams) (userID, orgID int64, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback(ctx)

	now := time.Now().Unix()

	const orgQ = `INSERT INTO organizations (name, status, personal, settings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5) RETURNING id`
	if err = tx.QueryRow(ctx, orgQ, p.OrganizationName, models.StatusActive, p.Personal, p.OrgSettings, now).Scan(&orgID); err != nil {
		return 0, 0, err
	}

	const userQ = `INSERT INTO users (email, password, profile, status, settings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id`
	if err = tx.QueryRow(ctx, userQ, p.Email, p.PasswordHash, p.Profile, models.StatusActive, p.UserSettings, now).Scan(&userID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, 0, ErrEmailTaken
		}
		return 0, 0, err
	}

	var roleID int64
	const roleQ = `INSERT INTO roles (name, org_id) VALUES ($1, $2) RETURNING id`
	if err = tx.QueryRow(ctx, roleQ, models.RoleOwner, orgID).Scan(&roleID); err != nil {
		return 0, 0, err
	}

	const memberQ = `INSERT INTO members (org_id, user_id, role_id, status, settings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, '{}'::jsonb, $5, $5)`
	if _, err = tx.Exec(ctx, memberQ, orgID, userID, roleID, models.MemberStatusOwner, now); err != nil {
		return 0, 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, 0, err
	}
	return userID, orgID, nil
}

// CreateMember inserts a member row. Foreign keys enforce that the
// organization, user, and role exist.
func (r *Repository) CreateMember(ctx context.Context, m *models.Member) error {
	const q = `INSERT INTO members (org_id, user_id, role_id, status, settings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.pool.QueryRow(ctx, q, m.OrgID, m.UserID, m.RoleID, m.Status, m.Settings, m.CreatedAt, m.UpdatedAt).Scan(&m.ID)
}

// GetMember returns a member by id, or nil when absent.
func (r *Repository) GetMember(ctx context.Context, id int64) (*models.Member, error) {
	const q = `SELECT id, org_id, user_id, role_id, status, COALESCE(settings, '{}'::jsonb),
		COALESCE(created_at, 0), COALESCE(updated_at, 0)
		FROM members WHERE id = $1`
	var m models.Member
	err := r.pool.QueryRow(ctx, q, id).Scan(&m.ID, &m.OrgID, &m.UserID, &m.RoleID,
		&m.Status, &m.Settings, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteMember removes a member row only.
func (r *Repository) DeleteMember(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	return err
}

// UpdateMemberRole reassigns the member's role in place.
func (r *Repository) UpdateMemberRole(ctx context.Context, memberID, roleID int64) error {
	const q = `UPDATE members SET role_id = $2, updated_at = $3 WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, memberID, roleID, time.Now().Unix())
	return err
}

// CreateRole inserts a role scoped to an organization.
func (r *Repository) CreateRole(ctx context.Context, role *models.Role) error {
	const q = `INSERT INTO roles (name, description, org_id) VALUES ($1, NULLIF($2, ''), $3) RETURNING id`
	return r.pool.QueryRow(ctx, q, role.Name, role.Description, role.OrgID).Scan(&role.ID)
}

// DeleteOrganization removes an organization. Its roles and members
// cascade-delete.
func (r *Repository) DeleteOrganization(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	return err
}
