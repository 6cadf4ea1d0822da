package emaillogs

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewstack/auth-backend/internal/models"
)

// Repository handles email_logs persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an email logs repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert records one delivery attempt.
func (r *Repository) Insert(ctx context.Context, el *models.EmailLog) error {
	const q = `INSERT INTO email_logs (email_type, recipient_email, subject, status, error_message, sent_at, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), NULLIF($6, 0), $7)
		RETURNING id`
	return r.pool.QueryRow(ctx, q, el.EmailType, el.RecipientEmail, el.Subject,
		el.Status, el.ErrorMessage, el.SentAt, el.CreatedAt).Scan(&el.ID)
}

// List returns delivery attempts, newest first, optionally filtered by
// recipient.
func (r *Repository) List(ctx context.Context, recipient string, limit int) ([]*models.EmailLog, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT id, email_type, recipient_email, COALESCE(subject, ''), status,
		COALESCE(error_message, ''), COALESCE(sent_at, 0), COALESCE(created_at, 0)
		FROM email_logs
		WHERE ($1 = '' OR recipient_email = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2`
	rows, err := r.pool.Query(ctx, q, recipient, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.EmailLog
	for rows.Next() {
		var el models.EmailLog
		if err := rows.Scan(&el.ID, &el.EmailType, &el.RecipientEmail, &el.Subject,
			&el.Status, &el.ErrorMessage, &el.SentAt, &el.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &el)
	}
	return list, rows.Err()
}
