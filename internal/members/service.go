package members

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/crewstack/auth-backend/internal/models"
	"github.com/crewstack/auth-backend/pkg/queue"
	"github.com/crewstack/auth-backend/pkg/utils"
)

var (
	// ErrEmailTaken is returned by SignUp when the email is already registered.
	ErrEmailTaken = errors.New("user already exists")
	// ErrUserNotFound is returned when no user matches the given email.
	ErrUserNotFound = errors.New("user not found")
	// ErrMemberNotFound is returned when no member matches the given id.
	ErrMemberNotFound = errors.New("member not found")
)

// UserStore is the subset of the user repository the engine needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// MembershipStore persists organizations, roles, and members.
type MembershipStore interface {
	SignUp(ctx context.Context, p SignUpParams) (userID, orgID int64, err error)
	CreateMember(ctx context.Context, m *models.Member) error
	GetMember(ctx context.Context, id int64) (*models.Member, error)
	DeleteMember(ctx context.Context, id int64) error
	UpdateMemberRole(ctx context.Context, memberID, roleID int64) error
	CreateRole(ctx context.Context, role *models.Role) error
	DeleteOrganization(ctx context.Context, id int64) error
}

// Notifier hands mail off to the background worker. Delivery is best-effort;
// enqueue failures never fail the membership operation.
type Notifier interface {
	EnqueueEmail(ctx context.Context, payload queue.EmailPayload) error
}

// Service orchestrates the multi-entity membership flows.
type Service struct {
	users      UserStore
	store      MembershipStore
	mail       Notifier
	bcryptCost int
	logger     *zap.Logger
}

// NewService creates a membership service. A bcryptCost of 0 uses the bcrypt
// default.
func NewService(users UserStore, store MembershipStore, mail Notifier, bcryptCost int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{users: users, store: store, mail: mail, bcryptCost: bcryptCost, logger: logger}
}

// SignUpInput carries the signup request fields.
type SignUpInput struct {
	Email                string
	Password             string
	OrganizationName     string
	OrganizationSettings models.JSONMap
	Personal             bool
	Profile              models.JSONMap
	UserSettings         models.JSONMap
}

// SignUpResult identifies the created user and organization.
type SignUpResult struct {
	UserID int64 `json:"user_id"`
	OrgID  int64 `json:"org_id"`
}

// SignUp creates organization, user, Owner role, and founding member in a
// single transaction, then enqueues the invite mail.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*SignUpResult, error) {
	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := utils.HashPasswordCost(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, orgID, err := s.store.SignUp(ctx, SignUpParams{
		Email:            in.Email,
		PasswordHash:     hash,
		Profile:          orEmpty(in.Profile),
		UserSettings:     orEmpty(in.UserSettings),
		OrganizationName: in.OrganizationName,
		OrgSettings:      orEmpty(in.OrganizationSettings),
		Personal:         in.Personal,
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, queue.EmailTypeInvite, in.Email)
	return &SignUpResult{UserID: userID, OrgID: orgID}, nil
}

// Invite adds an existing user to an organization with the given role. The
// new member is created in the invited-pending state. org_id and role_id are
// not pre-validated; the store's foreign keys are the arbiter.
func (s *Service) Invite(ctx context.Context, orgID int64, userEmail string, roleID int64) error {
	user, err := s.users.GetByEmail(ctx, userEmail)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	now := time.Now().Unix()
	member := &models.Member{
		OrgID:     orgID,
		UserID:    user.ID,
		RoleID:    roleID,
		Status:    models.MemberStatusInvited,
		Settings:  models.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateMember(ctx, member); err != nil {
		return fmt.Errorf("create member: %w", err)
	}

	s.notify(ctx, queue.EmailTypeInvite, userEmail)
	return nil
}

// RemoveMember deletes a member row. The user, organization, and role stay.
func (s *Service) RemoveMember(ctx context.Context, memberID int64) error {
	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return fmt.Errorf("lookup member: %w", err)
	}
	if member == nil {
		return ErrMemberNotFound
	}
	return s.store.DeleteMember(ctx, memberID)
}

// ChangeRole reassigns a member to a new role in place. The new role is not
// checked against the member's organization.
func (s *Service) ChangeRole(ctx context.Context, memberID, newRoleID int64) error {
	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return fmt.Errorf("lookup member: %w", err)
	}
	if member == nil {
		return ErrMemberNotFound
	}
	return s.store.UpdateMemberRole(ctx, memberID, newRoleID)
}

// ResetPassword rehashes and overwrites the user's password, then enqueues a
// notification mail. Knowledge of the email address is the only proof of
// identity required.
func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	hash, err := utils.HashPasswordCost(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.notify(ctx, queue.EmailTypePasswordChanged, email)
	return nil
}

// CreateRole adds a role scoped to an organization. Duplicate names within
// an org are allowed.
func (s *Service) CreateRole(ctx context.Context, role *models.Role) error {
	return s.store.CreateRole(ctx, role)
}

// DeleteOrganization removes an organization; its roles and members
// cascade-delete at the store.
func (s *Service) DeleteOrganization(ctx context.Context, orgID int64) error {
	return s.store.DeleteOrganization(ctx, orgID)
}

func (s *Service) notify(ctx context.Context, emailType, recipient string) {
	if s.mail == nil {
		return
	}
	if err := s.mail.EnqueueEmail(ctx, queue.EmailPayload{EmailType: emailType, RecipientEmail: recipient}); err != nil {
		s.logger.Warn("mail enqueue failed",
			zap.String("email_type", emailType),
			zap.String("recipient", recipient),
			zap.Error(err),
		)
	}
}

func orEmpty(m models.JSONMap) models.JSONMap {
	if m == nil {
		return models.JSONMap{}
	}
	return m
}
