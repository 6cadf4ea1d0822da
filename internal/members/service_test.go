package members_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewstack/auth-backend/internal/members"
	"github.com/crewstack/auth-backend/internal/models"
	"github.com/crewstack/auth-backend/pkg/queue"
	"github.com/crewstack/auth-backend/pkg/utils"
)

// memStore is an in-memory stand-in for the user and membership
// repositories. SignUp is all-or-nothing, matching the transactional
// contract of the real store.
type memStore struct {
	users      map[string]*models.User
	orgs       map[int64]*models.Organization
	roles      map[int64]*models.Role
	members    map[int64]*models.Member
	nextID     int64
	failSignUp error
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[string]*models.User{},
		orgs:    map[int64]*models.Organization{},
		roles:   map[int64]*models.Role{},
		members: map[int64]*models.Member{},
	}
}

func (s *memStore) next() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return s.users[email], nil
}

func (s *memStore) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	for _, u := range s.users {
		if u.ID == id {
			u.Password = passwordHash
			return nil
		}
	}
	return errors.New("no such user")
}

func (s *memStore) SignUp(_ context.Context, p members.SignUpParams) (int64, int64, error) {
	if _, ok := s.users[p.Email]; ok {
		return 0, 0, members.ErrEmailTaken
	}
	if s.failSignUp != nil {
		return 0, 0, s.failSignUp
	}
	orgID := s.next()
	s.orgs[orgID] = &models.Organization{ID: orgID, Name: p.OrganizationName, Personal: p.Personal, Settings: p.OrgSettings}
	userID := s.next()
	s.users[p.Email] = &models.User{ID: userID, Email: p.Email, Password: p.PasswordHash, Profile: p.Profile, Settings: p.UserSettings}
	roleID := s.next()
	s.roles[roleID] = &models.Role{ID: roleID, Name: models.RoleOwner, OrgID: orgID}
	memberID := s.next()
	s.members[memberID] = &models.Member{ID: memberID, OrgID: orgID, UserID: userID, RoleID: roleID, Status: models.MemberStatusOwner}
	return userID, orgID, nil
}

func (s *memStore) CreateMember(_ context.Context, m *models.Member) error {
	m.ID = s.next()
	cp := *m
	s.members[m.ID] = &cp
	return nil
}

func (s *memStore) GetMember(_ context.Context, id int64) (*models.Member, error) {
	return s.members[id], nil
}

func (s *memStore) DeleteMember(_ context.Context, id int64) error {
	delete(s.members, id)
	return nil
}

func (s *memStore) UpdateMemberRole(_ context.Context, memberID, roleID int64) error {
	m, ok := s.members[memberID]
	if !ok {
		return errors.New("no such member")
	}
	m.RoleID = roleID
	return nil
}

func (s *memStore) CreateRole(_ context.Context, role *models.Role) error {
	role.ID = s.next()
	cp := *role
	s.roles[role.ID] = &cp
	return nil
}

func (s *memStore) DeleteOrganization(_ context.Context, id int64) error {
	delete(s.orgs, id)
	for rid, r := range s.roles {
		if r.OrgID == id {
			delete(s.roles, rid)
		}
	}
	for mid, m := range s.members {
		if m.OrgID == id {
			delete(s.members, mid)
		}
	}
	return nil
}

type fakeNotifier struct {
	sent []queue.EmailPayload
	err  error
}

func (f *fakeNotifier) EnqueueEmail(_ context.Context, payload queue.EmailPayload) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, payload)
	return nil
}

func newService(store *memStore, mail *fakeNotifier) *members.Service {
	return members.NewService(store, store, mail, 4, nil)
}

func signUpInput(email string) members.SignUpInput {
	return members.SignUpInput{
		Email:            email,
		Password:         "pw-secret",
		OrganizationName: "Acme",
	}
}

func TestSignUpCreatesAllEntities(t *testing.T) {
	store := newMemStore()
	mail := &fakeNotifier{}
	svc := newService(store, mail)

	result, err := svc.SignUp(context.Background(), signUpInput("a@x.com"))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotZero(t, result.UserID)
	assert.NotZero(t, result.OrgID)

	user := store.users["a@x.com"]
	require.NotNil(t, user)
	assert.NotEqual(t, "pw-secret", user.Password)
	assert.True(t, utils.CheckPassword("pw-secret", user.Password))

	require.Len(t, store.roles, 1)
	for _, role := range store.roles {
		assert.Equal(t, models.RoleOwner, role.Name)
		assert.Equal(t, result.OrgID, role.OrgID)
	}

	require.Len(t, store.members, 1)
	for _, m := range store.members {
		assert.Equal(t, result.UserID, m.UserID)
		assert.Equal(t, result.OrgID, m.OrgID)
		assert.Equal(t, models.MemberStatusOwner, m.Status)
	}

	require.Len(t, mail.sent, 1)
	assert.Equal(t, queue.EmailTypeInvite, mail.sent[0].EmailType)
	assert.Equal(t, "a@x.com", mail.sent[0].RecipientEmail)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	store := newMemStore()
	mail := &fakeNotifier{}
	svc := newService(store, mail)

	first, err := svc.SignUp(context.Background(), signUpInput("a@x.com"))
	require.NoError(t, err)

	_, err = svc.SignUp(context.Background(), signUpInput("a@x.com"))
	assert.ErrorIs(t, err, members.ErrEmailTaken)

	// The original rows are untouched and no second mail goes out.
	assert.Len(t, store.orgs, 1)
	assert.Len(t, store.members, 1)
	assert.Equal(t, first.UserID, store.users["a@x.com"].ID)
	assert.Len(t, mail.sent, 1)
}

func TestSignUpAtomicity(t *testing.T) {
	store := newMemStore()
	store.failSignUp = errors.New("insert role: connection reset")
	mail := &fakeNotifier{}
	svc := newService(store, mail)

	_, err := svc.SignUp(context.Background(), signUpInput("a@x.com"))
	require.Error(t, err)

	// Nothing from the failed attempt survives.
	assert.Empty(t, store.users)
	assert.Empty(t, store.orgs)
	assert.Empty(t, store.roles)
	assert.Empty(t, store.members)
	assert.Empty(t, mail.sent)
}

func TestSignUpMailEnqueueFailureIsBestEffort(t *testing.T) {
	store := newMemStore()
	mail := &fakeNotifier{err: errors.New("redis down")}
	svc := newService(store, mail)

	result, err := svc.SignUp(context.Background(), signUpInput("a@x.com"))
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.NotNil(t, store.users["a@x.com"])
}

func TestInvite(t *testing.T) {
	store := newMemStore()
	mail := &fakeNotifier{}
	svc := newService(store, mail)

	result, err := svc.SignUp(context.Background(), signUpInput("owner@x.com"))
	require.NoError(t, err)
	_, err = svc.SignUp(context.Background(), signUpInput("guest@y.com"))
	require.NoError(t, err)
	mail.sent = nil

	var roleID int64
	for id := range store.roles {
		if store.roles[id].OrgID == result.OrgID {
			roleID = id
		}
	}

	err = svc.Invite(context.Background(), result.OrgID, "guest@y.com", roleID)
	require.NoError(t, err)

	var invited *models.Member
	for _, m := range store.members {
		if m.Status == models.MemberStatusInvited {
			invited = m
		}
	}
	require.NotNil(t, invited)
	assert.Equal(t, result.OrgID, invited.OrgID)
	assert.Equal(t, store.users["guest@y.com"].ID, invited.UserID)
	assert.Equal(t, roleID, invited.RoleID)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, queue.EmailTypeInvite, mail.sent[0].EmailType)
	assert.Equal(t, "guest@y.com", mail.sent[0].RecipientEmail)
}

func TestInviteUnknownUser(t *testing.T) {
	store := newMemStore()
	mail := &fakeNotifier{}
	svc := newService(store, mail)

	err := svc.Invite(context.Background(), 1, "nobody@x.com", 1)
	assert.ErrorIs(t, err, members.ErrUserNotFound)
	assert.Empty(t, mail.sent)
}

func TestRemoveMember(t *testing.T) {
	store := newMemStore()
	svc := newService(store, &fakeNotifier{})

	_, err := svc.SignUp(context.Background(), signUpInput("a@x.com"))
	require.NoError(t, err)

	var memberID int64
	for id := range store.members {
		memberID = id
	}

	require.NoError(t, svc.RemoveMember(context.Background(), memberID))
	assert.Empty(t, store.members)

	// Only the member row is gone.
	assert.Len(t, store.users, 1)
	assert.Len(t, store.orgs, 1)
	assert.Len(t, store.roles, 1)

	err = svc.RemoveMember(context.Background(), memberID)
	assert.ErrorIs(t, err, members.ErrMemberNotFound)
}

func TestChangeRole(t *testing.T) {
	store := newMemStore()
	svc := newService(store, &fakeNotifier{})

	result, err := svc.SignUp(context.Background(), signUpInput("a@x.com"))
	require.NoError(t, err)

	newRole := &models.Role{Name: "Editor", OrgID: result.OrgID}
	require.NoError(t, svc.CreateRole(context.Background(), newRole))

	var memberID int64
	for id := range store.members {
		memberID = id
	}

	require.NoError(t, svc.ChangeRole(context.Background(), memberID, newRole.ID))
	assert.Equal(t, newRole.ID, store.members[memberID].RoleID)

	err = svc.ChangeRole(context.Background(), memberID+1000, newRole.ID)
	assert.ErrorIs(t, err, members.ErrMemberNotFound)
}

func TestResetPassword(t *testing.T) {
	store := newMemStore()
	mail := &fakeNotifier{}
	svc := newService(store, mail)

	_, err := svc.SignUp(context.Background(), signUpInput("a@x.com"))
	require.NoError(t, err)
	mail.sent = nil

	require.NoError(t, svc.ResetPassword(context.Background(), "a@x.com", "pw-rotated"))

	user := store.users["a@x.com"]
	assert.True(t, utils.CheckPassword("pw-rotated", user.Password))
	assert.False(t, utils.CheckPassword("pw-secret", user.Password))

	require.Len(t, mail.sent, 1)
	assert.Equal(t, queue.EmailTypePasswordChanged, mail.sent[0].EmailType)

	err = svc.ResetPassword(context.Background(), "nobody@x.com", "pw")
	assert.ErrorIs(t, err, members.ErrUserNotFound)
}

func TestDeleteOrganizationCascades(t *testing.T) {
	store := newMemStore()
	svc := newService(store, &fakeNotifier{})

	result, err := svc.SignUp(context.Background(), signUpInput("a@x.com"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrganization(context.Background(), result.OrgID))
	assert.Empty(t, store.orgs)
	assert.Empty(t, store.roles)
	assert.Empty(t, store.members)
	// The user account itself survives.
	assert.Len(t, store.users, 1)
}
