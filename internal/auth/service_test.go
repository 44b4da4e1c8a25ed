package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"repair-shop-backend/internal/apperr"
	"repair-shop-backend/internal/model"
)

// fakeAccounts is an in-memory Accounts implementation.
type fakeAccounts struct {
	profiles  map[string]*model.Profile
	roles     map[int64]string
	nextID    int64
	creates   int
	lookupErr error
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{profiles: map[string]*model.Profile{}, roles: map[int64]string{}}
}

func (f *fakeAccounts) EmailRegistered(_ context.Context, email string) (bool, error) {
	_, ok := f.profiles[email]
	return ok, nil
}

func (f *fakeAccounts) CreateProfile(_ context.Context, p *model.Profile, role Role) error {
	f.creates++
	f.nextID++
	p.UserID = f.nextID
	f.profiles[p.Email] = p
	if role != "" {
		f.roles[p.UserID] = string(role)
	}
	return nil
}

func (f *fakeAccounts) ProfileByEmail(_ context.Context, email string) (*model.Profile, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	p, ok := f.profiles[email]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	return p, nil
}

func (f *fakeAccounts) RoleNameFor(_ context.Context, userID int64) (*string, error) {
	name, ok := f.roles[userID]
	if !ok {
		return nil, nil
	}
	return &name, nil
}

func newTestService(accounts Accounts, admins ...string) *Service {
	return NewService(accounts, NewTokenIssuer("secret", "repair-shop", time.Hour), NewMemoryRevoker(time.Minute), admins, zap.NewNop())
}

func TestService_Register(t *testing.T) {
	accounts := newFakeAccounts()
	svc := newTestService(accounts)

	profile, err := svc.Register(context.Background(), RegisterInput{FullName: "A", Email: " A@X.com", Phone: "555", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.UserID)
	assert.Equal(t, "a@x.com", profile.Email)
	assert.True(t, CheckPassword("secret1", profile.Password))

	_, err = svc.Register(context.Background(), RegisterInput{FullName: "B", Email: "a@x.com", Phone: "556", Password: "secret2"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, 1, accounts.creates, "duplicate email must be rejected before any write")
}

func TestService_RegisterValidation(t *testing.T) {
	svc := newTestService(newFakeAccounts())

	testCases := []struct {
		name  string
		input RegisterInput
		msg   string
	}{
		{name: "no name", input: RegisterInput{Email: "a@x.com", Phone: "555", Password: "secret1"}, msg: "Full name is required"},
		{name: "bad email", input: RegisterInput{FullName: "A", Email: "nope", Phone: "555", Password: "secret1"}, msg: "Invalid email format"},
		{name: "display name email", input: RegisterInput{FullName: "A", Email: "A <a@b.test>", Phone: "555", Password: "secret1"}, msg: "Invalid email format"},
		{name: "bad phone", input: RegisterInput{FullName: "A", Email: "a@x.com", Phone: "call me", Password: "secret1"}, msg: "Invalid phone number"},
		{name: "short password", input: RegisterInput{FullName: "A", Email: "a@x.com", Phone: "555", Password: "12345"}, msg: "Password must be at least 6 characters long"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.input)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Equal(t, tc.msg, apperr.MessageOf(err, ""))
		})
	}
}

func TestService_LoginRoles(t *testing.T) {
	accounts := newFakeAccounts()
	svc := newTestService(accounts, "boss@x.com")
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{FullName: "Boss", Email: "boss@x.com", Phone: "1", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{FullName: "Plain", Email: "plain@x.com", Phone: "2", Password: "secret1"})
	require.NoError(t, err)

	session, err := svc.Login(ctx, "boss@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, session.Role)

	claims, err := svc.Verify(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims.Role)

	session, err = svc.Login(ctx, "PLAIN@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, DefaultRole, session.Role)
	assert.Equal(t, DefaultRole, session.Claims.Role)
}

func TestService_LoginFailuresAreIndistinguishable(t *testing.T) {
	accounts := newFakeAccounts()
	svc := newTestService(accounts)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{FullName: "A", Email: "a@x.com", Phone: "555", Password: "secret1"})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, "a@x.com", "wrong-pass")
	_, unknownEmail := svc.Login(ctx, "ghost@x.com", "secret1")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestService_LoginStoreFailure(t *testing.T) {
	accounts := newFakeAccounts()
	accounts.lookupErr = errors.New("connection refused")
	svc := newTestService(accounts)

	_, err := svc.Login(context.Background(), "a@x.com", "secret1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindServer, apperr.KindOf(err))
}

func TestService_LogoutRevokesToken(t *testing.T) {
	accounts := newFakeAccounts()
	svc := newTestService(accounts)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{FullName: "A", Email: "a@x.com", Phone: "555", Password: "secret1"})
	require.NoError(t, err)

	session, err := svc.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.Token))
	_, err = svc.Verify(ctx, session.Token)
	assert.True(t, IsInvalidToken(err))

	assert.NoError(t, svc.Logout(ctx, "garbage"), "invalid tokens are ignored on logout")
}
