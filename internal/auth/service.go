package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"repair-shop-backend/internal/apperr"
	"repair-shop-backend/internal/model"
	"repair-shop-backend/internal/parse"
)

var (
	// ErrInvalidCredentials is shared by the unknown-email and wrong-password
	// paths so the response does not reveal which accounts exist.
	ErrInvalidCredentials = apperr.Authentication("Invalid credentials")

	ErrEmailTaken = apperr.Conflict("Email is already registered")

	phoneRe = regexp.MustCompile(`^\+?[0-9][0-9 ()/-]{1,30}$`)
)

const minPasswordLength = 6

// Accounts is the slice of the store the auth layer needs.
type Accounts interface {
	EmailRegistered(ctx context.Context, email string) (bool, error)
	CreateProfile(ctx context.Context, profile *model.Profile, role Role) error
	ProfileByEmail(ctx context.Context, email string) (*model.Profile, error)
	RoleNameFor(ctx context.Context, userID int64) (*string, error)
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	FullName string
	Email    string
	Phone    string
	Password string
}

// Session is the result of a successful login.
type Session struct {
	Token   string
	Claims  *Claims
	Profile *model.Profile
	Role    Role
}

// Service verifies credentials, issues session tokens and resolves roles.
type Service struct {
	accounts    Accounts
	tokens      *TokenIssuer
	revoker     Revoker
	adminEmails map[string]struct{}
	log         *zap.Logger
}

// NewService wires the credential verifier and role resolver. Profiles
// registering with one of adminEmails are assigned RoleAdmin.
func NewService(accounts Accounts, tokens *TokenIssuer, revoker Revoker, adminEmails []string, log *zap.Logger) *Service {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		admins[normalizeEmail(e)] = struct{}{}
	}
	return &Service{
		accounts:    accounts,
		tokens:      tokens,
		revoker:     revoker,
		adminEmails: admins,
		log:         log,
	}
}

// TokenTTL is the lifetime of issued session tokens.
func (s *Service) TokenTTL() time.Duration { return s.tokens.TTL() }

// Register validates the input, rejects taken emails before any write and
// stores the profile with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.Profile, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	taken, err := s.accounts.EmailRegistered(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		s.log.Warn("registration rejected: email exists", zap.String("email", in.Email))
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := Role("")
	if _, ok := s.adminEmails[in.Email]; ok {
		role = RoleAdmin
	}

	profile := &model.Profile{
		FullName: in.FullName,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: hash,
	}
	if err := s.accounts.CreateProfile(ctx, profile, role); err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.Int64("user_id", profile.UserID), zap.String("email", profile.Email))
	return profile, nil
}

// Login checks email and password and issues a session token carrying the
// profile's resolved role.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	profile, err := s.accounts.ProfileByEmail(ctx, email)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindNotFound {
			return nil, fmt.Errorf("lookup profile: %w", err)
		}
		CheckPassword(password, dummyHash)
		s.log.Warn("login failed: unknown email", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}
	if !CheckPassword(password, profile.Password) {
		s.log.Warn("login failed: wrong password", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	role, err := s.ResolveRole(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}

	token, claims, err := s.tokens.Issue(profile.UserID, profile.FullName, role)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in", zap.Int64("user_id", profile.UserID), zap.String("role", string(role)))
	return &Session{Token: token, Claims: claims, Profile: profile, Role: role}, nil
}

// Verify parses a presented token and rejects revoked ones.
func (s *Service) Verify(ctx context.Context, raw string) (*Claims, error) {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, err
	}
	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("%w: revoked", ErrInvalidToken)
		}
	}
	return claims, nil
}

// Logout revokes raw until it would have expired. Invalid tokens are ignored.
func (s *Service) Logout(ctx context.Context, raw string) error {
	if s.revoker == nil || strings.TrimSpace(raw) == "" {
		return nil
	}
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.log.Info("user logged out", zap.Int64("user_id", claims.UserID))
	return nil
}

// ResolveRole looks up the role assignment of a profile. Profiles without an
// assignment resolve to DefaultRole.
func (s *Service) ResolveRole(ctx context.Context, userID int64) (Role, error) {
	name, err := s.accounts.RoleNameFor(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("resolve role: %w", err)
	}
	return ResolveRole(name), nil
}

// IsInvalidToken reports whether err came from token verification rather
// than from an infrastructure failure.
func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

func validateRegistration(in RegisterInput) error {
	if in.FullName == "" {
		return apperr.Validation("Full name is required")
	}
	if _, err := parse.Email(in.Email); err != nil {
		return apperr.Validation("Invalid email format")
	}
	if !phoneRe.MatchString(in.Phone) {
		return apperr.Validation("Invalid phone number")
	}
	if len(in.Password) < minPasswordLength {
		return apperr.Validation("Password must be at least 6 characters long")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
