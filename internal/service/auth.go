// Package service provides the portal's business logic, delegating
// persistence to repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teameicu/careportal/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserExists is returned when registering an already-known email.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned for unknown accounts or wrong passwords.
	ErrInvalidCredentials = errors.New("invalid email/username or password")
	// ErrNotVerified is returned when logging in before OTP verification.
	ErrNotVerified = errors.New("email not verified")
)

// UserRepository defines the persistence operations required by the
// authentication service.
type UserRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u *models.User) error
	FindByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error)
	MarkVerified(ctx context.Context, email string) (bool, error)
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	CreateToken(email string) (string, error)
}

// AuthService implements registration, login and admin seeding.
type AuthService struct {
	repo   UserRepository
	tokens TokenIssuer
	// now is replaceable in tests; patient IDs derive from it.
	now func() time.Time
}

// NewAuthService constructs an AuthService using the provided repository
// and token issuer.
func NewAuthService(repo UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, now: time.Now}
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	Role        string
	Hospital    string
	Designation string
}

// Register creates an unverified account. The username defaults to the
// email prefix, the role to Patient and the hospital to "N/A", matching
// the original registration contract.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	exists, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	username := in.Username
	if username == "" {
		username = strings.SplitN(in.Email, "@", 2)[0]
	}
	role := models.Role(in.Role)
	if role == "" {
		role = models.RolePatient
	}
	hospital := in.Hospital
	if hospital == "" {
		hospital = "N/A"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		Hospital:     hospital,
		Designation:  in.Designation,
		PatientID:    s.newPatientID(role),
		Verified:     false,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates by username or email and returns a signed access
// token alongside the account.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (string, *models.User, error) {
	user, err := s.repo.FindByUsernameOrEmail(ctx, identifier)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !user.Verified {
		return "", nil, ErrNotVerified
	}

	token, err := s.tokens.CreateToken(user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	return token, user, nil
}

// MarkVerified flips the verification flag after OTP success. Returns
// false when no account matches the email.
func (s *AuthService) MarkVerified(ctx context.Context, email string) (bool, error) {
	return s.repo.MarkVerified(ctx, email)
}

// SeedAdmin ensures the administrator account exists. The admin is a
// regular account with role Admin, created verified so it can log in
// immediately.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) error {
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return s.repo.Create(ctx, &models.User{
		Username:     "Admin",
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Hospital:     "N/A",
		PatientID:    s.newPatientID(models.RoleAdmin),
		Verified:     true,
	})
}

func (s *AuthService) newPatientID(role models.Role) string {
	prefix := "P"
	if strings.EqualFold(string(role), string(models.RoleDoctor)) {
		prefix = "D"
	}
	return fmt.Sprintf("%s%d", prefix, s.now().UnixMilli()%100000)
}
