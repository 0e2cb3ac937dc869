package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hirelane/internal/domain/account"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidRole            = errors.New("role must be candidate or employer")
	ErrInternal               = errors.New("internal error")
)

const minPasswordLength = 8

type RegisterInput struct {
	Email       string
	Password    string
	Role        string
	FullName    string
	CompanyName string
}

type LoginInput struct {
	Email    string
	Password string
}

type Service struct {
	accounts account.Repository
	now      func() time.Time
}

func NewService(accounts account.Repository) *Service {
	return &Service{accounts: accounts, now: time.Now}
}

// Register creates a candidate or employer account. Administrators are
// only created by the seeder.
func (s *Service) Register(ctx context.Context, in RegisterInput) (account.Account, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return account.Account{}, ErrInvalidInput
	}
	if !IsValidPassword(in.Password) {
		return account.Account{}, ErrInvalidInput
	}

	role := account.RoleCandidate
	if strings.TrimSpace(in.Role) != "" {
		r, ok := account.ParseRole(in.Role)
		if !ok || r == account.RoleAdmin {
			return account.Account{}, ErrInvalidRole
		}
		role = r
	}

	exists, err := s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return account.Account{}, ErrInternal
	}
	if exists {
		return account.Account{}, ErrEmailAlreadyRegistered
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return account.Account{}, ErrInternal
	}

	now := s.now().UTC()
	a := account.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		FullName:     strings.TrimSpace(in.FullName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if role == account.RoleEmployer {
		a.CompanyName = strings.TrimSpace(in.CompanyName)
	}

	if err := s.accounts.Create(ctx, a); err != nil {
		exists, exErr := s.accounts.ExistsByEmail(ctx, email)
		if exErr == nil && exists {
			return account.Account{}, ErrEmailAlreadyRegistered
		}
		return account.Account{}, ErrInternal
	}

	created, err := s.accounts.GetByID(ctx, a.ID)
	if err != nil {
		return account.Account{}, ErrInternal
	}
	return created.Sanitized(), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (account.Account, error) {
	email := NormalizeEmail(in.Email)
	if email == "" {
		return account.Account{}, ErrInvalidCredentials
	}
	if in.Password == "" {
		return account.Account{}, ErrInvalidCredentials
	}

	a, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return account.Account{}, ErrInvalidCredentials
		}
		return account.Account{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(in.Password)); err != nil {
		return account.Account{}, ErrInvalidCredentials
	}

	return a.Sanitized(), nil
}

func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return strings.ToLower(email)
}

func IsValidPassword(pw string) bool {
	return len(strings.TrimSpace(pw)) >= minPasswordLength
}

func HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
