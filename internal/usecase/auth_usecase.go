package usecase

import (
	"context"
	"errors"

	"hirelane/internal/domain/account"
	"hirelane/internal/pkg/jwt"
	ucauth "hirelane/internal/usecase/auth"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrInternal            = errors.New("internal error")
)

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (account.Account, string, string, error)
	Login(ctx context.Context, in ucauth.LoginInput) (account.Account, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

type Auth struct {
	authSvc  *ucauth.Service
	accounts account.Repository
	jwt      jwt.Service
}

func NewAuthUsecase(accounts account.Repository, jwtSvc jwt.Service) *Auth {
	return &Auth{authSvc: ucauth.NewService(accounts), accounts: accounts, jwt: jwtSvc}
}

func (u *Auth) Register(ctx context.Context, in ucauth.RegisterInput) (account.Account, string, string, error) {
	acc, err := u.authSvc.Register(ctx, in)
	if err != nil {
		return account.Account{}, "", "", err
	}

	access, refresh, err := u.issue(acc)
	if err != nil {
		return account.Account{}, "", "", err
	}
	return acc, access, refresh, nil
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (account.Account, string, string, error) {
	acc, err := u.authSvc.Login(ctx, in)
	if err != nil {
		return account.Account{}, "", "", err
	}

	access, refresh, err := u.issue(acc)
	if err != nil {
		return account.Account{}, "", "", err
	}
	return acc, access, refresh, nil
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if refreshToken == "" {
		return "", "", ErrUnauthorized
	}

	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrRefreshTokenExpired
		}
		return "", "", ErrInvalidRefreshToken
	}

	if !u.jwt.IsRefreshToken(claims) {
		return "", "", ErrInvalidRefreshToken
	}

	acc, err := u.accounts.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return "", "", ErrInvalidRefreshToken
		}
		return "", "", ErrInternal
	}

	return u.issue(acc)
}

// issue reads the role from the stored account so a role change takes
// effect on the next refresh.
func (u *Auth) issue(acc account.Account) (string, string, error) {
	access, err := u.jwt.GenerateAccessToken(acc.ID, acc.Email, string(acc.Role))
	if err != nil {
		return "", "", ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(acc.ID)
	if err != nil {
		return "", "", ErrInternal
	}
	return access, refresh, nil
}
