package usecase

import (
	"context"

	"hirelane/internal/domain/account"
	ucaccount "hirelane/internal/usecase/account"

	"github.com/google/uuid"
)

type AccountUsecase interface {
	GetMe(ctx context.Context, id uuid.UUID) (account.Account, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in ucaccount.UpdateProfileInput) (account.Account, error)
}

type Account struct {
	svc *ucaccount.Service
}

func NewAccountUsecase(accounts account.Repository) *Account {
	return &Account{svc: ucaccount.NewService(accounts)}
}

func (u *Account) GetMe(ctx context.Context, id uuid.UUID) (account.Account, error) {
	return u.svc.GetMe(ctx, id)
}

func (u *Account) UpdateProfile(ctx context.Context, id uuid.UUID, in ucaccount.UpdateProfileInput) (account.Account, error) {
	return u.svc.UpdateProfile(ctx, id, in)
}
