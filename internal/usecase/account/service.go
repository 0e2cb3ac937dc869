package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"hirelane/internal/domain/account"
	"hirelane/internal/domain/matching"
	"hirelane/internal/domain/resume"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("account not found")
	ErrInternal     = errors.New("internal error")
)

// UpdateProfileInput uses nil for fields left unchanged.
type UpdateProfileInput struct {
	FullName           *string
	Skills             []string
	ExperienceYears    *float64
	EducationLevel     *string
	LocationPreference *string
	CompanyName        *string
	Resume             *resume.Resume
}

type Service struct {
	accounts account.Repository
	now      func() time.Time
}

func NewService(accounts account.Repository) *Service {
	return &Service{accounts: accounts, now: time.Now}
}

func (s *Service) GetMe(ctx context.Context, id uuid.UUID) (account.Account, error) {
	acc, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return account.Account{}, ErrNotFound
		}
		return account.Account{}, ErrInternal
	}
	return acc.Sanitized(), nil
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (account.Account, error) {
	acc, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return account.Account{}, ErrNotFound
		}
		return account.Account{}, ErrInternal
	}

	if in.FullName != nil {
		acc.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Skills != nil {
		acc.Skills = cleanSkills(in.Skills)
	}
	if in.ExperienceYears != nil {
		if *in.ExperienceYears < 0 {
			return account.Account{}, ErrInvalidInput
		}
		acc.ExperienceYears = *in.ExperienceYears
	}
	if in.EducationLevel != nil {
		raw := strings.TrimSpace(*in.EducationLevel)
		if raw == "" {
			acc.EducationLevel = ""
		} else {
			lvl, ok := matching.ParseEducationLevel(raw)
			if !ok {
				return account.Account{}, ErrInvalidInput
			}
			acc.EducationLevel = lvl
		}
	}
	if in.LocationPreference != nil {
		acc.LocationPreference = strings.TrimSpace(*in.LocationPreference)
	}
	if in.CompanyName != nil {
		if acc.Role != account.RoleEmployer {
			return account.Account{}, ErrInvalidInput
		}
		acc.CompanyName = strings.TrimSpace(*in.CompanyName)
	}
	if in.Resume != nil {
		if acc.Role != account.RoleCandidate {
			return account.Account{}, ErrInvalidInput
		}
		r := *in.Resume
		acc.Resume = &r
	}

	acc.UpdatedAt = s.now().UTC()
	if err := s.accounts.UpdateProfile(ctx, acc); err != nil {
		return account.Account{}, ErrInternal
	}
	return acc.Sanitized(), nil
}

func cleanSkills(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
