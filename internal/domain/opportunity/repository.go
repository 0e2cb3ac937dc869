package opportunity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("opportunity not found")

type Repository interface {
	Create(ctx context.Context, o Opportunity) error
	GetByID(ctx context.Context, kind Kind, id uuid.UUID) (Opportunity, error)
	ListOpen(ctx context.Context, limit, offset int) ([]Opportunity, error)

	IncrementApplications(ctx context.Context, kind Kind, id uuid.UUID) error
	IncrementShortlisted(ctx context.Context, kind Kind, id uuid.UUID) error
	IncrementHires(ctx context.Context, kind Kind, id uuid.UUID) error
}
