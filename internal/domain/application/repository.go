package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("application not found")
	// ErrConflict means the stored application changed after it was read.
	ErrConflict = errors.New("application was modified concurrently")
)

type ListFilter struct {
	ApplicantID uuid.UUID
	EmployerID  uuid.UUID
	Status      Status
	Limit       int
	Offset      int
}

type Repository interface {
	Create(ctx context.Context, app Application) error
	GetByID(ctx context.Context, id uuid.UUID) (Application, error)
	List(ctx context.Context, f ListFilter) ([]Application, error)
	ExistsActive(ctx context.Context, applicantID uuid.UUID, ref OpportunityRef) (bool, error)

	// Update stores next only if the persisted row still matches prev's
	// version and status, and returns next with its new version.
	Update(ctx context.Context, prev, next Application) (Application, error)
}
