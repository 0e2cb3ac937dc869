package seeder

import (
	"context"

	"hirelane/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
