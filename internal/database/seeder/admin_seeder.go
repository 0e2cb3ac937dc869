package seeder

import (
	"context"
	"fmt"
	"strings"

	"hirelane/internal/database"
	"hirelane/internal/domain/account"
	ucauth "hirelane/internal/usecase/auth"

	"github.com/google/uuid"
)

// AdminSeeder creates the administrator account. Registration never
// grants the admin role, so this is the only way to obtain one.
type AdminSeeder struct {
	Email    string
	Password string
}

func (AdminSeeder) Name() string { return "admin" }

func (s AdminSeeder) Run(ctx context.Context, db database.DB) error {
	email := ucauth.NormalizeEmail(s.Email)
	if email == "" {
		return fmt.Errorf("ADMIN_EMAIL is required")
	}
	if !ucauth.IsValidPassword(s.Password) {
		return fmt.Errorf("ADMIN_PASSWORD must be at least 8 characters")
	}
	if err := EnsureTableColumns(ctx, db, "accounts", "id", "email", "password_hash", "role", "full_name"); err != nil {
		return err
	}

	hash, err := ucauth.HashPassword(s.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = db.Exec(ctx,
		`INSERT INTO accounts (id, email, password_hash, role, full_name)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (email) DO NOTHING`,
		uuid.New(), email, hash, string(account.RoleAdmin), strings.SplitN(email, "@", 2)[0],
	)
	return err
}
