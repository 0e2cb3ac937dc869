package seeder

import "hirelane/internal/config"

// Defaults seeds the administrator first; demo data is opt-in.
func Defaults(cfg config.SeedConfig, demo bool) []Seeder {
	out := []Seeder{AdminSeeder{Email: cfg.AdminEmail, Password: cfg.AdminPassword}}
	if demo {
		out = append(out, DemoSeeder{})
	}
	return out
}
