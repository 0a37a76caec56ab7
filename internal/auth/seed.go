package auth

import (
	"context"
	"fmt"
)

type adminSeeder interface {
	EnsureAdmin(ctx context.Context, email, passwordHash string) error
}

// SeedAdmin makes sure the configured administrator can log in. It does
// nothing when either value is empty.
func SeedAdmin(ctx context.Context, users adminSeeder, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}
	if len(password) < MinPasswordLen {
		return fmt.Errorf("admin password must be at least %d characters", MinPasswordLen)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := users.EnsureAdmin(ctx, email, hash); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	return nil
}
