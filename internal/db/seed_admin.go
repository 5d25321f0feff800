package db

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/postboard/internal/config"
	"github.com/geocoder89/postboard/internal/domain/user"
	"github.com/geocoder89/postboard/internal/security"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureAdminUser creates the bootstrap admin account once. Returns the
// admin's id (uuid.Nil when seeding is not configured).
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) (uuid.UUID, error) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return uuid.Nil, nil
	}

	// check if the user exists

	var existing uuid.UUID

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE username = $1`, cfg.AdminUsername).Scan(&existing)

	if err == nil {
		return existing, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return uuid.Nil, err
	}

	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.New(),
		Email:        cfg.AdminEmail,
		Username:     cfg.AdminUsername,
		Name:         cfg.AdminName,
		IsActive:     true,
		Role:         user.RoleAdmin,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, email, username, name, is_active, role, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Email, u.Username, u.Name, u.IsActive, u.Role, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	)

	if err != nil {
		return uuid.Nil, err
	}

	return u.ID, nil
}
