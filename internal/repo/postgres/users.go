package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/postboard/internal/domain/user"
	"github.com/geocoder89/postboard/internal/observability"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrEmailAlreadyUsed = errors.New("email already used")
	ErrUsernameTaken    = errors.New("username taken")
)

const userCols = `id, email, username, name, last_name, is_active, role, password_hash, created_at, updated_at`

type UsersRepo struct {
	pool    *pgxpool.Pool
	metrics *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, metrics *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, metrics: metrics}
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) error {
	return r.metrics.ObserveDB("users.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users (`+userCols+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			u.ID, u.Email, u.Username, u.Name, u.LastName, u.IsActive, u.Role, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
		)

		if err != nil {
			var pgErr *pgconn.PgError

			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				if pgErr.ConstraintName == "users_username_key" {
					return ErrUsernameTaken
				}

				return ErrEmailAlreadyUsed
			}

			return err
		}

		return nil
	})
}

// Exists is the ownership pre-check mutations run before writing posts.
func (r *UsersRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool

	err := r.metrics.ObserveDB("users.exists", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id,
		).Scan(&exists)
	})

	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return r.getBy(ctx, "users.get_by_id", `SELECT `+userCols+` FROM users WHERE id = $1`, id)
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	return r.getBy(ctx, "users.get_by_username", `SELECT `+userCols+` FROM users WHERE username = $1`, username)
}

func (r *UsersRepo) getBy(ctx context.Context, op, query string, arg interface{}) (user.User, error) {
	var u user.User

	err := r.metrics.ObserveDB(op, func() error {
		return r.pool.QueryRow(ctx, query, arg).Scan(
			&u.ID,
			&u.Email,
			&u.Username,
			&u.Name,
			&u.LastName,
			&u.IsActive,
			&u.Role,
			&u.PasswordHash,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}
