package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"sportsstore/internal/domain/user"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already exists")
)

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

const userCols = `id, email, password_hash, role, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return user.User{}, ErrUserNotFound
	}
	return u, err
}

func (r *UserRepo) Create(ctx context.Context, email, passwordHash, role string) (user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, role)
		VALUES ($1,$2,$3)
		RETURNING `+userCols,
		email, passwordHash, role))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return user.User{}, ErrEmailTaken
	}
	return u, err
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email=$1`, email))
}

func (r *UserRepo) ByID(ctx context.Context, id int64) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id))
}

// EnsureAdmin creates the store administrator, or resets its password and role
// if the account already exists.
func (r *UserRepo) EnsureAdmin(ctx context.Context, email, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (email, password_hash, role)
		VALUES ($1,$2,$3)
		ON CONFLICT (email)
		DO UPDATE SET password_hash=EXCLUDED.password_hash, role=EXCLUDED.role, is_active=true, updated_at=now()
	`, email, passwordHash, user.RoleAdmin)
	return err
}
