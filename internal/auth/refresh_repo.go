package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RefreshRepo keeps hashes of issued refresh tokens so they can be rotated
// and revoked server side.
type RefreshRepo struct {
	db *pgxpool.Pool
}

func NewRefreshRepo(db *pgxpool.Pool) *RefreshRepo {
	return &RefreshRepo{db: db}
}

// Store records a new token and drops the user's expired ones.
func (r *RefreshRepo) Store(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		WITH pruned AS (
			DELETE FROM refresh_tokens WHERE user_id=$1 AND expires_at <= now()
		)
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1,$2,$3)
	`, userID, tokenHash, expiresAt)
	return err
}

func (r *RefreshRepo) IsValid(ctx context.Context, userID int64, tokenHash string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM refresh_tokens
			WHERE user_id=$1 AND token_hash=$2
			  AND revoked_at IS NULL
			  AND expires_at > now()
		)
	`, userID, tokenHash).Scan(&ok)
	return ok, err
}

func (r *RefreshRepo) Revoke(ctx context.Context, userID int64, tokenHash string) error {
	return r.revoke(ctx, userID, &tokenHash)
}

// RevokeAll signs the user out of every session.
func (r *RefreshRepo) RevokeAll(ctx context.Context, userID int64) error {
	return r.revoke(ctx, userID, nil)
}

func (r *RefreshRepo) revoke(ctx context.Context, userID int64, tokenHash *string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE refresh_tokens
		SET revoked_at=now()
		WHERE user_id=$1 AND revoked_at IS NULL
		  AND ($2::text IS NULL OR token_hash=$2)
	`, userID, tokenHash)
	return err
}
