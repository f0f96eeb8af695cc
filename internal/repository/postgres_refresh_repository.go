package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Tukyboy007/hospital-back/internal/domain"
)

// PostgresRefreshTokenRepository implements RefreshTokenRepository using PostgreSQL
type PostgresRefreshTokenRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRefreshTokenRepository creates a new PostgresRefreshTokenRepository
func NewPostgresRefreshTokenRepository(pool *pgxpool.Pool) *PostgresRefreshTokenRepository {
	return &PostgresRefreshTokenRepository{pool: pool}
}

// Insert persists one refresh token record
func (r *PostgresRefreshTokenRepository) Insert(ctx context.Context, record *domain.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (doctor_id, jti, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query,
		record.DoctorID,
		record.JTI,
		record.TokenHash,
		record.ExpiresAt,
	)
	return err
}

// GetByJTI retrieves a record by token identifier
func (r *PostgresRefreshTokenRepository) GetByJTI(ctx context.Context, jti string) (*domain.RefreshToken, error) {
	query := `
		SELECT id, doctor_id, jti, token_hash, expires_at, revoked, created_at
		FROM refresh_tokens
		WHERE jti = $1
	`
	record := &domain.RefreshToken{}
	err := r.pool.QueryRow(ctx, query, jti).Scan(
		&record.ID,
		&record.DoctorID,
		&record.JTI,
		&record.TokenHash,
		&record.ExpiresAt,
		&record.Revoked,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

// Revoke flips revoked=true for a record that is not revoked yet. The
// conditional update is the single atomic read-modify-write the rotation
// protocol relies on: when two rotations race on the same token, exactly one
// caller sees rows affected = 1 and proceeds; the loser sees 0.
func (r *PostgresRefreshTokenRepository) Revoke(ctx context.Context, jti string) (int64, error) {
	query := `UPDATE refresh_tokens SET revoked = TRUE WHERE jti = $1 AND revoked = FALSE`
	tag, err := r.pool.Exec(ctx, query, jti)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
