package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Tukyboy007/hospital-back/internal/domain"
)

// PostgresDoctorRepository implements DoctorRepository using PostgreSQL
type PostgresDoctorRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresDoctorRepository creates a new PostgresDoctorRepository
func NewPostgresDoctorRepository(pool *pgxpool.Pool) *PostgresDoctorRepository {
	return &PostgresDoctorRepository{pool: pool}
}

const doctorColumns = `id, reg_no, first_name, last_name, rank_name, org_name, org_id, position, gender, role, password_hash, is_active, created_at, updated_at`

// Create creates a new doctor row. The unique index on reg_no is the second
// line of defense behind the service's optimistic pre-check.
func (r *PostgresDoctorRepository) Create(ctx context.Context, doctor *domain.Doctor) error {
	query := `
		INSERT INTO doctors (id, reg_no, first_name, last_name, rank_name, org_name, org_id, position, gender, role, password_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.pool.Exec(ctx, query,
		doctor.ID,
		doctor.RegNo,
		doctor.FirstName,
		doctor.LastName,
		doctor.RankName,
		doctor.OrgName,
		doctor.OrgID,
		doctor.Position,
		doctor.Gender,
		doctor.Role,
		doctor.PasswordHash,
		doctor.IsActive,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	return err
}

// GetByID retrieves a doctor by ID
func (r *PostgresDoctorRepository) GetByID(ctx context.Context, id string) (*domain.Doctor, error) {
	return r.get(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE id = $1`, id)
}

// GetByRegNo retrieves a doctor by registration number
func (r *PostgresDoctorRepository) GetByRegNo(ctx context.Context, regNo string) (*domain.Doctor, error) {
	return r.get(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE reg_no = $1`, regNo)
}

func (r *PostgresDoctorRepository) get(ctx context.Context, query string, arg any) (*domain.Doctor, error) {
	doctor := &domain.Doctor{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&doctor.ID,
		&doctor.RegNo,
		&doctor.FirstName,
		&doctor.LastName,
		&doctor.RankName,
		&doctor.OrgName,
		&doctor.OrgID,
		&doctor.Position,
		&doctor.Gender,
		&doctor.Role,
		&doctor.PasswordHash,
		&doctor.IsActive,
		&doctor.CreatedAt,
		&doctor.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return doctor, nil
}
