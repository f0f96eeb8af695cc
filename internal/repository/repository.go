package repository

import (
	"context"

	"github.com/Tukyboy007/hospital-back/internal/domain"
)

// DoctorRepository defines the interface for doctor account data access
type DoctorRepository interface {
	// Create creates a new doctor row
	Create(ctx context.Context, doctor *domain.Doctor) error
	// GetByID retrieves a doctor by ID
	GetByID(ctx context.Context, id string) (*domain.Doctor, error)
	// GetByRegNo retrieves a doctor by registration number
	GetByRegNo(ctx context.Context, regNo string) (*domain.Doctor, error)
}

// RefreshTokenRepository is the persistent ledger of issued refresh tokens,
// keyed by jti. Records are created on issuance, flipped to revoked exactly
// once, and never deleted.
type RefreshTokenRepository interface {
	// Insert persists one refresh token record
	Insert(ctx context.Context, record *domain.RefreshToken) error
	// GetByJTI retrieves a record by token identifier, nil if absent
	GetByJTI(ctx context.Context, jti string) (*domain.RefreshToken, error)
	// Revoke flips revoked=true for a not-yet-revoked record and reports the
	// affected row count. Revoking an already-revoked or nonexistent record
	// returns 0 and no error; concurrent rotations race here and only one
	// caller observes 1.
	Revoke(ctx context.Context, jti string) (int64, error)
}

// ItemRepository defines the interface for clinic item data access
type ItemRepository interface {
	// List retrieves items, optionally filtered by owner (empty = all)
	List(ctx context.Context, ownerID string) ([]*domain.Item, error)
	// GetByID retrieves an item by ID, nil if absent
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	// Create creates a new item
	Create(ctx context.Context, item *domain.Item) error
	// Update rewrites title/description, returning the updated row or nil if absent
	Update(ctx context.Context, id, title, description string) (*domain.Item, error)
	// Delete deletes an item, reporting the affected row count
	Delete(ctx context.Context, id string) (int64, error)
}
