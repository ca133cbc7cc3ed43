// AngelaMos | 2026
// repository.go

package address

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/templates/go-accounts/internal/core"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]Address, error)
	GetByIDAndUser(ctx context.Context, id, userID string) (*Address, error)
	Create(ctx context.Context, addr *Address) error
	Update(ctx context.Context, addr *Address) error
	DeleteByIDAndUser(ctx context.Context, id, userID string) error
	ClearDefaults(
		ctx context.Context,
		userID, actor string,
		at time.Time,
	) (int64, error)
	UserExists(ctx context.Context, userID string) (bool, error)
	LockUser(ctx context.Context, userID string) error
	WithTx(tx core.DBTX) Repository
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx core.DBTX) Repository {
	return &repository{db: tx}
}

const addressColumns = `id, user_id, label, street, city, state, zip_code, country,
		is_default, created_at, updated_at, created_by, updated_by`

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
) ([]Address, error) {
	query := `SELECT ` + addressColumns + `
		FROM addresses
		WHERE user_id = $1
		ORDER BY created_at`

	addresses := []Address{}
	if err := r.db.SelectContext(ctx, &addresses, query, userID); err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}

	return addresses, nil
}

func (r *repository) GetByIDAndUser(
	ctx context.Context,
	id, userID string,
) (*Address, error) {
	query := `SELECT ` + addressColumns + `
		FROM addresses
		WHERE id = $1 AND user_id = $2`

	var addr Address
	err := r.db.GetContext(ctx, &addr, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get address: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get address: %w", err)
	}

	return &addr, nil
}

func (r *repository) Create(ctx context.Context, addr *Address) error {
	query := `
		INSERT INTO addresses (id, user_id, label, street, city, state, zip_code,
		                       country, is_default, created_at, updated_at,
		                       created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		addr.ID,
		addr.UserID,
		addr.Label,
		addr.Street,
		addr.City,
		addr.State,
		addr.ZipCode,
		addr.Country,
		addr.IsDefault,
		addr.CreatedAt,
		addr.UpdatedAt,
		addr.CreatedBy,
		addr.UpdatedBy,
	)
	if err != nil {
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("create address: %w", core.ErrNotFound)
		}
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create address: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create address: %w", err)
	}

	return nil
}

func (r *repository) Update(ctx context.Context, addr *Address) error {
	query := `
		UPDATE addresses
		SET label = $3, street = $4, city = $5, state = $6, zip_code = $7,
		    country = $8, is_default = $9, updated_at = $10, updated_by = $11
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query,
		addr.ID,
		addr.UserID,
		addr.Label,
		addr.Street,
		addr.City,
		addr.State,
		addr.ZipCode,
		addr.Country,
		addr.IsDefault,
		addr.UpdatedAt,
		addr.UpdatedBy,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("update address: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update address: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update address: %w", core.ErrDatabaseOperation)
	}

	return nil
}

func (r *repository) DeleteByIDAndUser(
	ctx context.Context,
	id, userID string,
) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete address: %w", core.ErrNotFound)
	}

	return nil
}

// ClearDefaults unsets the default flag on every address of the user and
// reports how many rows changed.
func (r *repository) ClearDefaults(
	ctx context.Context,
	userID, actor string,
	at time.Time,
) (int64, error) {
	query := `
		UPDATE addresses
		SET is_default = FALSE, updated_at = $2, updated_by = $3
		WHERE user_id = $1 AND is_default`

	result, err := r.db.ExecContext(ctx, query, userID, at, actor)
	if err != nil {
		return 0, fmt.Errorf("clear default addresses: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear default addresses: %w", err)
	}

	return rows, nil
}

func (r *repository) UserExists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

// LockUser takes a row lock on the owning user for the rest of the
// transaction, serialising default-flag changes per user.
func (r *repository) LockUser(ctx context.Context, userID string) error {
	var id string
	err := r.db.GetContext(ctx, &id,
		`SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("lock user: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lock user: %w", err)
	}
	return nil
}
