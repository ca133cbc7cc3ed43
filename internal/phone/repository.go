// AngelaMos | 2026
// repository.go

package phone

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/templates/go-accounts/internal/core"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]Phone, error)
	GetByIDAndUser(ctx context.Context, id, userID string) (*Phone, error)
	Create(ctx context.Context, phone *Phone) error
	Update(ctx context.Context, phone *Phone) error
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

const phoneColumns = `id, user_id, type, country_code, number, is_default,
		created_at, updated_at, created_by, updated_by`

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Phone, error) {
	query := `SELECT ` + phoneColumns + `
		FROM phones
		WHERE user_id = $1
		ORDER BY created_at`

	phones := []Phone{}
	if err := r.db.SelectContext(ctx, &phones, query, userID); err != nil {
		return nil, fmt.Errorf("list phones: %w", err)
	}

	return phones, nil
}

func (r *repository) GetByIDAndUser(
	ctx context.Context,
	id, userID string,
) (*Phone, error) {
	query := `SELECT ` + phoneColumns + `
		FROM phones
		WHERE id = $1 AND user_id = $2`

	var phone Phone
	err := r.db.GetContext(ctx, &phone, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get phone: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get phone: %w", err)
	}

	return &phone, nil
}

func (r *repository) Create(ctx context.Context, phone *Phone) error {
	query := `
		INSERT INTO phones (id, user_id, type, country_code, number, is_default,
		                    created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		phone.ID,
		phone.UserID,
		phone.Type,
		phone.CountryCode,
		phone.Number,
		phone.IsDefault,
		phone.CreatedAt,
		phone.UpdatedAt,
		phone.CreatedBy,
		phone.UpdatedBy,
	)
	switch {
	case err == nil:
		return nil
	case core.IsForeignKeyError(err):
		return fmt.Errorf("create phone: %w", core.ErrNotFound)
	case core.IsDuplicateKeyError(err):
		return fmt.Errorf("create phone: %w", core.ErrDuplicateKey)
	default:
		return fmt.Errorf("create phone: %w", err)
	}
}

func (r *repository) Update(ctx context.Context, phone *Phone) error {
	query := `
		UPDATE phones
		SET type = $3, country_code = $4, number = $5, is_default = $6,
		    updated_at = $7, updated_by = $8
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query,
		phone.ID,
		phone.UserID,
		phone.Type,
		phone.CountryCode,
		phone.Number,
		phone.IsDefault,
		phone.UpdatedAt,
		phone.UpdatedBy,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("update phone: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update phone: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update phone: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update phone: %w", core.ErrDatabaseOperation)
	}

	return nil
}

func (r *repository) DeleteByIDAndUser(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM phones WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete phone: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete phone: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete phone: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ClearDefaults(
	ctx context.Context,
	userID, actor string,
	at time.Time,
) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE phones
		SET is_default = FALSE, updated_at = $2, updated_by = $3
		WHERE user_id = $1 AND is_default`, userID, at, actor)
	if err != nil {
		return 0, fmt.Errorf("clear default phones: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear default phones: %w", err)
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
