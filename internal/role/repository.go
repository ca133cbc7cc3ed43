// AngelaMos | 2026
// repository.go

package role

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/templates/go-accounts/internal/core"
)

type Repository interface {
	List(ctx context.Context) ([]Role, error)
	GetByID(ctx context.Context, id string) (*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)
	Create(ctx context.Context, role *Role) error
	Save(ctx context.Context, role *Role) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	ListByUser(ctx context.Context, userID string) ([]Role, error)
	AssignToUser(ctx context.Context, userID, roleID string) (bool, error)
	RemoveFromUser(ctx context.Context, userID, roleID string) (bool, error)
	RemoveAllAssignments(ctx context.Context, roleID string) (int64, error)
	CountAssignments(ctx context.Context, roleID string) (int, error)
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

const roleColumns = `id, name, description, created_at, updated_at, created_by, updated_by`

func (r *repository) List(ctx context.Context) ([]Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles ORDER BY name`

	roles := []Role{}
	if err := r.db.SelectContext(ctx, &roles, query); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	return roles, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE id = $1`

	var role Role
	err := r.db.GetContext(ctx, &role, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get role: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get role: %w", err)
	}

	return &role, nil
}

func (r *repository) GetByName(ctx context.Context, name string) (*Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE name = $1`

	var role Role
	err := r.db.GetContext(ctx, &role, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get role by name: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get role by name: %w", err)
	}

	return &role, nil
}

func (r *repository) Create(ctx context.Context, role *Role) error {
	query := `
		INSERT INTO roles (id, name, description, created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		role.ID,
		role.Name,
		role.Description,
		role.CreatedAt,
		role.UpdatedAt,
		role.CreatedBy,
		role.UpdatedBy,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create role: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create role: %w", err)
	}

	return nil
}

// Save inserts the role or overwrites every mutable column of an existing
// row with the same id. The stored creation audit fields are returned.
func (r *repository) Save(ctx context.Context, role *Role) error {
	query := `
		INSERT INTO roles (id, name, description, created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    description = EXCLUDED.description,
		    updated_at = EXCLUDED.updated_at,
		    updated_by = EXCLUDED.updated_by
		RETURNING created_at, created_by`

	err := r.db.QueryRowxContext(ctx, query,
		role.ID,
		role.Name,
		role.Description,
		role.CreatedAt,
		role.UpdatedAt,
		role.CreatedBy,
		role.UpdatedBy,
	).Scan(&role.CreatedAt, &role.CreatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("save role: %w", core.ErrDatabaseOperation)
	}
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("save role: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("save role: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("delete role: role still assigned: %w", core.ErrBusinessRule)
		}
		return fmt.Errorf("delete role: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete role: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM roles`); err != nil {
		return 0, fmt.Errorf("count roles: %w", err)
	}
	return total, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Role, error) {
	query := `
		SELECT r.id, r.name, r.description, r.created_at, r.updated_at,
		       r.created_by, r.updated_by
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name`

	roles := []Role{}
	if err := r.db.SelectContext(ctx, &roles, query, userID); err != nil {
		return nil, fmt.Errorf("list roles by user: %w", err)
	}

	return roles, nil
}

// AssignToUser links the role to the user. Linking an existing pair is a
// no-op and reports false.
func (r *repository) AssignToUser(
	ctx context.Context,
	userID, roleID string,
) (bool, error) {
	query := `
		INSERT INTO user_roles (user_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, userID, roleID)
	if err != nil {
		if core.IsForeignKeyError(err) {
			return false, fmt.Errorf("assign role: %w", core.ErrNotFound)
		}
		return false, fmt.Errorf("assign role: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("assign role: %w", err)
	}

	return rows > 0, nil
}

// RemoveFromUser unlinks the role from the user. Removing a missing pair is
// a no-op and reports false.
func (r *repository) RemoveFromUser(
	ctx context.Context,
	userID, roleID string,
) (bool, error) {
	query := `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, roleID)
	if err != nil {
		return false, fmt.Errorf("remove role: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove role: %w", err)
	}

	return rows > 0, nil
}

func (r *repository) RemoveAllAssignments(
	ctx context.Context,
	roleID string,
) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM user_roles WHERE role_id = $1`, roleID)
	if err != nil {
		return 0, fmt.Errorf("remove role assignments: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("remove role assignments: %w", err)
	}

	return rows, nil
}

func (r *repository) CountAssignments(
	ctx context.Context,
	roleID string,
) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM user_roles WHERE role_id = $1`, roleID)
	if err != nil {
		return 0, fmt.Errorf("count role assignments: %w", err)
	}
	return total, nil
}
