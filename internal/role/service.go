// AngelaMos | 2026
// service.go

package role

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/go-accounts/internal/config"
	"github.com/carterperez-dev/templates/go-accounts/internal/core"
)

const domain = "role"

type Service struct {
	repo         Repository
	tx           core.Transactor
	clock        core.Clock
	deletePolicy string
}

func NewService(
	repo Repository,
	tx core.Transactor,
	clock core.Clock,
	deletePolicy string,
) *Service {
	if deletePolicy == "" {
		deletePolicy = config.RoleDeleteCascade
	}
	return &Service{
		repo:         repo,
		tx:           tx,
		clock:        clock,
		deletePolicy: deletePolicy,
	}
}

func (s *Service) GetAllRoles(ctx context.Context) ([]Role, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetRoleByID(ctx context.Context, id string) (*Role, error) {
	role, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError(domain, "id", id)
	}
	return role, err
}

func (s *Service) GetRoleByName(ctx context.Context, name string) (*Role, error) {
	role, err := s.repo.GetByName(ctx, name)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError(domain, "name", name)
	}
	return role, err
}

// CreateRole persists the role as given. Name uniqueness is left to storage.
func (s *Service) CreateRole(ctx context.Context, role *Role) (*Role, error) {
	now := s.clock.Now()
	actor := core.ActorFrom(ctx)

	role.ID = uuid.New().String()
	role.CreatedAt = now
	role.UpdatedAt = now
	role.CreatedBy = actor
	role.UpdatedBy = actor

	if err := s.repo.Create(ctx, role); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateResourceError(domain, "name", role.Name)
		}
		return nil, err
	}

	return role, nil
}

// UpdateRole stamps id onto the payload and saves it wholesale. A missing
// id results in a new role with that id.
func (s *Service) UpdateRole(
	ctx context.Context,
	id string,
	role *Role,
) (*Role, error) {
	now := s.clock.Now()
	actor := core.ActorFrom(ctx)

	role.ID = id
	role.CreatedAt = now
	role.UpdatedAt = now
	role.CreatedBy = actor
	role.UpdatedBy = actor

	if err := s.repo.Save(ctx, role); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateResourceError(domain, "name", role.Name)
		}
		if errors.Is(err, core.ErrDatabaseOperation) {
			return nil, core.DatabaseOperationError("save role")
		}
		return nil, err
	}

	return role, nil
}

func (s *Service) DeleteRole(ctx context.Context, id string) error {
	ctx, span := core.StartSpan(ctx, "role.DeleteRole",
		attribute.String("role.id", id),
		attribute.String("role.delete_policy", s.deletePolicy),
	)
	var err error
	defer func() { core.EndSpan(span, err) }()

	if _, err = s.GetRoleByID(ctx, id); err != nil {
		return err
	}

	if s.deletePolicy == config.RoleDeleteRestrict {
		var assigned int
		assigned, err = s.repo.CountAssignments(ctx, id)
		if err != nil {
			return err
		}
		if assigned > 0 {
			err = core.BusinessRuleError(
				fmt.Sprintf("role is assigned to %d user(s)", assigned),
				"ROLE_IN_USE",
				domain,
			)
			return err
		}
		err = s.deleteByID(ctx, s.repo, id)
		return err
	}

	err = s.tx.InTx(ctx, func(tx core.DBTX) error {
		repo := s.repo.WithTx(tx)

		removed, txErr := repo.RemoveAllAssignments(ctx, id)
		if txErr != nil {
			return txErr
		}
		core.AddSpanEvent(ctx, "role.assignments_removed",
			attribute.Int64("count", removed))

		return s.deleteByID(ctx, repo, id)
	})
	return err
}

func (s *Service) deleteByID(ctx context.Context, repo Repository, id string) error {
	err := repo.Delete(ctx, id)
	switch {
	case errors.Is(err, core.ErrNotFound):
		return core.NotFoundError(domain, "id", id)
	case errors.Is(err, core.ErrBusinessRule):
		return core.BusinessRuleError("role is still assigned to users", "ROLE_IN_USE", domain)
	}
	return err
}

// GetRolesByUserID does not check that the user exists.
func (s *Service) GetRolesByUserID(ctx context.Context, userID string) ([]Role, error) {
	return s.repo.ListByUser(ctx, userID)
}

// AssignRoleToUser resolves the role and links it to the user. It reports
// whether a new link was written; an existing link is left untouched.
func (s *Service) AssignRoleToUser(
	ctx context.Context,
	userID, roleID string,
) (bool, error) {
	if _, err := s.GetRoleByID(ctx, roleID); err != nil {
		return false, err
	}

	inserted, err := s.repo.AssignToUser(ctx, userID, roleID)
	if errors.Is(err, core.ErrNotFound) {
		return false, core.NotFoundError("user", "id", userID)
	}
	return inserted, err
}

// RemoveRoleFromUser resolves the role and unlinks it from the user. It
// reports whether a link was removed.
func (s *Service) RemoveRoleFromUser(
	ctx context.Context,
	userID, roleID string,
) (bool, error) {
	if _, err := s.GetRoleByID(ctx, roleID); err != nil {
		return false, err
	}

	return s.repo.RemoveFromUser(ctx, userID, roleID)
}

func (s *Service) CountRoles(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
