// AngelaMos | 2026
// service.go

package address

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/go-accounts/internal/core"
)

const domain = "address"

// Service keeps at most one default address per user. Every write that can
// set the flag locks the owning user, clears existing defaults and writes
// the row inside one transaction.
type Service struct {
	repo  Repository
	tx    core.Transactor
	clock core.Clock
}

func NewService(repo Repository, tx core.Transactor, clock core.Clock) *Service {
	return &Service{repo: repo, tx: tx, clock: clock}
}

func (s *Service) ListAddresses(ctx context.Context, userID string) ([]Address, error) {
	if err := s.requireUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}

// GetAddress only finds addresses owned by userID. An address that exists
// under another user is reported as not found.
func (s *Service) GetAddress(
	ctx context.Context,
	addressID, userID string,
) (*Address, error) {
	if err := s.requireUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	return s.getScoped(ctx, s.repo, addressID, userID)
}

func (s *Service) CreateAddress(
	ctx context.Context,
	userID string,
	addr *Address,
) (*Address, error) {
	ctx, span := core.StartSpan(ctx, "address.CreateAddress",
		attribute.String("user.id", userID),
		attribute.Bool("address.is_default", addr.IsDefault),
	)

	now := s.clock.Now()
	actor := core.ActorFrom(ctx)

	addr.ID = uuid.New().String()
	addr.UserID = userID
	addr.CreatedAt = now
	addr.UpdatedAt = now
	addr.CreatedBy = actor
	addr.UpdatedBy = actor

	err := s.tx.InTx(ctx, func(tx core.DBTX) error {
		repo := s.repo.WithTx(tx)

		if err := s.lockUser(ctx, repo, userID); err != nil {
			return err
		}

		if addr.IsDefault {
			if err := s.clearDefaults(ctx, repo, userID); err != nil {
				return err
			}
		}

		if err := repo.Create(ctx, addr); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return core.NotFoundError("user", "id", userID)
			}
			return err
		}
		return nil
	})
	core.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	return addr, nil
}

// UpdateAddress overwrites every mutable field from details. Partial updates
// are not supported.
func (s *Service) UpdateAddress(
	ctx context.Context,
	addressID, userID string,
	details *Address,
) (*Address, error) {
	ctx, span := core.StartSpan(ctx, "address.UpdateAddress",
		attribute.String("user.id", userID),
		attribute.String("address.id", addressID),
	)

	var updated *Address
	err := s.tx.InTx(ctx, func(tx core.DBTX) error {
		repo := s.repo.WithTx(tx)

		if err := s.lockUser(ctx, repo, userID); err != nil {
			return err
		}

		current, err := s.getScoped(ctx, repo, addressID, userID)
		if err != nil {
			return err
		}

		if details.IsDefault {
			if err := s.clearDefaults(ctx, repo, userID); err != nil {
				return err
			}
		}

		current.overwrite(details)
		current.UpdatedAt = s.clock.Now()
		current.UpdatedBy = core.ActorFrom(ctx)

		if err := repo.Update(ctx, current); err != nil {
			if errors.Is(err, core.ErrDatabaseOperation) {
				return core.DatabaseOperationError("update address")
			}
			return err
		}

		updated = current
		return nil
	})
	core.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *Service) DeleteAddress(ctx context.Context, addressID, userID string) error {
	if err := s.requireUser(ctx, s.repo, userID); err != nil {
		return err
	}

	err := s.repo.DeleteByIDAndUser(ctx, addressID, userID)
	if errors.Is(err, core.ErrNotFound) {
		return core.NotFoundError(domain, "id", addressID)
	}
	return err
}

// UnsetDefaultAddresses clears the default flag on all of the user's
// addresses. Calling it when none is default changes nothing.
func (s *Service) UnsetDefaultAddresses(ctx context.Context, userID string) error {
	return s.clearDefaults(ctx, s.repo, userID)
}

func (s *Service) clearDefaults(ctx context.Context, repo Repository, userID string) error {
	cleared, err := repo.ClearDefaults(ctx, userID, core.ActorFrom(ctx), s.clock.Now())
	if err != nil {
		return err
	}
	if cleared > 0 {
		core.AddSpanEvent(ctx, "address.defaults_cleared",
			attribute.Int64("count", cleared))
	}
	return nil
}

func (s *Service) getScoped(
	ctx context.Context,
	repo Repository,
	addressID, userID string,
) (*Address, error) {
	addr, err := repo.GetByIDAndUser(ctx, addressID, userID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError(domain, "id", addressID)
	}
	return addr, err
}

func (s *Service) requireUser(ctx context.Context, repo Repository, userID string) error {
	exists, err := repo.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return core.NotFoundError("user", "id", userID)
	}
	return nil
}

func (s *Service) lockUser(ctx context.Context, repo Repository, userID string) error {
	err := repo.LockUser(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return core.NotFoundError("user", "id", userID)
	}
	return err
}
