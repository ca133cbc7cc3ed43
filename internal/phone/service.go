// AngelaMos | 2026
// service.go

package phone

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/go-accounts/internal/core"
)

const domain = "phone"

// Service keeps at most one default phone per user, using the same
// lock-clear-write transaction as the address service.
type Service struct {
	repo  Repository
	tx    core.Transactor
	clock core.Clock
}

func NewService(repo Repository, tx core.Transactor, clock core.Clock) *Service {
	return &Service{repo: repo, tx: tx, clock: clock}
}

func (s *Service) ListPhones(ctx context.Context, userID string) ([]Phone, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) GetPhone(ctx context.Context, phoneID, userID string) (*Phone, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return getScoped(ctx, s.repo, phoneID, userID)
}

func (s *Service) CreatePhone(
	ctx context.Context,
	userID string,
	phone *Phone,
) (*Phone, error) {
	ctx, span := core.StartSpan(ctx, "phone.CreatePhone",
		attribute.String("user.id", userID),
		attribute.Bool("phone.is_default", phone.IsDefault),
	)

	now := s.clock.Now()
	actor := core.ActorFrom(ctx)

	phone.ID = uuid.New().String()
	phone.UserID = userID
	phone.CreatedAt = now
	phone.UpdatedAt = now
	phone.CreatedBy = actor
	phone.UpdatedBy = actor

	err := s.tx.InTx(ctx, func(tx core.DBTX) error {
		repo := s.repo.WithTx(tx)

		if err := lockUser(ctx, repo, userID); err != nil {
			return err
		}
		if phone.IsDefault {
			if err := s.clearDefaults(ctx, repo, userID); err != nil {
				return err
			}
		}

		err := repo.Create(ctx, phone)
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("user", "id", userID)
		}
		return err
	})
	core.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	return phone, nil
}

// UpdatePhone replaces every mutable field with the values in details.
func (s *Service) UpdatePhone(
	ctx context.Context,
	phoneID, userID string,
	details *Phone,
) (*Phone, error) {
	ctx, span := core.StartSpan(ctx, "phone.UpdatePhone",
		attribute.String("user.id", userID),
		attribute.String("phone.id", phoneID),
	)

	var updated *Phone
	err := s.tx.InTx(ctx, func(tx core.DBTX) error {
		repo := s.repo.WithTx(tx)

		if err := lockUser(ctx, repo, userID); err != nil {
			return err
		}

		current, err := getScoped(ctx, repo, phoneID, userID)
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
				return core.DatabaseOperationError("update phone")
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

func (s *Service) DeletePhone(ctx context.Context, phoneID, userID string) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}

	err := s.repo.DeleteByIDAndUser(ctx, phoneID, userID)
	if errors.Is(err, core.ErrNotFound) {
		return core.NotFoundError(domain, "id", phoneID)
	}
	return err
}

func (s *Service) UnsetDefaultPhones(ctx context.Context, userID string) error {
	return s.clearDefaults(ctx, s.repo, userID)
}

func (s *Service) clearDefaults(ctx context.Context, repo Repository, userID string) error {
	cleared, err := repo.ClearDefaults(ctx, userID, core.ActorFrom(ctx), s.clock.Now())
	if err != nil {
		return err
	}
	if cleared > 0 {
		core.AddSpanEvent(ctx, "phone.defaults_cleared",
			attribute.Int64("count", cleared))
	}
	return nil
}

func (s *Service) requireUser(ctx context.Context, userID string) error {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return core.NotFoundError("user", "id", userID)
	}
	return nil
}

func getScoped(ctx context.Context, repo Repository, phoneID, userID string) (*Phone, error) {
	phone, err := repo.GetByIDAndUser(ctx, phoneID, userID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError(domain, "id", phoneID)
	}
	return phone, err
}

func lockUser(ctx context.Context, repo Repository, userID string) error {
	err := repo.LockUser(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return core.NotFoundError("user", "id", userID)
	}
	return err
}
