// AngelaMos | 2026
// saga.go

package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/go-accounts/internal/address"
	"github.com/carterperez-dev/templates/go-accounts/internal/core"
	"github.com/carterperez-dev/templates/go-accounts/internal/events"
	"github.com/carterperez-dev/templates/go-accounts/internal/phone"
)

// CompleteUser is a user together with the collections to create for it.
type CompleteUser struct {
	User      *User
	Addresses []address.Address
	Phones    []phone.Phone
	RoleIDs   []string
}

// PartialCompletionError reports a complete-user creation that stopped after
// the user row was committed. Completed lists the steps that succeeded, in
// order. Compensated is set when the user was deleted again afterwards.
type PartialCompletionError struct {
	UserID      string
	Completed   []string
	Compensated bool
	Err         error
}

func (e *PartialCompletionError) Error() string {
	return fmt.Sprintf("user %s partially created (completed: %s): %v",
		e.UserID, strings.Join(e.Completed, ", "), e.Err)
}

func (e *PartialCompletionError) Unwrap() error {
	return e.Err
}

// AppError renders the failure with the status and code of its cause and
// the saga progress in the details.
func (e *PartialCompletionError) AppError() *core.AppError {
	cause, ok := core.AsAppError(e.Err)
	if !ok {
		cause = core.NewAppError(
			e.Err,
			"complete user creation failed",
			http.StatusInternalServerError,
			core.CodeInternal,
		)
	}

	out := *cause
	out.Details = append(slices.Clone(cause.Details),
		"user_id: "+e.UserID,
		"completed: "+strings.Join(e.Completed, ", "),
		fmt.Sprintf("compensated: %t", e.Compensated),
	)
	return &out
}

// CreateCompleteUser creates the user, then each address, phone and role
// link in that order. Every step commits on its own. A failure after the
// user exists returns a PartialCompletionError; when compensation is
// enabled the user, and everything cascading from it, is deleted first.
func (s *Service) CreateCompleteUser(ctx context.Context, in CompleteUser) (_ *User, err error) {
	ctx, span := core.StartSpan(ctx, "user.CreateCompleteUser",
		attribute.Int("saga.addresses", len(in.Addresses)),
		attribute.Int("saga.phones", len(in.Phones)),
		attribute.Int("saga.roles", len(in.RoleIDs)),
	)
	defer func() { core.EndSpan(span, err) }()

	created, err := s.CreateUser(ctx, in.User)
	if err != nil {
		return nil, err
	}

	completed := []string{"user"}
	step := func(name string, fn func() error) error {
		if err := fn(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		completed = append(completed, name)
		core.AddSpanEvent(ctx, "saga.step", attribute.String("step", name))
		return nil
	}

	err = s.runSteps(ctx, created.ID, in, step)
	if err != nil {
		return nil, s.abandon(ctx, created.ID, completed, err)
	}

	s.events.Emit(ctx, events.UserCompleted, map[string]any{
		"user_id":   created.ID,
		"addresses": len(in.Addresses),
		"phones":    len(in.Phones),
		"roles":     len(in.RoleIDs),
	})

	return s.GetUserByID(ctx, created.ID)
}

func (s *Service) runSteps(
	ctx context.Context,
	userID string,
	in CompleteUser,
	step func(string, func() error) error,
) error {
	for i := range in.Addresses {
		addr := in.Addresses[i]
		err := step(fmt.Sprintf("address[%d]", i), func() error {
			_, err := s.addresses.CreateAddress(ctx, userID, &addr)
			return err
		})
		if err != nil {
			return err
		}
	}

	for i := range in.Phones {
		p := in.Phones[i]
		err := step(fmt.Sprintf("phone[%d]", i), func() error {
			_, err := s.phones.CreatePhone(ctx, userID, &p)
			return err
		})
		if err != nil {
			return err
		}
	}

	for _, roleID := range in.RoleIDs {
		err := step("role:"+roleID, func() error {
			_, err := s.roles.AssignRoleToUser(ctx, userID, roleID)
			return err
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *Service) abandon(
	ctx context.Context,
	userID string,
	completed []string,
	cause error,
) error {
	partial := &PartialCompletionError{
		UserID:    userID,
		Completed: completed,
		Err:       cause,
	}

	if s.compensate {
		_ = core.BestEffort(ctx, "compensate partial user", func(ctx context.Context) error {
			err := s.repo.Delete(ctx, userID)
			if err == nil || errors.Is(err, core.ErrNotFound) {
				partial.Compensated = true
				return nil
			}
			return err
		})
	}

	s.events.Emit(ctx, events.UserPartiallyCreated, map[string]any{
		"user_id":     userID,
		"completed":   completed,
		"compensated": partial.Compensated,
		"error":       cause.Error(),
	})

	return partial
}
