// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/go-accounts/internal/address"
	"github.com/carterperez-dev/templates/go-accounts/internal/config"
	"github.com/carterperez-dev/templates/go-accounts/internal/core"
	"github.com/carterperez-dev/templates/go-accounts/internal/events"
	"github.com/carterperez-dev/templates/go-accounts/internal/phone"
	"github.com/carterperez-dev/templates/go-accounts/internal/role"
)

const domain = "user"

const (
	CodeAgeRestriction  = "AGE_RESTRICTION"
	CodeInvalidPassword = "INVALID_PASSWORD"
)

type RoleService interface {
	GetRoleByID(ctx context.Context, id string) (*role.Role, error)
	GetRoleByName(ctx context.Context, name string) (*role.Role, error)
	GetRolesByUserID(ctx context.Context, userID string) ([]role.Role, error)
	AssignRoleToUser(ctx context.Context, userID, roleID string) (bool, error)
	RemoveRoleFromUser(ctx context.Context, userID, roleID string) (bool, error)
}

type AddressService interface {
	ListAddresses(ctx context.Context, userID string) ([]address.Address, error)
	CreateAddress(
		ctx context.Context,
		userID string,
		addr *address.Address,
	) (*address.Address, error)
}

type PhoneService interface {
	ListPhones(ctx context.Context, userID string) ([]phone.Phone, error)
	CreatePhone(ctx context.Context, userID string, p *phone.Phone) (*phone.Phone, error)
}

type Dependencies struct {
	Repo      Repository
	Roles     RoleService
	Addresses AddressService
	Phones    PhoneService
	Hasher    core.PasswordHasher
	Clock     core.Clock
	Events    *events.Emitter
	Accounts  config.AccountsConfig
}

// Service owns the user lifecycle and composes the role, address and phone
// services into the hydrated aggregate.
type Service struct {
	repo        Repository
	roles       RoleService
	addresses   AddressService
	phones      PhoneService
	hasher      core.PasswordHasher
	clock       core.Clock
	events      *events.Emitter
	minimumAge  int
	defaultRole string
	compensate  bool
}

func NewService(deps Dependencies) *Service {
	s := &Service{
		repo:        deps.Repo,
		roles:       deps.Roles,
		addresses:   deps.Addresses,
		phones:      deps.Phones,
		hasher:      deps.Hasher,
		clock:       deps.Clock,
		events:      deps.Events,
		minimumAge:  deps.Accounts.MinimumAge,
		defaultRole: deps.Accounts.DefaultRole,
		compensate:  deps.Accounts.CompensatePartialUser,
	}

	if s.clock == nil {
		s.clock = core.SystemClock{}
	}
	// Zero means unset; config rejects an explicit zero.
	if s.minimumAge == 0 {
		s.minimumAge = DefaultMinimumAge
	}
	if s.defaultRole == "" {
		s.defaultRole = role.NameUser
	}

	return s
}

// CreateUser checks username, then email, then age, stopping at the first
// failure. The default role is attached when it exists; a missing role does
// not fail the registration.
func (s *Service) CreateUser(ctx context.Context, u *User) (_ *User, err error) {
	ctx, span := core.StartSpan(ctx, "user.CreateUser",
		attribute.String("user.username", u.Username),
	)
	defer func() { core.EndSpan(span, err) }()

	if err = s.ensureUsernameFree(ctx, u.Username); err != nil {
		return nil, err
	}
	if err = s.ensureEmailFree(ctx, u.Email); err != nil {
		return nil, err
	}
	if err = s.checkAge(u); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(u.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock.Now()
	actor := core.ActorFrom(ctx)

	fresh := &User{
		ID:           uuid.New().String(),
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: hash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		BirthDate:    u.BirthDate,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
		CreatedBy:    actor,
		UpdatedBy:    actor,
		Roles:        []role.Role{},
		Addresses:    []address.Address{},
		Phones:       []phone.Phone{},
	}

	if err = s.repo.Create(ctx, fresh); err != nil {
		return nil, s.translateWriteError(err, fresh, "create user")
	}
	span.SetAttributes(attribute.String("user.id", fresh.ID))

	err = core.BestEffort(ctx, "assign default role", func(ctx context.Context) error {
		r, err := s.roles.GetRoleByName(ctx, s.defaultRole)
		if err != nil {
			return err
		}
		_, err = s.roles.AssignRoleToUser(ctx, fresh.ID, r.ID)
		return err
	}, core.ErrNotFound)
	if err != nil {
		return nil, err
	}

	s.events.Emit(ctx, events.UserCreated, map[string]string{
		"user_id":  fresh.ID,
		"username": fresh.Username,
	})

	return s.GetUserByID(ctx, fresh.ID)
}

// UpdateUser replaces every profile field and the password hash. Uniqueness
// is only re-checked for fields that changed. The user is always re-enabled.
func (s *Service) UpdateUser(ctx context.Context, id string, details *User) (_ *User, err error) {
	ctx, span := core.StartSpan(ctx, "user.UpdateUser", attribute.String("user.id", id))
	defer func() { core.EndSpan(span, err) }()

	current, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if details.Username != current.Username {
		if err = s.ensureUsernameFree(ctx, details.Username); err != nil {
			return nil, err
		}
	}
	if details.Email != current.Email {
		if err = s.ensureEmailFree(ctx, details.Email); err != nil {
			return nil, err
		}
	}
	if err = s.checkAge(details); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(details.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	current.Username = details.Username
	current.Email = details.Email
	current.FirstName = details.FirstName
	current.LastName = details.LastName
	current.BirthDate = details.BirthDate
	current.PasswordHash = hash
	current.Enabled = true
	current.UpdatedAt = s.clock.Now()
	current.UpdatedBy = core.ActorFrom(ctx)

	if err = s.repo.Update(ctx, current); err != nil {
		return nil, s.translateWriteError(err, current, "update user")
	}

	s.events.Emit(ctx, events.UserUpdated, map[string]string{"user_id": id})
	return current, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.GetUserByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError(domain, "id", id)
		}
		return err
	}

	s.events.Emit(ctx, events.UserDeleted, map[string]string{"user_id": id})
	return nil
}

// ChangePassword leaves the stored hash untouched unless current matches it.
func (s *Service) ChangePassword(ctx context.Context, id, current, next string) error {
	u, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(current, u.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return core.BusinessRuleError(
			"current password is incorrect",
			CodeInvalidPassword,
			core.DomainSecurity,
		)
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.repo.UpdatePassword(ctx, id, hash, core.ActorFrom(ctx), s.clock.Now())
	if errors.Is(err, core.ErrNotFound) {
		return core.NotFoundError(domain, "id", id)
	}
	if err != nil {
		return err
	}

	s.events.Emit(ctx, events.UserPasswordChanged, map[string]string{"user_id": id})
	return nil
}

// GetUserByID returns the user with roles, addresses and phones loaded.
func (s *Service) GetUserByID(ctx context.Context, id string) (*User, error) {
	u, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, u)
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError(domain, "username", username)
	}
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, u)
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError(domain, "email", email)
	}
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, u)
}

func (s *Service) ListUsers(ctx context.Context, params ListUsersParams) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) CountUsers(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) GetUserRoles(ctx context.Context, userID string) ([]role.Role, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.roles.GetRolesByUserID(ctx, userID)
}

func (s *Service) AddAddress(
	ctx context.Context,
	userID string,
	addr *address.Address,
) (*address.Address, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	created, err := s.addresses.CreateAddress(ctx, userID, addr)
	if err != nil {
		return nil, err
	}

	s.events.Emit(ctx, events.UserAddressAdded, map[string]string{
		"user_id":    userID,
		"address_id": created.ID,
	})
	return created, nil
}

func (s *Service) AddPhone(
	ctx context.Context,
	userID string,
	p *phone.Phone,
) (*phone.Phone, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	created, err := s.phones.CreatePhone(ctx, userID, p)
	if err != nil {
		return nil, err
	}

	s.events.Emit(ctx, events.UserPhoneAdded, map[string]string{
		"user_id":  userID,
		"phone_id": created.ID,
	})
	return created, nil
}

// AssignRole links the role to the user. The membership check happens in
// the same statement as the write, so a concurrent assignment of the same
// role is reported as a duplicate.
func (s *Service) AssignRole(ctx context.Context, userID, roleID string) (*User, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	r, err := s.roles.GetRoleByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	inserted, err := s.roles.AssignRoleToUser(ctx, userID, r.ID)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, core.NewAppError(
			core.ErrDuplicateKey,
			fmt.Sprintf("user already has role '%s'", r.Name),
			http.StatusConflict,
			core.CodeDuplicate,
		).WithDomain(domain)
	}

	s.events.Emit(ctx, events.UserRoleAssigned, map[string]string{
		"user_id": userID,
		"role":    r.Name,
	})
	return s.GetUserByID(ctx, userID)
}

func (s *Service) RemoveRole(ctx context.Context, userID, roleID string) (*User, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	r, err := s.roles.GetRoleByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	removed, err := s.roles.RemoveRoleFromUser(ctx, userID, r.ID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, core.NewAppError(
			core.ErrNotFound,
			fmt.Sprintf("user does not have role '%s'", r.Name),
			http.StatusNotFound,
			core.CodeNotFound,
		).WithDomain(domain)
	}

	s.events.Emit(ctx, events.UserRoleRemoved, map[string]string{
		"user_id": userID,
		"role":    r.Name,
	})
	return s.GetUserByID(ctx, userID)
}

func (s *Service) hydrate(ctx context.Context, u *User) (*User, error) {
	roles, err := s.roles.GetRolesByUserID(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	addresses, err := s.addresses.ListAddresses(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("load addresses: %w", err)
	}
	phones, err := s.phones.ListPhones(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("load phones: %w", err)
	}

	u.Roles = roles
	u.Addresses = addresses
	u.Phones = phones
	return u, nil
}

func (s *Service) getUser(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError(domain, "id", id)
	}
	return u, err
}

func (s *Service) requireUser(ctx context.Context, id string) error {
	_, err := s.getUser(ctx, id)
	return err
}

func (s *Service) ensureUsernameFree(ctx context.Context, username string) error {
	taken, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		return core.DuplicateResourceError(domain, "username", username)
	}
	return nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email string) error {
	taken, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return core.DuplicateResourceError(domain, "email", email)
	}
	return nil
}

func (s *Service) checkAge(u *User) error {
	if AgeAt(u.BirthDate, s.clock.Now()) < s.minimumAge {
		return core.BusinessRuleError(
			fmt.Sprintf("user must be at least %d years old", s.minimumAge),
			CodeAgeRestriction,
			domain,
		)
	}
	return nil
}

// translateWriteError covers the window between the existence checks and
// the write, where the unique constraints are the last line.
func (s *Service) translateWriteError(err error, u *User, op string) error {
	switch {
	case errors.Is(err, ErrUsernameTaken):
		return core.DuplicateResourceError(domain, "username", u.Username)
	case errors.Is(err, ErrEmailTaken):
		return core.DuplicateResourceError(domain, "email", u.Email)
	case errors.Is(err, core.ErrDatabaseOperation):
		return core.DatabaseOperationError(op)
	}
	return err
}
