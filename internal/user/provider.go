// AngelaMos | 2026
// provider.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/carterperez-dev/templates/go-accounts/internal/auth"
	"github.com/carterperez-dev/templates/go-accounts/internal/core"
	"github.com/carterperez-dev/templates/go-accounts/internal/role"
)

// FindByLogin resolves a login name that may be either a username or an
// email address.
func (s *Service) FindByLogin(ctx context.Context, login string) (*auth.UserInfo, error) {
	var (
		u   *User
		err error
	)
	if strings.Contains(login, "@") {
		u, err = s.repo.GetByEmail(ctx, login)
	} else {
		u, err = s.repo.GetByUsername(ctx, login)
	}
	if err != nil {
		return nil, err
	}

	return s.toUserInfo(ctx, u)
}

func (s *Service) FindByID(ctx context.Context, id string) (*auth.UserInfo, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.toUserInfo(ctx, u)
}

// UpgradePasswordHash stores a re-hash of an already verified password.
func (s *Service) UpgradePasswordHash(ctx context.Context, id, hash string) error {
	return s.repo.UpdatePassword(ctx, id, hash, core.ActorFrom(ctx), s.clock.Now())
}

func (s *Service) toUserInfo(ctx context.Context, u *User) (*auth.UserInfo, error) {
	roles, err := s.roles.GetRolesByUserID(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}

	return &auth.UserInfo{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Enabled:      u.Enabled,
		Roles:        role.Names(roles),
	}, nil
}

var _ auth.UserProvider = (*Service)(nil)
