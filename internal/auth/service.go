// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/go-accounts/internal/core"
	"github.com/carterperez-dev/templates/go-accounts/internal/middleware"
)

const blacklistPrefix = "blacklist:"

type UserInfo struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Enabled      bool
	Roles        []string
}

// UserProvider resolves accounts for authentication. Lookups report a
// missing account with an error matching core.ErrNotFound.
type UserProvider interface {
	FindByLogin(ctx context.Context, login string) (*UserInfo, error)
	FindByID(ctx context.Context, id string) (*UserInfo, error)
	UpgradePasswordHash(ctx context.Context, id, passwordHash string) error
}

type PasswordVerifier interface {
	VerifyTimingSafe(password string, encodedHash *string) (bool, string, error)
}

// TokenStore remembers revoked token ids until they would have expired.
type TokenStore interface {
	SetUntil(ctx context.Context, key string, until time.Time) error
	Exists(ctx context.Context, key string) (bool, error)
}

type Service struct {
	jwt       *JWTManager
	users     UserProvider
	passwords PasswordVerifier
	store     TokenStore
}

func NewService(
	jwt *JWTManager,
	users UserProvider,
	passwords PasswordVerifier,
	store TokenStore,
) *Service {
	return &Service{
		jwt:       jwt,
		users:     users,
		passwords: passwords,
		store:     store,
	}
}

func invalidCredentials() *core.AppError {
	return core.UnauthorizedError("invalid username, email or password")
}

// Login accepts a username or an email. Unknown accounts still cost one
// hash computation. A stored hash made with outdated parameters is replaced
// after a successful login.
func (s *Service) Login(ctx context.Context, req LoginRequest) (_ *LoginResponse, err error) {
	ctx, span := core.StartSpan(ctx, "auth.Login")
	defer func() { core.EndSpan(span, err) }()

	user, err := s.users.FindByLogin(ctx, req.Login)
	if errors.Is(err, core.ErrNotFound) {
		_, _, _ = s.passwords.VerifyTimingSafe(req.Password, nil)
		return nil, invalidCredentials()
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	valid, newHash, err := s.passwords.VerifyTimingSafe(req.Password, &user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, invalidCredentials()
	}
	if !user.Enabled {
		return nil, core.ForbiddenError("account is disabled")
	}

	span.SetAttributes(attribute.String("user.id", user.ID))

	if newHash != "" {
		_ = core.BestEffort(ctx, "upgrade password hash", func(ctx context.Context) error {
			return s.users.UpgradePasswordHash(ctx, user.ID, newHash)
		})
	}

	issued, err := s.jwt.CreateAccessToken(TokenSubject{
		UserID:   user.ID,
		Username: user.Username,
		Roles:    user.Roles,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &LoginResponse{
		User: ToMeResponse(user),
		Token: TokenResponse{
			AccessToken: issued.Token,
			TokenType:   "Bearer",
			ExpiresIn:   int(s.jwt.AccessTokenTTL() / time.Second),
			ExpiresAt:   issued.ExpiresAt,
		},
	}, nil
}

func (s *Service) Me(ctx context.Context, userID string) (*MeResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError("user", "id", userID)
	}
	if err != nil {
		return nil, err
	}

	resp := ToMeResponse(user)
	return &resp, nil
}

// Logout revokes the presented token until its natural expiry.
func (s *Service) Logout(ctx context.Context, claims *middleware.AccessTokenClaims) error {
	if claims == nil || claims.TokenID == "" {
		return core.TokenInvalidError()
	}

	if err := s.store.SetUntil(ctx, blacklistPrefix+claims.TokenID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// VerifyAccessToken validates the token and rejects revoked ones. When the
// revocation list cannot be reached the token is accepted and the failure
// logged.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.ParseAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.store.Exists(ctx, blacklistPrefix+claims.TokenID)
	if err != nil {
		slog.WarnContext(ctx, "token revocation check failed",
			"token_id", claims.TokenID,
			"error", err,
		)
		return claims, nil
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}
