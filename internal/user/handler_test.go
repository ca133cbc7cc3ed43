// AngelaMos | 2026
// handler_test.go

package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/go-accounts/internal/config"
	"github.com/carterperez-dev/templates/go-accounts/internal/core"
	"github.com/carterperez-dev/templates/go-accounts/internal/middleware"
)

const (
	adminToken    = "admin-token"
	roleAdminUUID = "5f1c3c2e-8a55-4a43-9d1b-0c7e3b8f6a10"
)

// tokenVerifier accepts adminToken as an admin and any other token as the
// user whose id it is.
type tokenVerifier struct{}

func (tokenVerifier) VerifyAccessToken(
	_ context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	if token == adminToken {
		return &middleware.AccessTokenClaims{
			UserID: "admin",
			Roles:  []string{middleware.RoleAdmin},
		}, nil
	}
	return &middleware.AccessTokenClaims{UserID: token, Roles: []string{"USER"}}, nil
}

func newTestRouter() (http.Handler, *fixture) {
	f := newFixture(config.AccountsConfig{})
	h := NewHandler(f.svc)

	r := chi.NewRouter()
	h.RegisterRoutes(r,
		middleware.Authenticator(tokenVerifier{}),
		middleware.RequireAdmin,
	)
	return r, f
}

func do(
	t *testing.T,
	router http.Handler,
	method, path, token, body string,
) (*httptest.ResponseRecorder, core.Response) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp core.Response
	if rec.Code != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	}
	return rec, resp
}

const registration = `{
	"username": "ada",
	"email": "ada@example.com",
	"password": "Sup3rSecret!",
	"first_name": "Ada",
	"last_name": "Lovelace",
	"birth_date": "1990-12-10"
}`

func TestHandlerRegisterIsPublic(t *testing.T) {
	router, f := newTestRouter()

	rec, resp := do(t, router, http.MethodPost, "/users", "", registration)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "1990-12-10", data["birth_date"])
	assert.NotContains(t, data, "password_hash")
	assert.Len(t, f.repo.users, 1)
}

func TestHandlerRegisterValidation(t *testing.T) {
	router, _ := newTestRouter()

	body := strings.Replace(registration, "1990-12-10", "10/12/1990", 1)
	rec, resp := do(t, router, http.MethodPost, "/users", "", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, core.CodeValidation, resp.Error.Code)
}

func TestHandlerSelfOrAdmin(t *testing.T) {
	router, f := newTestRouter()

	ada, err := f.svc.CreateUser(context.Background(), newUser("ada"))
	require.NoError(t, err)
	grace, err := f.svc.CreateUser(context.Background(), newUser("grace"))
	require.NoError(t, err)

	rec, _ := do(t, router, http.MethodGet, "/users/"+ada.ID, ada.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, router, http.MethodGet, "/users/"+ada.ID, grace.ID, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = do(t, router, http.MethodGet, "/users/"+ada.ID, adminToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, router, http.MethodGet, "/users/"+ada.ID, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlerListRequiresAdmin(t *testing.T) {
	router, f := newTestRouter()

	ada, err := f.svc.CreateUser(context.Background(), newUser("ada"))
	require.NoError(t, err)

	rec, _ := do(t, router, http.MethodGet, "/users", ada.ID, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp := do(t, router, http.MethodGet, "/users?page=1&page_size=10", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
	assert.Equal(t, 10, resp.Meta.PageSize)
}

func TestHandlerAssignRoleTwice(t *testing.T) {
	router, f := newTestRouter()

	ada, err := f.svc.CreateUser(context.Background(), newUser("ada"))
	require.NoError(t, err)

	path := "/users/" + ada.ID + "/roles/" + roleAdminUUID
	f.roles.roles[roleAdminUUID] = roleAdmin

	rec, _ := do(t, router, http.MethodPost, path, ada.ID, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = do(t, router, http.MethodPost, path, adminToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp := do(t, router, http.MethodPost, path, adminToken, "")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, core.CodeDuplicate, resp.Error.Code)
}

func TestHandlerChangePasswordWrongCurrent(t *testing.T) {
	router, f := newTestRouter()

	ada, err := f.svc.CreateUser(context.Background(), newUser("ada"))
	require.NoError(t, err)

	body := `{"current_password":"nope","new_password":"N3wPassword!"}`
	rec, resp := do(t, router, http.MethodPut, "/users/"+ada.ID+"/password", ada.ID, body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeInvalidPassword, resp.Error.Code)
}

func TestHandlerCompleteUserPartialFailure(t *testing.T) {
	router, f := newTestRouter()
	f.addresses.failOn = "work"

	body := `{
		"user": ` + registration + `,
		"addresses": [
			{"label":"home","street":"1 Main St","city":"London","zip_code":"N1","country":"UK","is_default":true},
			{"label":"work","street":"2 Side St","city":"London","zip_code":"N2","country":"UK"}
		]
	}`
	rec, resp := do(t, router, http.MethodPost, "/users/complete", adminToken, body)

	require.NotNil(t, resp.Error)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp.Error.Details, "completed: user, address[0]")
	assert.Contains(t, resp.Error.Details, "compensated: false")
}
