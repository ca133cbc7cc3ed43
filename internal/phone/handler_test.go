// AngelaMos | 2026
// handler_test.go

package phone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/go-accounts/internal/core"
	"github.com/carterperez-dev/templates/go-accounts/internal/testutil"
)

type serviceCreator struct {
	svc *Service
}

func (c serviceCreator) AddPhone(ctx context.Context, userID string, p *Phone) (*Phone, error) {
	return c.svc.CreatePhone(ctx, userID, p)
}

func newTestRouter(users ...string) (http.Handler, *fakeRepo) {
	repo := newFakeRepo(users...)
	svc := NewService(repo, &testutil.Tx{}, testutil.Clock())
	h := NewHandler(svc, serviceCreator{svc: svc})

	r := chi.NewRouter()
	r.Route("/users/{userID}", h.Routes)
	return r, repo
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) core.Response {
	t.Helper()
	var resp core.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHandlerCreatePhone(t *testing.T) {
	userID := uuid.NewString()
	router, repo := newTestRouter(userID)

	body := `{"type":"MOBILE","country_code":"+1","number":"5551234","is_default":true}`
	req := httptest.NewRequest(http.MethodPost, "/users/"+userID+"/phones", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeBody(t, rec)
	assert.True(t, resp.Success)
	assert.Len(t, repo.defaultIDs(userID), 1)
}

func TestHandlerCreatePhoneRejectsUnknownType(t *testing.T) {
	userID := uuid.NewString()
	router, _ := newTestRouter(userID)

	body := `{"type":"PAGER","country_code":"+1","number":"5551234"}`
	req := httptest.NewRequest(http.MethodPost, "/users/"+userID+"/phones", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, core.CodeValidation, resp.Error.Code)
}

func TestHandlerGetPhoneOfAnotherUser(t *testing.T) {
	owner, other := uuid.NewString(), uuid.NewString()
	router, repo := newTestRouter(owner, other)

	p, err := NewService(repo, &testutil.Tx{}, testutil.Clock()).
		CreatePhone(context.Background(), owner, mobile("5551234", false))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/users/"+other+"/phones/"+p.ID, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeBody(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, core.CodeNotFound, resp.Error.Code)
	assert.Equal(t, "phone", resp.Error.Domain)
}

func TestHandlerRejectsMalformedUserID(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/users/not-a-uuid/phones", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
