// AngelaMos | 2026
// handler.go

package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/go-accounts/internal/core"
	"github.com/carterperez-dev/templates/go-accounts/internal/middleware"
	"github.com/carterperez-dev/templates/go-accounts/internal/role"
)

type Handler struct {
	service      *Service
	validator    *validator.Validate
	registration func(http.Handler) http.Handler
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// LimitRegistration puts mw in front of the public registration endpoint.
func (h *Handler) LimitRegistration(mw func(http.Handler) http.Handler) *Handler {
	h.registration = mw
	return h
}

// RegisterRoutes mounts /users. Registration is public, lookups across
// accounts need ADMIN, and everything under /users/{userID} is limited to
// the account owner or an admin. Sub-resource routers (addresses, phones)
// are mounted under /users/{userID}.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
	subresources ...func(chi.Router),
) {
	r.Route("/users", func(r chi.Router) {
		if h.registration != nil {
			r.With(h.registration).Post("/", h.CreateUser)
		} else {
			r.Post("/", h.CreateUser)
		}

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/", h.ListUsers)
				r.Post("/complete", h.CreateCompleteUser)
				r.Get("/by-username/{username}", h.GetUserByUsername)
				r.Get("/by-email/{email}", h.GetUserByEmail)
			})

			r.Route("/{userID}", func(r chi.Router) {
				r.Use(middleware.RequireSelfOrAdmin("userID"))

				r.Get("/", h.GetUser)
				r.Put("/", h.UpdateUser)
				r.Delete("/", h.DeleteUser)
				r.Put("/password", h.ChangePassword)
				r.Get("/roles", h.GetUserRoles)
				r.With(adminOnly).Post("/roles/{roleID}", h.AssignRole)
				r.With(adminOnly).Delete("/roles/{roleID}", h.RemoveRole)

				for _, mount := range subresources {
					mount(r)
				}
			})
		})
	})
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	details, err := req.ToUser()
	if err != nil {
		core.JSONError(w, err)
		return
	}

	user, err := h.service.CreateUser(r.Context(), details)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToUserResponse(user))
}

func (h *Handler) CreateCompleteUser(w http.ResponseWriter, r *http.Request) {
	var req CompleteUserRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	in, err := req.ToCompleteUser()
	if err != nil {
		core.JSONError(w, err)
		return
	}

	user, err := h.service.CreateCompleteUser(r.Context(), in)
	if err != nil {
		var partial *PartialCompletionError
		if errors.As(err, &partial) {
			core.JSONError(w, partial.AppError())
			return
		}
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToUserResponse(user))
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := ListUsersParams{
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
	}
	if raw := r.URL.Query().Get("enabled"); raw != "" {
		if enabled, err := strconv.ParseBool(raw); err == nil {
			params.Enabled = &enabled
		}
	}
	params.Normalize()

	users, total, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w, ToUserSummaryList(users), params.Page, params.PageSize, total)
}

func (h *Handler) GetUserByUsername(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUserByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUserByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := core.PathID(r, "userID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	user, err := h.service.GetUserByID(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := core.PathID(r, "userID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req UserRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	details, err := req.ToUser()
	if err != nil {
		core.JSONError(w, err)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), userID, details)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := core.PathID(r, "userID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.service.DeleteUser(r.Context(), userID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := core.PathID(r, "userID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req ChangePasswordRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	err = h.service.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) GetUserRoles(w http.ResponseWriter, r *http.Request) {
	userID, err := core.PathID(r, "userID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	roles, err := h.service.GetUserRoles(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, role.ToRoleResponseList(roles))
}

func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	userID, roleID, err := userAndRole(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	user, err := h.service.AssignRole(r.Context(), userID, roleID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) RemoveRole(w http.ResponseWriter, r *http.Request) {
	userID, roleID, err := userAndRole(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	user, err := h.service.RemoveRole(r.Context(), userID, roleID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func userAndRole(r *http.Request) (string, string, error) {
	userID, err := core.PathID(r, "userID")
	if err != nil {
		return "", "", err
	}
	roleID, err := core.PathID(r, "roleID")
	if err != nil {
		return "", "", err
	}
	return userID, roleID, nil
}
