// AngelaMos | 2026
// handler.go

package role

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/go-accounts/internal/core"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts /roles. Reads need a valid token, writes need ADMIN.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/roles", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListRoles)
		r.Get("/by-name/{name}", h.GetRoleByName)
		r.Get("/{roleID}", h.GetRole)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/", h.CreateRole)
			r.Put("/{roleID}", h.UpdateRole)
			r.Delete("/{roleID}", h.DeleteRole)
		})
	})
}

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.GetAllRoles(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToRoleResponseList(roles))
}

func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	roleID, err := core.PathID(r, "roleID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	role, err := h.service.GetRoleByID(r.Context(), roleID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToRoleResponse(role))
}

func (h *Handler) GetRoleByName(w http.ResponseWriter, r *http.Request) {
	role, err := h.service.GetRoleByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToRoleResponse(role))
}

func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req RoleRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	role, err := h.service.CreateRole(r.Context(), req.ToRole())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToRoleResponse(role))
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	roleID, err := core.PathID(r, "roleID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req RoleRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	role, err := h.service.UpdateRole(r.Context(), roleID, req.ToRole())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToRoleResponse(role))
}

func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	roleID, err := core.PathID(r, "roleID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.service.DeleteRole(r.Context(), roleID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}
