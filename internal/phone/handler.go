// AngelaMos | 2026
// handler.go

package phone

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/go-accounts/internal/core"
)

type Creator interface {
	AddPhone(ctx context.Context, userID string, phone *Phone) (*Phone, error)
}

type Handler struct {
	service   *Service
	creator   Creator
	validator *validator.Validate
}

func NewHandler(service *Service, creator Creator) *Handler {
	return &Handler{
		service:   service,
		creator:   creator,
		validator: core.NewValidator(),
	}
}

// Routes mounts /phones on a router already scoped to /users/{userID}.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/phones", func(r chi.Router) {
		r.Get("/", h.ListPhones)
		r.Post("/", h.CreatePhone)
		r.Get("/{phoneID}", h.GetPhone)
		r.Put("/{phoneID}", h.UpdatePhone)
		r.Delete("/{phoneID}", h.DeletePhone)
	})
}

func (h *Handler) ListPhones(w http.ResponseWriter, r *http.Request) {
	userID, err := core.PathID(r, "userID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	phones, err := h.service.ListPhones(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToPhoneResponseList(phones))
}

func (h *Handler) GetPhone(w http.ResponseWriter, r *http.Request) {
	userID, phoneID, err := pathIDs(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	phone, err := h.service.GetPhone(r.Context(), phoneID, userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToPhoneResponse(phone))
}

func (h *Handler) CreatePhone(w http.ResponseWriter, r *http.Request) {
	userID, err := core.PathID(r, "userID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req PhoneRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	phone, err := h.creator.AddPhone(r.Context(), userID, req.ToPhone())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToPhoneResponse(phone))
}

func (h *Handler) UpdatePhone(w http.ResponseWriter, r *http.Request) {
	userID, phoneID, err := pathIDs(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req PhoneRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	phone, err := h.service.UpdatePhone(r.Context(), phoneID, userID, req.ToPhone())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToPhoneResponse(phone))
}

func (h *Handler) DeletePhone(w http.ResponseWriter, r *http.Request) {
	userID, phoneID, err := pathIDs(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.service.DeletePhone(r.Context(), phoneID, userID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func pathIDs(r *http.Request) (userID, phoneID string, err error) {
	if userID, err = core.PathID(r, "userID"); err != nil {
		return "", "", err
	}
	if phoneID, err = core.PathID(r, "phoneID"); err != nil {
		return "", "", err
	}
	return userID, phoneID, nil
}
