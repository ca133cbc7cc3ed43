// AngelaMos | 2026
// handler.go

package address

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/go-accounts/internal/core"
)

// Creator adds an address on behalf of a user. The user service implements
// it so creation goes through its existence check and events.
type Creator interface {
	AddAddress(ctx context.Context, userID string, addr *Address) (*Address, error)
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

// Routes mounts /addresses on a router already scoped to /users/{userID}.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/addresses", func(r chi.Router) {
		r.Get("/", h.ListAddresses)
		r.Post("/", h.CreateAddress)
		r.Get("/{addressID}", h.GetAddress)
		r.Put("/{addressID}", h.UpdateAddress)
		r.Delete("/{addressID}", h.DeleteAddress)
	})
}

func (h *Handler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	userID, err := core.PathID(r, "userID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	addresses, err := h.service.ListAddresses(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToAddressResponseList(addresses))
}

func (h *Handler) GetAddress(w http.ResponseWriter, r *http.Request) {
	userID, addressID, err := pathIDs(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	addr, err := h.service.GetAddress(r.Context(), addressID, userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToAddressResponse(addr))
}

func (h *Handler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	userID, err := core.PathID(r, "userID")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req AddressRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	addr, err := h.creator.AddAddress(r.Context(), userID, req.ToAddress())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToAddressResponse(addr))
}

func (h *Handler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	userID, addressID, err := pathIDs(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req AddressRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	addr, err := h.service.UpdateAddress(r.Context(), addressID, userID, req.ToAddress())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToAddressResponse(addr))
}

func (h *Handler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	userID, addressID, err := pathIDs(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.service.DeleteAddress(r.Context(), addressID, userID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func pathIDs(r *http.Request) (string, string, error) {
	userID, err := core.PathID(r, "userID")
	if err != nil {
		return "", "", err
	}
	addressID, err := core.PathID(r, "addressID")
	if err != nil {
		return "", "", err
	}
	return userID, addressID, nil
}
