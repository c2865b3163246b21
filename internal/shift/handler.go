package shift

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/staff-attendance/internal"
	shiftModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/shift"
	"github.com/frahmantamala/staff-attendance/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context, includeInactive bool) ([]*Shift, error)
	ListActive(ctx context.Context) ([]*Shift, error)
	ListByType(ctx context.Context, t shiftModel.Type) ([]*Shift, error)
	GetByID(ctx context.Context, id int64) (*Shift, error)
	Create(ctx context.Context, dto ShiftDTO) (*Shift, error)
	Update(ctx context.Context, id int64, dto ShiftDTO) (*Shift, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	includeInactive, _ := strconv.ParseBool(r.URL.Query().Get("include_inactive"))

	shifts, err := h.Service.List(r.Context(), includeInactive)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, shifts)
}

func (h *Handler) ListActiveShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.Service.ListActive(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, shifts)
}

func (h *Handler) ListShiftsByType(w http.ResponseWriter, r *http.Request) {
	t, err := strconv.Atoi(chi.URLParam(r, "type"))
	if err != nil {
		h.HandleServiceError(w, internal.NewValidationFieldError("type", "invalid type", internal.ErrCodeValidationFailed))
		return
	}

	shifts, err := h.Service.ListByType(r.Context(), shiftModel.Type(t))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, shifts)
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	shift, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, shift)
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var dto ShiftDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	shift, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, shift)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto ShiftDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	shift, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, shift)
}
