package workposition

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/staff-attendance/internal"
	"github.com/frahmantamala/staff-attendance/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context, includeInactive bool) ([]*WorkPosition, error)
	ListByLevel(ctx context.Context, level int) ([]*WorkPosition, error)
	GetByID(ctx context.Context, id int64) (*WorkPosition, error)
	GetByCode(ctx context.Context, code string) (*WorkPosition, error)
	Create(ctx context.Context, dto WorkPositionDTO) (*WorkPosition, error)
	Update(ctx context.Context, id int64, dto WorkPositionDTO) (*WorkPosition, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

func (h *Handler) ListWorkPositions(w http.ResponseWriter, r *http.Request) {
	includeInactive, _ := strconv.ParseBool(r.URL.Query().Get("include_inactive"))
	h.respondList(w, r, includeInactive)
}

func (h *Handler) ListActiveWorkPositions(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, false)
}

func (h *Handler) respondList(w http.ResponseWriter, r *http.Request, includeInactive bool) {
	positions, err := h.Service.List(r.Context(), includeInactive)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, positions)
}

func (h *Handler) ListByLevel(w http.ResponseWriter, r *http.Request) {
	level, err := strconv.Atoi(chi.URLParam(r, "level"))
	if err != nil {
		h.HandleServiceError(w, internal.NewValidationFieldError("level", "level must be a number", internal.ErrCodeInvalidLevel))
		return
	}

	positions, err := h.Service.ListByLevel(r.Context(), level)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, positions)
}

func (h *Handler) GetWorkPosition(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	position, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, position)
}

func (h *Handler) GetWorkPositionByCode(w http.ResponseWriter, r *http.Request) {
	position, err := h.Service.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, position)
}

func (h *Handler) CreateWorkPosition(w http.ResponseWriter, r *http.Request) {
	var dto WorkPositionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	position, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, position)
}

func (h *Handler) UpdateWorkPosition(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto WorkPositionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	position, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, position)
}
