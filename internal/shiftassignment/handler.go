package shiftassignment

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/staff-attendance/internal"
	"github.com/frahmantamala/staff-attendance/internal/core/datamodel"
	"github.com/frahmantamala/staff-attendance/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*ShiftAssignment, int64, error)
	ListForEmployee(ctx context.Context, employeeID int64, from, to *datamodel.Date, limit, offset int) ([]*ShiftAssignment, int64, error)
	Today(ctx context.Context, limit, offset int) ([]*ShiftAssignment, int64, error)
	GetByID(ctx context.Context, id int64) (*ShiftAssignment, error)
	Create(ctx context.Context, dto AssignmentDTO) (*ShiftAssignment, error)
	Update(ctx context.Context, id int64, dto AssignmentDTO) (*ShiftAssignment, error)
	Delete(ctx context.Context, id int64) error
	CheckIn(ctx context.Context, id int64) (*ShiftAssignment, error)
	CheckOut(ctx context.Context, id int64) (*ShiftAssignment, error)
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

func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	limit, offset := h.Pagination(r)
	filter, err := parseFilter(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	assignments, total, err := h.Service.List(r.Context(), filter, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.NewPage(assignments, total, limit, offset))
}

func (h *Handler) ListEmployeeAssignments(w http.ResponseWriter, r *http.Request) {
	employeeID, err := h.ParseIDParam(r, "employeeID")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	limit, offset := h.Pagination(r)
	from, to, err := parseRange(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	assignments, total, err := h.Service.ListForEmployee(r.Context(), employeeID, from, to, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.NewPage(assignments, total, limit, offset))
}

func (h *Handler) ListTodayAssignments(w http.ResponseWriter, r *http.Request) {
	limit, offset := h.Pagination(r)

	assignments, total, err := h.Service.Today(r.Context(), limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.NewPage(assignments, total, limit, offset))
}

func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	assignment, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, assignment)
}

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var dto AssignmentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	assignment, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, assignment)
}

func (h *Handler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto AssignmentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	assignment, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, assignment)
}

func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.attendance(w, r, h.Service.CheckIn)
}

func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.attendance(w, r, h.Service.CheckOut)
}

func (h *Handler) attendance(w http.ResponseWriter, r *http.Request, record func(context.Context, int64) (*ShiftAssignment, error)) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	assignment, err := record(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, assignment)
}

func parseFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	filter := ListFilter{StatusCode: q.Get("status_code")}

	for name, dst := range map[string]**int64{
		"employee_id": &filter.EmployeeID,
		"shift_id":    &filter.ShiftID,
	} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return ListFilter{}, internal.NewValidationFieldError(name, "invalid "+name, internal.ErrCodeInvalidID)
		}
		*dst = &id
	}

	var err error
	filter.From, filter.To, err = parseRange(r)
	return filter, err
}

func parseRange(r *http.Request) (from, to *datamodel.Date, err error) {
	for name, dst := range map[string]**datamodel.Date{"from": &from, "to": &to} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		d, perr := datamodel.ParseDate(raw)
		if perr != nil {
			return nil, nil, internal.NewValidationFieldError(name, perr.Error(), internal.ErrCodeInvalidDate)
		}
		*dst = &d
	}
	return from, to, nil
}
