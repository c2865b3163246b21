package dashboard

import (
	"context"
	"net/http"

	"github.com/frahmantamala/staff-attendance/internal/transport"
)

type ServiceAPI interface {
	Statistics(ctx context.Context) (*Statistics, error)
	EmployeesByDepartment(ctx context.Context) ([]DepartmentStat, error)
	EmployeesByPosition(ctx context.Context) ([]PositionStat, error)
	AttendanceToday(ctx context.Context) (*AttendanceToday, error)
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

func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Statistics(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) GetEmployeesByDepartment(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.EmployeesByDepartment(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) GetEmployeesByPosition(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.EmployeesByPosition(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) GetAttendanceToday(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.AttendanceToday(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}
