package audit

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/staff-attendance/internal"
	"github.com/frahmantamala/staff-attendance/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Log, int64, error)
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

func (h *Handler) ListAccessLogs(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	limit, offset := h.Pagination(r)

	logs, total, err := h.Service.List(r.Context(), filter, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.NewPage(logs, total, limit, offset))
}

func parseFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	filter := ListFilter{
		Decision: strings.ToLower(strings.TrimSpace(q.Get("decision"))),
		Action:   strings.TrimSpace(q.Get("action")),
	}

	if raw := q.Get("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filter, internal.NewValidationFieldError("user_id", "user_id must be a positive integer", internal.ErrCodeInvalidID)
		}
		filter.UserID = &id
	}

	for name, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, internal.NewValidationFieldError(name, name+" must be an RFC 3339 timestamp", internal.ErrCodeInvalidDate)
		}
		*dst = &t
	}
	return filter, nil
}
