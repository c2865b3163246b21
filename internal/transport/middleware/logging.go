package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/staff-attendance/internal"
)

const (
	maskedValue = "[FILTERED]"
	// bodies beyond this are logged truncated
	maxLoggedBody = 4 << 10
)

// sensitiveFields are masked wherever they appear in header names or JSON keys.
// Employee personal data is masked along with credentials.
var sensitiveFields = []string{
	"password",
	"token",
	"authorization",
	"secret",
	"credential",
	"cookie",
	"date_of_birth",
	"phone",
}

func isSensitive(name string) bool {
	name = strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(name, field) {
			return true
		}
	}
	return false
}

// LoggingMiddleware writes one entry per request once the response is complete.
// Response bodies are only logged for failures. Paths starting with one of
// skipPrefixes are not logged.
func LoggingMiddleware(logger *slog.Logger, skipPrefixes ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range skipPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			start := time.Now()
			reqBody := captureRequestBody(r)
			rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			level := slog.LevelInfo
			switch {
			case rec.status >= http.StatusInternalServerError:
				level = slog.LevelError
			case rec.status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			attrs := []any{
				"trace_id", internal.TraceIDFromContext(r.Context()),
				slog.Group("request",
					"method", r.Method,
					"path", r.URL.Path,
					"query", r.URL.RawQuery,
					"client_ip", ClientIP(r),
					"user_agent", r.UserAgent(),
					"headers", maskHeaders(r.Header),
					"body", maskBody(reqBody),
				),
				"status_code", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", rec.size,
			}
			if rec.status >= http.StatusBadRequest {
				attrs = append(attrs, "response_body", maskBody(rec.body.Bytes()))
			}

			logger.Log(r.Context(), level, "http request", attrs...)
		})
	}
}

// recordingWriter keeps the status, size and the first maxLoggedBody bytes written.
type recordingWriter struct {
	http.ResponseWriter
	status int
	size   int
	body   bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	if room := maxLoggedBody - rw.body.Len(); room > 0 {
		rw.body.Write(b[:min(room, len(b))])
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func captureRequestBody(r *http.Request) []byte {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))
	if len(body) > maxLoggedBody {
		return body[:maxLoggedBody]
	}
	return body
}

func maskHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			out[name] = maskedValue
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

func maskBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		if isSensitive(string(body)) {
			return maskedValue
		}
		return string(body)
	}

	masked, err := json.Marshal(maskJSON(doc))
	if err != nil {
		return maskedValue
	}
	return string(masked)
}

func maskJSON(v any) any {
	switch node := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(node))
		for key, value := range node {
			if isSensitive(key) {
				out[key] = maskedValue
				continue
			}
			out[key] = maskJSON(value)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, item := range node {
			out[i] = maskJSON(item)
		}
		return out
	default:
		return v
	}
}
