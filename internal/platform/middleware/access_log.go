package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bicare/bicare360/internal/platform/auth"
)

// AccessEntry captures who touched which record collection, when, and how.
// Patient and discharge records are protected health information, so every
// read and write under /api/v1 is logged.
type AccessEntry struct {
	UserID     string
	UserRoles  []string
	Resource   string
	RecordID   string
	Action     string // read, create, update, delete, search
	IPAddress  string
	Path       string
	Method     string
	Timestamp  time.Time
	RequestID  string
	StatusCode int
}

// AccessRecorder persists access entries. Tests provide a mock; the default
// falls back to structured zerolog output.
type AccessRecorder interface {
	RecordAccess(entry AccessEntry) error
}

// AccessRecorderFunc is a function adapter for AccessRecorder.
type AccessRecorderFunc func(entry AccessEntry) error

func (f AccessRecorderFunc) RecordAccess(entry AccessEntry) error {
	return f(entry)
}

// AccessLog returns middleware that records every request under /api/v1:
// the authenticated user, the resource collection and record id from the
// path, and the action derived from the HTTP method.
func AccessLog(logger zerolog.Logger, recorders ...AccessRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path

			if !strings.HasPrefix(path, "/api/v1/") {
				return next(c)
			}

			err := next(c)

			resource, recordID := splitResourcePath(strings.TrimPrefix(path, "/api/v1/"))
			rid, _ := c.Get("request_id").(string)

			entry := AccessEntry{
				UserID:     auth.UserIDFromContext(req.Context()),
				UserRoles:  auth.RolesFromContext(req.Context()),
				Resource:   resource,
				RecordID:   recordID,
				Action:     actionForMethod(req.Method),
				IPAddress:  c.RealIP(),
				Path:       path,
				Method:     req.Method,
				Timestamp:  time.Now(),
				RequestID:  rid,
				StatusCode: c.Response().Status,
			}

			recorded := false
			for _, r := range recorders {
				if r == nil {
					continue
				}
				if recErr := r.RecordAccess(entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", entry.RequestID).
						Msg("access log recorder failed")
				} else {
					recorded = true
				}
			}

			if !recorded {
				logger.Info().
					Str("request_id", entry.RequestID).
					Str("user_id", entry.UserID).
					Str("resource", entry.Resource).
					Str("record_id", entry.RecordID).
					Str("action", entry.Action).
					Str("remote_ip", entry.IPAddress).
					Int("status", entry.StatusCode).
					Msg("record access")
			}

			return err
		}
	}
}

// splitResourcePath splits "patients/123/deactivate" into the collection name
// and the record id (if present).
func splitResourcePath(p string) (resource, recordID string) {
	parts := strings.Split(p, "/")
	if len(parts) == 0 {
		return "", ""
	}
	resource = parts[0]
	if len(parts) > 1 {
		recordID = parts[1]
	}
	return resource, recordID
}

func actionForMethod(method string) string {
	switch method {
	case http.MethodGet:
		return "read"
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return strings.ToLower(method)
	}
}
