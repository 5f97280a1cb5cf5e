package handler

import (
	"net/http"
	"time"

	"github.com/briefboard/briefboard-server/internal/httputil"
	"github.com/briefboard/briefboard-server/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

func writeError(w http.ResponseWriter, err error) {
	httputil.WriteError(w, err)
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

// formatPublicBrief builds the anonymous view of a brief. The owner id and
// public token stay out of the payload.
func formatPublicBrief(b *model.Brief) map[string]any {
	return map[string]any{
		"id":             b.ID,
		"title":          b.Title,
		"description":    b.Description,
		"expectedResult": b.ExpectedResult,
		"deadline":       b.Deadline,
		"budget":         b.Budget,
		"criteria":       []string(b.Criteria),
		"template":       b.Template,
		"status":         b.Status,
		"createdAt":      b.CreatedAt.Format(time.RFC3339),
	}
}

func formatAccount(a *model.Account) map[string]any {
	return map[string]any{
		"id":          a.ID,
		"handle":      a.Handle,
		"role":        a.Role,
		"blocked":     a.IsBlocked(),
		"loginCount":  a.LoginCount,
		"lastLoginAt": formatTime(a.LastLoginAt),
		"createdAt":   a.CreatedAt.Format(time.RFC3339),
	}
}
