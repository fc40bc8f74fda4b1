package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"budgetbuddy/internal/core"
	applog "budgetbuddy/internal/log"
)

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", applog.FieldComponent, applog.ComponentHTTP, applog.FieldError, err)
	}
}

// respondError maps error kinds onto status codes. Store failures are the
// collaborator's fault, so they surface as 502 rather than 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case core.IsKind(err, core.KindValidation):
		status = http.StatusBadRequest
	case core.IsKind(err, core.KindNotFound):
		status = http.StatusNotFound
	case core.IsKind(err, core.KindStore):
		status = http.StatusBadGateway
	case core.IsKind(err, core.KindClassifier):
		status = http.StatusBadGateway
	case core.IsKind(err, core.KindConfig):
		status = http.StatusServiceUnavailable
	}

	ctx := r.Context()
	slog.WarnContext(ctx, "Request failed",
		applog.FieldComponent, applog.ComponentHTTP,
		applog.FieldRequestID, applog.RequestID(ctx),
		applog.FieldPath, r.URL.Path,
		applog.FieldStatus, status,
		applog.FieldError, err)

	respondJSON(w, status, errorBody{Error: err.Error(), Kind: kindOf(err)})
}

func kindOf(err error) string {
	for _, k := range []core.Kind{core.KindValidation, core.KindNotFound, core.KindStore, core.KindClassifier, core.KindConfig} {
		if core.IsKind(err, k) {
			return k.String()
		}
	}
	return "internal"
}
