package responses

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

// WriteSuccess writes data as the bare JSON body with a 200 status.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data)
}

// WriteMessage acknowledges a mutation with {message, id?}.
func WriteMessage(w http.ResponseWriter, message, id string) {
	writeJSON(w, http.StatusOK, types.MessageResponse{Message: message, ID: id})
}

// WriteError is the single error writer. Server failures are logged with the
// full dump; client errors are logged as rejections.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	typed := pkgerrors.Normalize(err)
	status := typed.Status()

	if status >= http.StatusInternalServerError {
		logg.Error(logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), "request.error", err)
	} else {
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"error_code": string(typed.Code()),
			"status":     status,
		}), "request.rejected")
	}

	writeJSON(w, status, types.ErrorEnvelope{
		Error:   typed.PublicMessage(),
		Code:    string(typed.Code()),
		Details: typed.PublicDetails(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
