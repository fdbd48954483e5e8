package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Son-2003/e-commerse-sub000/internal/api"
	"github.com/Son-2003/e-commerse-sub000/internal/checkout"
)

type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondFailure translates the errors the inner layers produce into HTTP
// responses: a validation error keeps its per-field messages, a remote
// rejection keeps the upstream status and message, everything else is a
// bad gateway with the single generic line.
func respondFailure(w http.ResponseWriter, err error) {
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "validation failed",
			Code:   "validation_failed",
			Fields: verr.Fields,
		})
		return
	}

	var remote *api.RemoteError
	if errors.As(err, &remote) {
		respondError(w, remote.StatusCode, "remote_error", remote.Message)
		return
	}

	logrus.WithError(err).Error("remote call failed")
	respondError(w, http.StatusBadGateway, "remote_error", "something went wrong, please try again")
}
