package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ersonp/filmorate/internal/domain/entities"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

var errMalformedBody = errors.New("malformed request body")

// writeJSON sends body with status. The header is already out when encoding
// fails, so the failure is only logged.
func writeJSON(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithFields(logrus.Fields{
			"request_id": RequestIDFrom(r.Context()),
			"status":     status,
		}).WithError(err).Debug("encoding response failed")
	}
}

// statusFor maps a failure kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, entities.ErrValidation), errors.Is(err, errMalformedBody):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error) {
	status := statusFor(err)
	body := errorResponse{Error: err.Error()}

	var many entities.ValidationErrors
	var one *entities.ValidationError
	switch {
	case errors.As(err, &many):
		body.Details = many.Fields()
	case errors.As(err, &one) && one.Field != "":
		body.Details = map[string]string{one.Field: one.Message}
	}

	entry := log.WithFields(logrus.Fields{
		"request_id": RequestIDFrom(r.Context()),
		"status":     status,
	}).WithError(err)
	if status == http.StatusInternalServerError {
		entry.Error("request failed")
		body.Error = http.StatusText(status)
	} else {
		entry.Debug("request rejected")
	}

	writeJSON(w, r, log, status, body)
}
