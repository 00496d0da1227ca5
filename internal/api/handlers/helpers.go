package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"haul-turn-planner/internal/domain"
	"haul-turn-planner/internal/platform/obs"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "handlers")

// Step sizes accepted over HTTP. The kernel itself has no lower bound.
// Polyline size is capped separately by services.MaxPolylinePoints.
const (
	DefaultStepSizeM = 0.5
	MinStepSizeM     = 0.01
)

// Request bodies are small JSON objects.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithFields(logrus.Fields{
			"req_id": obs.RequestID(r.Context()),
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Warn("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decodeJSON decodes exactly one JSON object and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeServiceError maps error categories to HTTP statuses. Unknown
// profiles are checked first since they also wrap ErrConfiguration.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var notFound *domain.ProfileNotFoundError
	switch {
	case errors.As(err, &notFound):
		writeError(w, r, http.StatusNotFound, notFound.Error())
	case errors.Is(err, domain.ErrMovementNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidParameter), errors.Is(err, domain.ErrConfiguration):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		log.WithField("req_id", obs.RequestID(r.Context())).WithError(err).Errorf("%s failed", op)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func resolveStepSize(step *float64) (float64, error) {
	if step == nil {
		return DefaultStepSizeM, nil
	}
	if !(*step >= MinStepSizeM) {
		return 0, fmt.Errorf("step_size_m=%v must be at least %v: %w", *step, MinStepSizeM, domain.ErrInvalidParameter)
	}
	return *step, nil
}

func parseStepSizeQuery(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return resolveStepSize(nil)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("step_size_m=%q is not a number: %w", raw, domain.ErrInvalidParameter)
	}
	return resolveStepSize(&v)
}
