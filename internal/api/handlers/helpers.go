package handlers

import (
	"courier-slot-service/internal/domain"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = newValidator()

// newValidator reports JSON field names in validation errors.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			writeError(w, r, http.StatusBadRequest, ve[0].Field()+" failed "+ve[0].Tag()+" validation")
			return false
		}
		writeError(w, r, http.StatusBadRequest, "invalid request")
		return false
	}

	return true
}

// writeServiceError maps domain errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *domain.ValidationError
		rv *domain.RuleViolation
		ue *domain.UpstreamError
	)

	switch {
	case errors.As(err, &ve):
		writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": ve.Error(), "field": ve.Field})
	case errors.As(err, &rv):
		writeJSON(w, r, http.StatusUnprocessableEntity, map[string]string{
			"error":  rv.Rule.Message(),
			"rule":   string(rv.Rule),
			"reason": rv.Rule.Message(),
		})
	case errors.Is(err, domain.ErrSlotConflict), errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrBookingNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.As(err, &ue):
		log.Error().Err(err).Str("req_id", middleware.GetReqID(r.Context())).Msg("upstream failure")
		writeError(w, r, http.StatusServiceUnavailable, ue.Service+" unavailable")
	default:
		log.Error().Err(err).Str("req_id", middleware.GetReqID(r.Context())).Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
