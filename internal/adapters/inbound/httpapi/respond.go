package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Hannlytics/rams-generator/internal/domain"
)

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// errBadJSON marks a body that could not be decoded.
var errBadJSON = errors.New("malformed JSON body")

// decode reads one JSON value from the request body.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			return err
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: empty body", errBadJSON)
		default:
			return fmt.Errorf("%w: %v", errBadJSON, err)
		}
	}
	return nil
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadJSON),
		errors.Is(err, domain.ErrInvalidForm),
		errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrFieldNotFixable),
		errors.Is(err, domain.ErrUnknownRule),
		errors.Is(err, domain.ErrUnknownRegulation),
		errors.Is(err, domain.ErrIncompleteAnswers),
		errors.Is(err, domain.ErrEmptyPrompt),
		errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoFixAvailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAIUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Server errors hide the detail
// behind public.
func fail(w http.ResponseWriter, err error, public string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		writeError(w, status, public)
		return
	}
	writeError(w, status, err.Error())
}
