package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/signalsfoundry/planetary-defense-sim/core"
	"github.com/signalsfoundry/planetary-defense-sim/internal/sim"
)

type errorBody struct {
	Error string `json:"error"`
}

// statusFromError maps domain sentinel errors onto HTTP status codes. Errors
// wrapped with %w still match through errors.Is.
func statusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, sim.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, sim.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, core.ErrInsufficientBudget):
		return http.StatusPaymentRequired
	case errors.Is(err, core.ErrAlreadyTracked),
		errors.Is(err, core.ErrAlreadyAlerted),
		errors.Is(err, core.ErrAlreadyEvacuated),
		errors.Is(err, core.ErrObjectResolved):
		return http.StatusConflict
	case errors.Is(err, core.ErrTrackingCapacity),
		errors.Is(err, core.ErrSizeBelowEvacuation),
		errors.Is(err, core.ErrLeadTimeTooShort),
		errors.Is(err, core.ErrProbabilityTooLow):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeErrorStatus(w, statusFromError(err), err.Error())
}

func writeErrorStatus(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
