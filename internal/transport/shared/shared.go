// Package shared holds the JSON envelope helpers every handler package uses.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "lobbyreg/pkg/domain-errors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope. The
// reason field carries the machine-readable guard name so callers can render
// an accurate message.
func WriteError(w http.ResponseWriter, err error) {
	body := errorBody{
		Code:    string(dErrors.CodeInternal),
		Message: "internal error",
	}
	status := http.StatusInternalServerError

	var de *dErrors.DomainError
	if errors.As(err, &de) {
		status = dErrors.ToHTTPStatus(de.Code)
		body.Code = string(de.Code)
		body.Message = de.Message
		body.Reason = de.Reason
	}
	WriteJSON(w, status, errorEnvelope{Error: body})
}
