package shared

import (
	"encoding/json"
	"net/http"
)

// Envelope is the standard JSON response body: {ok: bool, ...}.
type Envelope map[string]any

// JSON writes body with the given status code.
func JSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// OK writes a 200 success envelope. Extra fields are merged into the body.
func OK(w http.ResponseWriter, extra Envelope) {
	body := Envelope{"ok": true}
	for k, v := range extra {
		body[k] = v
	}
	JSON(w, http.StatusOK, body)
}

// Fail writes a failure envelope with the given status and error code.
func Fail(w http.ResponseWriter, status int, code string) {
	JSON(w, status, Envelope{"ok": false, "error": code})
}
