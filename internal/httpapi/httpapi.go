// Package httpapi holds the JSON request/response helpers shared by the
// handler packages.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// DecodeBody unmarshals a request body into v. The payload is accepted
// either directly or as a JSON-encoded string under a "body" field, the
// shape a transport wrapper produces.
func DecodeBody(r *http.Request, v interface{}) error {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	var wrapped struct {
		Body *string `json:"body"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Body != nil {
		raw = []byte(*wrapped.Body)
	}
	return json.Unmarshal(raw, v)
}
