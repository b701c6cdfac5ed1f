package handler

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// WriteJSON writes data as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data) // the status line is already out
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes an errorResponse with a machine-readable code and a
// human-readable message.
func WriteError(w http.ResponseWriter, status int, errorCode, message string) {
	WriteJSON(w, status, errorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Messages of the errors returned by ParseJSON and ParseOptionalJSON. They
// are written to clients as is.
var (
	errBodyRequired   = errors.New("Request body is required")
	errBodyNotJSON    = errors.New("Request body must be valid JSON with Content-Type: application/json")
	errBodyTrailing   = errors.New("Request body must contain a single JSON object")
	errBodyUnreadable = errors.New("Request body could not be read")
)

// ParseJSON decodes a required JSON request body into v. Unknown fields,
// trailing data and a missing or non-JSON Content-Type are rejected.
func ParseJSON(r *http.Request, v any) error {
	return parseJSON(r, v, false)
}

// ParseOptionalJSON is ParseJSON for endpoints whose fields all have
// defaults. A body that turns out to be empty leaves v untouched, whether
// it was sent with Content-Length: 0, chunked or with no framing at all.
func ParseOptionalJSON(r *http.Request, v any) error {
	return parseJSON(r, v, true)
}

func parseJSON(r *http.Request, v any, optional bool) error {
	if r.Body == nil {
		return emptyBody(optional)
	}

	body := bufio.NewReader(r.Body)
	if _, err := body.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return emptyBody(optional)
		}
		return errBodyUnreadable
	}

	if !isJSONContentType(r.Header.Get("Content-Type")) {
		return errBodyNotJSON
	}

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errBodyNotJSON
	}
	if dec.More() {
		return errBodyTrailing
	}
	return nil
}

func emptyBody(optional bool) error {
	if optional {
		return nil
	}
	return errBodyRequired
}

func isJSONContentType(ct string) bool {
	return strings.HasPrefix(ct, "application/json")
}
