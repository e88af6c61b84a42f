package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lox/whattowear/internal/ingest"
)

// errorResponse is the body of every failed request. Data carries the
// provider's answer when there is one.
type errorResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// writeJSON encodes v, indented when the query string carries "pretty".
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var (
		body []byte
		err  error
	)
	if r.URL.Query().Has("pretty") {
		body, err = json.MarshalIndent(v, "", "  ")
	} else {
		body, err = json.Marshal(v)
	}
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
	w.Write([]byte("\n"))
}

// writeError maps a failure to the 400 envelope.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{Message: err.Error()}

	var ue *ingest.UpstreamError
	var pe *ingest.PayloadError
	switch {
	case errors.As(err, &ue):
		resp.Data = rawOrString(ue.Body)
	case errors.As(err, &pe):
		resp.Data = rawOrString(pe.Body)
	}

	s.logger.Warn("request failed",
		"path", r.URL.Path,
		"error", err,
		"request_id", RequestID(r.Context()),
	)
	writeJSON(w, r, http.StatusBadRequest, resp)
}

func rawOrString(body string) any {
	if body == "" {
		return nil
	}
	if json.Valid([]byte(body)) {
		return json.RawMessage(body)
	}
	return body
}
