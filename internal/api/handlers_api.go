package api

import (
	"net/http"

	"github.com/lox/whattowear/internal/verdict"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	set, _, err := s.forecaster.FetchDaily(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, set)
}

func (s *Server) handleHourly(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	set, _, err := s.forecaster.FetchHourly(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, set.Truncate(s.hourlyLimit))
}

func (s *Server) handleSimpleVerdict(w http.ResponseWriter, r *http.Request) {
	s.serveVerdict(w, r, verdict.ModeSimple)
}

// handleVerdict defaults to detailed; ?mode= picks another.
func (s *Server) handleVerdict(w http.ResponseWriter, r *http.Request) {
	mode := verdict.ModeDetailed
	if m := r.URL.Query().Get("mode"); m != "" {
		parsed, err := verdict.ParseMode(m)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		mode = parsed
	}
	s.serveVerdict(w, r, mode)
}

func (s *Server) serveVerdict(w http.ResponseWriter, r *http.Request, mode verdict.Mode) {
	q, err := s.parseQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	set, _, err := s.forecaster.FetchHourly(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// Only the first day of the 48 hour feed belongs to today's verdict.
	v, err := s.engine.Verdict(set.Truncate(s.hourlyLimit), mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}
