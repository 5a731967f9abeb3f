package server

import (
	"net/http"
)

type yearRequest struct {
	Label string `json:"label"`
}

func (s *Server) listYears(w http.ResponseWriter, r *http.Request) {
	years, err := s.svc.Years.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"years": orEmpty(years)})
}

func (s *Server) createYear(w http.ResponseWriter, r *http.Request) {
	var req yearRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	y, err := s.svc.Years.Add(r.Context(), req.Label)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"year": y})
}

func (s *Server) activeYear(w http.ResponseWriter, r *http.Request) {
	y, err := s.svc.Years.ActiveYear(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"year": y})
}

func (s *Server) updateYear(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req yearRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	y, err := s.svc.Years.Update(r.Context(), id, req.Label)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"year": y})
}

func (s *Server) deleteYear(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.svc.Years.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) activateYear(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	y, err := s.svc.Years.Activate(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"year": y})
}
