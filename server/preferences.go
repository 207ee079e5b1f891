package server

import (
	"encoding/json"
	"net/http"

	"github.com/sambeau/unitconv/pkg/units"
	uerrors "github.com/sambeau/unitconv/pkg/units/errors"
)

type preferenceBody struct {
	Category units.CategoryName `json:"category"`
	Unit     string             `json:"unit"`
}

func (s *Server) handleListPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"preferences": prefs})
}

func (s *Server) handleAuditPreferences(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.Audit(r.Context())
	if err != nil {
		s.writeError(w, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stale": entries})
}

func (s *Server) handleGetPreference(w http.ResponseWriter, r *http.Request) {
	pref, err := s.store.Get(r.Context(), r.PathValue("panel"))
	if err != nil {
		s.writeError(w, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, pref)
}

func (s *Server) handlePutPreference(w http.ResponseWriter, r *http.Request) {
	var body preferenceBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBatchBody)).Decode(&body); err != nil {
		s.writeError(w, uerrors.NewSimple(uerrors.ClassValidation, "invalid request body: "+err.Error()), http.StatusBadRequest)
		return
	}

	pref, err := s.store.Save(r.Context(), r.PathValue("panel"), body.Category, body.Unit)
	if err != nil {
		// unknown units and categories are bad input here, not missing resources
		s.writeError(w, err, badRequestFor(err))
		return
	}
	writeJSON(w, http.StatusOK, pref)
}

func (s *Server) handleDeletePreference(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), r.PathValue("panel")); err != nil {
		s.writeError(w, err, 0)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// badRequestFor returns 400 for UnitErrors and 0 (derive) otherwise.
func badRequestFor(err error) int {
	if _, ok := err.(*uerrors.UnitError); ok {
		return http.StatusBadRequest
	}
	return 0
}
