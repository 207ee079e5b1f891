package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/sambeau/unitconv/pkg/units"
	"github.com/sambeau/unitconv/pkg/units/catalog"
	uerrors "github.com/sambeau/unitconv/pkg/units/errors"
)

// maxBatchBody caps POST /api/convert bodies.
const maxBatchBody = 1 << 20

type unitJSON struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Dimension string `json:"dimension,omitempty"`
	Currency  string `json:"currency,omitempty"`
	Factor    string `json:"factor,omitempty"`
	HasFactor bool   `json:"has_factor"`
}

type categoryJSON struct {
	Name  units.CategoryName `json:"name"`
	Units []unitJSON         `json:"units"`
}

func toCategoryJSON(c units.Category) categoryJSON {
	out := categoryJSON{Name: c.Name, Units: make([]unitJSON, len(c.Units))}
	for i, u := range c.Units {
		uj := unitJSON{ID: u.ID, Label: u.Label, Dimension: u.Dimension, Currency: u.Currency}
		if f, ok := u.Factor(); ok {
			uj.Factor = f.String()
			uj.HasFactor = true
		}
		out.Units[i] = uj
	}
	return out
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories := s.registry.Categories()
	out := make([]categoryJSON, len(categories))
	for i, c := range categories {
		out[i] = toCategoryJSON(c)
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Options(r.PathValue("name")))
}

func (s *Server) handleUnitCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c, ok := s.registry.FindCategory(id)
	if !ok {
		s.writeError(w, uerrors.NewUnknownUnit(id, s.registry.IDs()), 0)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"unit": id, "category": c.Name})
}

// convertResult is one conversion answer. Error is set instead of Value for
// rejected strict conversions in a batch.
type convertResult struct {
	Value  *float64           `json:"value,omitempty"`
	From   string             `json:"from"`
	To     string             `json:"to"`
	Strict bool               `json:"strict"`
	Error  *uerrors.UnitError `json:"error,omitempty"`
}

// convert runs one request with the current engine.
func (s *Server) convert(req units.Request, strict bool) convertResult {
	res := convertResult{From: req.Source, To: req.Target, Strict: strict}
	engine := s.Engine()

	var v float64
	if strict {
		var err error
		v, err = engine.ConvertStrict(req)
		if err != nil {
			var ue *uerrors.UnitError
			if !errors.As(err, &ue) {
				ue = uerrors.NewSimple(uerrors.ClassValue, err.Error())
			}
			if s.metrics != nil {
				s.metrics.observeStrictError(ue.Code)
			}
			res.Error = ue
			return res
		}
	} else {
		v = engine.Convert(req)
	}

	// JSON has no infinities
	if math.IsInf(v, 0) || math.IsNaN(v) {
		res.Error = uerrors.New("UNIT-0005", map[string]any{"Value": strconv.FormatFloat(v, 'g', -1, 64)})
		return res
	}
	res.Value = &v
	return res
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	raw := q.Get("value")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.writeError(w, uerrors.New("UNIT-0005", map[string]any{"Value": strconv.Quote(raw)}), http.StatusBadRequest)
		return
	}

	strict := s.strict.Load()
	if v := q.Get("strict"); v != "" {
		strict, err = strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, uerrors.NewSimple(uerrors.ClassValidation, "strict must be a boolean"), http.StatusBadRequest)
			return
		}
	}

	res := s.convert(units.Request{Value: value, Source: q.Get("from"), Target: q.Get("to")}, strict)
	if res.Error != nil {
		s.writeError(w, res.Error, 0)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type batchRequest struct {
	Requests []units.Request `json:"requests"`
	Strict   *bool           `json:"strict,omitempty"`
}

func (s *Server) handleConvertBatch(w http.ResponseWriter, r *http.Request) {
	var body batchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBatchBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		s.writeError(w, uerrors.NewSimple(uerrors.ClassValidation, "invalid request body: "+err.Error()), http.StatusBadRequest)
		return
	}

	strict := s.strict.Load()
	if body.Strict != nil {
		strict = *body.Strict
	}

	results := make([]convertResult, len(body.Requests))
	for i, req := range body.Requests {
		results[i] = s.convert(req, strict)
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Unit catalog</title></head><body>\n")
	if err := catalog.HTML(&buf, s.registry); err != nil {
		s.writeError(w, err, http.StatusInternalServerError)
		return
	}
	buf.WriteString("</body></html>\n")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			s.logger.Warn("store unavailable", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
