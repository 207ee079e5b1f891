package units

import (
	"math"
	"strconv"

	uerrors "github.com/sambeau/unitconv/pkg/units/errors"
)

// ConvertStrict converts within the source unit's own category and reports
// why a conversion is meaningless instead of degrading to 0. Unlike Convert
// it has no Boolean short-circuit and no legacy mode: both units are looked
// up by (category, id), so ids shared between categories cannot leak.
//
// Returned errors are *errors.UnitError values.
func (e *Engine) ConvertStrict(req Request) (float64, error) {
	if math.IsNaN(req.Value) || math.IsInf(req.Value, 0) {
		return 0, uerrors.New("UNIT-0005", map[string]any{"Value": strconv.FormatFloat(req.Value, 'g', -1, 64)})
	}
	if req.Source == "" {
		return 0, uerrors.New("UNIT-0006", map[string]any{"Field": "source"})
	}
	if req.Target == "" {
		return 0, uerrors.New("UNIT-0006", map[string]any{"Field": "target"})
	}

	r := e.registry
	category, ok := r.FindCategory(req.Source)
	if !ok {
		return 0, uerrors.NewUnknownUnit(req.Source, r.IDs())
	}
	source, _ := r.Lookup(category.Name, req.Source)

	target, ok := r.Lookup(category.Name, req.Target)
	if !ok {
		other, found := r.FindCategory(req.Target)
		if !found {
			return 0, uerrors.NewUnknownUnit(req.Target, r.IDs())
		}
		return 0, uerrors.New("UNIT-0002", map[string]any{
			"From":         req.Source,
			"FromCategory": category.Name,
			"To":           req.Target,
			"ToCategory":   other.Name,
		})
	}

	if source.Dimension != target.Dimension {
		return 0, uerrors.New("UNIT-0003", map[string]any{
			"From":          req.Source,
			"FromDimension": dimensionName(source),
			"To":            req.Target,
			"ToDimension":   dimensionName(target),
			"Category":      category.Name,
		})
	}

	sf, ok := source.Factor()
	if !ok {
		return 0, uerrors.New("UNIT-0004", map[string]any{"Unit": source.ID, "Category": category.Name})
	}
	tf, ok := target.Factor()
	if !ok {
		return 0, uerrors.New("UNIT-0004", map[string]any{"Unit": target.ID, "Category": category.Name})
	}

	result, _ := quotient(req.Value, sf, tf)
	return result, nil
}

// ConvertStrict converts with the default engine.
func ConvertStrict(req Request) (float64, error) {
	return defaultEngine.ConvertStrict(req)
}

func dimensionName(u Unit) string {
	if u.Dimension == "" {
		return "default"
	}
	return u.Dimension
}
