package units

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Request is a single conversion. An empty Source or Target means the unit
// is absent, which is a valid request that resolves to a zero factor.
type Request struct {
	Value  float64 `json:"value"`
	Source string  `json:"from,omitempty"`
	Target string  `json:"to,omitempty"`
}

// Outcome describes how a fail-soft conversion was resolved.
type Outcome string

const (
	OutcomeConverted        Outcome = "converted"
	OutcomeBoolean          Outcome = "boolean"
	OutcomeUnresolvedSource Outcome = "unresolved_source"
	OutcomeUnresolvedTarget Outcome = "unresolved_target"
	OutcomeNotANumber       Outcome = "not_a_number"
)

// Observer receives the outcome of every Convert call. Implementations must
// be safe for concurrent use.
type Observer interface {
	ObserveConversion(req Request, outcome Outcome)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(req Request, outcome Outcome)

// ObserveConversion calls f(req, outcome).
func (f ObserverFunc) ObserveConversion(req Request, outcome Outcome) { f(req, outcome) }

// resolutionOrder is the fixed priority in which Convert searches category
// tables for a factor.
var resolutionOrder = []CategoryName{Data, Time, DataRate, Miscellaneous, Throughput}

// Engine converts values between units of a registry. An Engine holds only
// immutable configuration and is safe for concurrent use.
type Engine struct {
	registry       *Registry
	legacyFallback bool
	observer       Observer
	logger         *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLegacyTargetFallback reproduces the historical target resolution, in
// which the last fallback step looks the *source* unit up in the Throughput
// table instead of the target unit. Only enable it where results must match
// values that were computed that way.
func WithLegacyTargetFallback() EngineOption {
	return func(e *Engine) { e.legacyFallback = true }
}

// WithObserver registers an observer for conversion outcomes.
func WithObserver(o Observer) EngineOption {
	return func(e *Engine) { e.observer = o }
}

// WithLogger sets the logger used for debug output on fallbacks.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an engine over r. A nil registry means the default one.
func NewEngine(r *Registry, opts ...EngineOption) *Engine {
	if r == nil {
		r = defaultRegistry
	}
	e := &Engine{registry: r, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine(nil)

// Convert converts with the default engine.
func Convert(req Request) float64 {
	return defaultEngine.Convert(req)
}

// Registry returns the registry the engine reads from.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// LegacyTargetFallback reports whether the engine reproduces the historical
// target resolution.
func (e *Engine) LegacyTargetFallback() bool {
	return e.legacyFallback
}

// Convert returns req.Value expressed in req.Target. It never fails:
//   - a Boolean source unit yields 1, whatever the value and target;
//   - an unresolved unit is treated as a zero factor;
//   - a zero divisor or a non-finite value yields 0.
//
// Source and target are resolved independently against the Data, Time,
// DataRate, Miscellaneous and Throughput tables, in that order. No category
// check is made between them.
func (e *Engine) Convert(req Request) float64 {
	if e.isBoolean(req.Source) {
		e.observe(req, OutcomeBoolean)
		return 1
	}

	source, sourceOK := e.resolve(req.Source)
	target, targetOK := e.resolveTarget(req)

	result, ok := quotient(req.Value, source, target)
	switch {
	case !sourceOK:
		e.logger.Debug("unresolved source unit", zap.String("source", req.Source), zap.String("target", req.Target))
		e.observe(req, OutcomeUnresolvedSource)
	case !targetOK:
		e.logger.Debug("unresolved target unit", zap.String("source", req.Source), zap.String("target", req.Target))
		e.observe(req, OutcomeUnresolvedTarget)
	case !ok:
		e.observe(req, OutcomeNotANumber)
	default:
		e.observe(req, OutcomeConverted)
	}
	if !ok {
		return 0
	}
	return result
}

func (e *Engine) isBoolean(id string) bool {
	if id == "" {
		return false
	}
	_, ok := e.registry.Lookup(Boolean, id)
	return ok
}

// resolve searches the resolution tables for id and returns the first factor.
func (e *Engine) resolve(id string) (Factor, bool) {
	if id == "" {
		return Factor{}, false
	}
	for _, category := range resolutionOrder {
		if f, ok := e.registry.factorIn(category, id); ok {
			return f, true
		}
	}
	return Factor{}, false
}

// resolveTarget resolves the target factor. In legacy mode the final
// Throughput step is keyed by the source unit.
func (e *Engine) resolveTarget(req Request) (Factor, bool) {
	last := len(resolutionOrder) - 1
	if req.Target != "" {
		for _, category := range resolutionOrder[:last] {
			if f, ok := e.registry.factorIn(category, req.Target); ok {
				return f, true
			}
		}
	}
	key := req.Target
	if e.legacyFallback {
		key = req.Source
	}
	if key == "" {
		return Factor{}, false
	}
	return e.registry.factorIn(resolutionOrder[last], key)
}

func (e *Engine) observe(req Request, outcome Outcome) {
	if e.observer != nil {
		e.observer.ObserveConversion(req, outcome)
	}
}

// quotient computes value * source / target exactly and coerces to float64
// once. A missing factor is a zero factor. ok is false when the result is
// not a number.
func quotient(value float64, source, target Factor) (float64, bool) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	if target.IsZero() {
		return 0, false
	}
	if source.IsZero() {
		return 0, true
	}

	// value * (sn/sd) / (tn/td) = (value * sn * td) / (sd * tn)
	num := decimal.NewFromFloat(value).Mul(source.num).Mul(target.den)
	den := source.den.Mul(target.num)

	q := new(big.Rat).Quo(num.Rat(), den.Rat())
	f, _ := q.Float64()
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
