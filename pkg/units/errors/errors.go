// Package errors provides structured error types for unit conversion.
//
// UnitError carries a stable code from a catalog, a rendered message and
// optional hints, so the same failure can be shown on a terminal, returned
// as JSON from the HTTP API or matched programmatically.
package errors

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and status mapping.
type ErrorClass string

const (
	ClassUndefined  ErrorClass = "undefined"  // Unknown unit or category
	ClassMismatch   ErrorClass = "mismatch"   // Units that cannot be converted into each other
	ClassValue      ErrorClass = "value"      // Non-numeric or non-finite values
	ClassValidation ErrorClass = "validation" // Rejected input to a store or API
	ClassLimit      ErrorClass = "limit"      // Request refused by a server limit
)

// UnitError represents a failed strict conversion or registry query.
type UnitError struct {
	Class   ErrorClass     `json:"class"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Hints   []string       `json:"hints,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *UnitError) Error() string {
	var sb strings.Builder
	if e.Code != "" {
		sb.WriteString(e.Code)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}
	return sb.String()
}

// ToJSON returns the error as JSON bytes.
func (e *UnitError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Is matches another *UnitError by code, so errors.Is(err, &UnitError{Code: "UNIT-0001"}) works.
func (e *UnitError) Is(target error) bool {
	t, ok := target.(*UnitError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass
	Template string   // Message template with {{.placeholders}}
	Hints    []string // Hint templates
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	"UNIT-0001": {
		Class:    ClassUndefined,
		Template: "unknown unit '{{.Unit}}'",
	},
	"UNIT-0002": {
		Class:    ClassMismatch,
		Template: "cannot convert {{.From}} ({{.FromCategory}}) to {{.To}} ({{.ToCategory}})",
		Hints:    []string{"choose a target unit from the {{.FromCategory}} category"},
	},
	"UNIT-0003": {
		Class:    ClassMismatch,
		Template: "cannot convert {{.From}} ({{.FromDimension}}) to {{.To}} ({{.ToDimension}}) within {{.Category}}",
	},
	"UNIT-0004": {
		Class:    ClassMismatch,
		Template: "unit '{{.Unit}}' in {{.Category}} has no numeric scale",
	},
	"UNIT-0005": {
		Class:    ClassValue,
		Template: "value {{.Value}} is not a finite number",
	},
	"UNIT-0006": {
		Class:    ClassValidation,
		Template: "missing {{.Field}} unit",
	},
	"CAT-0001": {
		Class:    ClassUndefined,
		Template: "unknown category '{{.Category}}'",
	},
	"PREF-0001": {
		Class:    ClassValidation,
		Template: "unit '{{.Unit}}' does not belong to category {{.Category}}",
	},
	"PREF-0002": {
		Class:    ClassValidation,
		Template: "panel id is required",
	},
	"PREF-0003": {
		Class:    ClassUndefined,
		Template: "no unit preference stored for panel '{{.Panel}}'",
	},
	"HTTP-0001": {
		Class:    ClassLimit,
		Template: "rate limit exceeded: {{.Limit}} requests per {{.Window}}",
		Hints:    []string{"retry after {{.Window}}"},
	},
}

// New creates a UnitError from the catalog.
func New(code string, data map[string]any) *UnitError {
	def, ok := ErrorCatalog[code]
	if !ok {
		msg := code
		if data != nil {
			if m, ok := data["message"].(string); ok {
				msg = m
			}
		}
		return &UnitError{
			Class:   ClassValue,
			Code:    code,
			Message: msg,
			Data:    data,
		}
	}

	var hints []string
	for _, hintTmpl := range def.Hints {
		if rendered := renderTemplate(hintTmpl, data); rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &UnitError{
		Class:   def.Class,
		Code:    code,
		Message: renderTemplate(def.Template, data),
		Hints:   hints,
		Data:    data,
	}
}

// NewSimple creates an error without using the catalog.
func NewSimple(class ErrorClass, message string) *UnitError {
	return &UnitError{
		Class:   class,
		Message: message,
	}
}

// NewUnknownUnit creates a UNIT-0001 error with a "did you mean" hint when
// one of the known ids is close enough.
func NewUnknownUnit(unit string, known []string) *UnitError {
	err := New("UNIT-0001", map[string]any{"Unit": unit})
	if suggestion := FindClosestMatch(unit, known); suggestion != "" {
		err.Hints = append(err.Hints, "Did you mean `"+suggestion+"`?")
	}
	return err
}

// NewUnknownCategory creates a CAT-0001 error with a "did you mean" hint.
func NewUnknownCategory(name string, known []string) *UnitError {
	err := New("CAT-0001", map[string]any{"Category": name})
	if suggestion := FindClosestMatch(name, known); suggestion != "" {
		err.Hints = append(err.Hints, "Did you mean `"+suggestion+"`?")
	}
	return err
}

func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}

	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}

// ============================================================================
// Fuzzy Matching - "Did you mean?" suggestions
// ============================================================================

func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// editThreshold scales the allowed edit distance with the input length.
func editThreshold(input string) int {
	switch {
	case len(input) >= 7:
		return 3
	case len(input) >= 4:
		return 2
	default:
		return 1
	}
}

// FindClosestMatch finds the closest candidate to input, ignoring case.
// Returns "" for exact matches or when nothing is within the threshold.
func FindClosestMatch(input string, candidates []string) string {
	if len(input) == 0 || len(candidates) == 0 {
		return ""
	}

	inputLower := strings.ToLower(input)

	var bestMatch string
	bestDistance := -1
	for _, candidate := range candidates {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if bestDistance == -1 || dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	if bestDistance <= 0 || bestDistance > editThreshold(input) {
		return ""
	}
	return bestMatch
}

// FindTopMatches returns up to n candidates within the threshold, closest first.
func FindTopMatches(input string, candidates []string, n int) []string {
	if len(input) == 0 || len(candidates) == 0 || n <= 0 {
		return nil
	}

	type match struct {
		value    string
		distance int
	}

	inputLower := strings.ToLower(input)
	var matches []match
	for _, candidate := range candidates {
		if dist := levenshteinDistance(inputLower, strings.ToLower(candidate)); dist > 0 {
			matches = append(matches, match{value: candidate, distance: dist})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	threshold := editThreshold(input)
	var result []string
	for i := 0; i < len(matches) && len(result) < n; i++ {
		if matches[i].distance <= threshold {
			result = append(result, matches[i].value)
		}
	}
	return result
}
