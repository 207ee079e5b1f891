package units

import "golang.org/x/text/currency"

// CategoryName identifies one of the fixed unit categories.
type CategoryName string

// Category names, in registry declaration order.
const (
	Time          CategoryName = "Time"
	Throughput    CategoryName = "Throughput"
	Data          CategoryName = "Data"
	DataRate      CategoryName = "DataRate"
	HashRate      CategoryName = "HashRate"
	Miscellaneous CategoryName = "Miscellaneous"
	Acceleration  CategoryName = "Acceleration"
	Angle         CategoryName = "Angle"
	Area          CategoryName = "Area"
	Computation   CategoryName = "Computation"
	Concentration CategoryName = "Concentration"
	Currency      CategoryName = "Currency"
	Datetime      CategoryName = "Datetime"
	Energy        CategoryName = "Energy"
	Flow          CategoryName = "Flow"
	Force         CategoryName = "Force"
	Mass          CategoryName = "Mass"
	Length        CategoryName = "Length"
	Pressure      CategoryName = "Pressure"
	Radiation     CategoryName = "Radiation"
	RotationSpeed CategoryName = "RotationSpeed"
	Temperature   CategoryName = "Temperature"
	Velocity      CategoryName = "Velocity"
	Volume        CategoryName = "Volume"
	Boolean       CategoryName = "Boolean"
)

func (n CategoryName) String() string { return string(n) }

// Category is an ordered group of units sharing one base unit.
// Unit order is display order only.
type Category struct {
	Name  CategoryName
	Units []Unit
}

// Unit is a single entry of a category table.
type Unit struct {
	ID    string // stable identifier, the external contract key
	Label string // display only

	// Dimension separates quantities that share a category but not a base,
	// e.g. "current" and "voltage" inside Energy. Empty for the category's
	// primary dimension. Factors are relative to the dimension base.
	Dimension string

	// Currency is the ISO 4217 code for Currency units that have one.
	Currency string

	factor Factor
}

// Factor returns the unit's scale factor. ok is false for units that have
// no numeric base (Boolean, Datetime, Temperature, string-like formats).
func (u Unit) Factor() (f Factor, ok bool) {
	if u.factor.IsZero() {
		return Factor{}, false
	}
	return u.factor, true
}

// CurrencyUnit returns the ISO 4217 currency of a Currency unit.
func (u Unit) CurrencyUnit() (currency.Unit, bool) {
	if u.Currency == "" {
		return currency.Unit{}, false
	}
	cu, err := currency.ParseISO(u.Currency)
	if err != nil {
		return currency.Unit{}, false
	}
	return cu, true
}

// SelectOption is a label/value pair for populating a unit menu.
type SelectOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
