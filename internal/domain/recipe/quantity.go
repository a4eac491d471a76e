package recipe

import (
	"strconv"
	"strings"
)

// QuantityKind discriminates the Quantity union
type QuantityKind int

const (
	// QuantityUnknown means neither an amount nor a text was authored
	QuantityUnknown QuantityKind = iota
	// QuantityStructured is a numeric amount with a unit ("200", "g")
	QuantityStructured
	// QuantityFreeText is an opaque amount such as "少々" or "a pinch"
	QuantityFreeText
)

// String returns the kind name
func (k QuantityKind) String() string {
	switch k {
	case QuantityStructured:
		return "structured"
	case QuantityFreeText:
		return "free_text"
	default:
		return "unknown"
	}
}

// Quantity is the amount of an ingredient line. Exactly one variant is
// populated, selected by Kind.
type Quantity struct {
	kind   QuantityKind
	amount float64
	unit   string
	text   string
}

// Structured builds a numeric quantity
func Structured(amount float64, unit string) Quantity {
	return Quantity{kind: QuantityStructured, amount: amount, unit: strings.TrimSpace(unit)}
}

// FreeText builds a textual quantity; blank text yields Unknown
func FreeText(text string) Quantity {
	text = strings.TrimSpace(text)
	if text == "" {
		return Unknown()
	}
	return Quantity{kind: QuantityFreeText, text: text}
}

// Unknown builds a quantity with no information
func Unknown() Quantity {
	return Quantity{kind: QuantityUnknown}
}

// NewQuantity classifies raw nullable fields. A present amount wins and may
// carry an empty unit; otherwise non-blank text; otherwise Unknown.
func NewQuantity(amount *float64, unit, text *string) Quantity {
	if amount != nil {
		u := ""
		if unit != nil {
			u = *unit
		}
		return Structured(*amount, u)
	}
	if text != nil {
		return FreeText(*text)
	}
	return Unknown()
}

// Kind returns the active variant
func (q Quantity) Kind() QuantityKind {
	return q.kind
}

// IsStructured reports whether the quantity has a numeric amount
func (q Quantity) IsStructured() bool {
	return q.kind == QuantityStructured
}

// Amount returns the numeric amount; zero unless structured
func (q Quantity) Amount() float64 {
	return q.amount
}

// Unit returns the unit; empty unless structured
func (q Quantity) Unit() string {
	return q.unit
}

// Text returns the free text; empty unless free text
func (q Quantity) Text() string {
	return q.text
}

// String renders the quantity for display
func (q Quantity) String() string {
	switch q.kind {
	case QuantityStructured:
		return FormatAmount(q.amount) + q.unit
	case QuantityFreeText:
		return q.text
	default:
		return ""
	}
}

// FormatAmount prints an amount without trailing zeros
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
