package odoo

import (
	"fmt"
	"strings"
)

// Operator is a comparison operator understood by the ERP's query service.
type Operator string

const (
	// OpEqual matches values exactly.
	OpEqual Operator = "="

	// OpILike matches a case-insensitive substring.
	OpILike Operator = "ilike"
)

// Predicate is a single (field, operator, value) filter term.
type Predicate struct {
	Field    string
	Operator Operator
	Value    any
}

// Triple returns the predicate in wire form: [field, operator, value].
func (p Predicate) Triple() []any {
	return []any{p.Field, string(p.Operator), p.Value}
}

func (p Predicate) String() string {
	return fmt.Sprintf("(%q, %q, %#v)", p.Field, p.Operator, p.Value)
}

// Domain is an ordered filter expression. The server combines its
// predicates with an implicit logical AND.
type Domain []Predicate

// Args returns the domain in wire form, a list of triples.
func (d Domain) Args() []any {
	out := make([]any, len(d))
	for i, p := range d {
		out[i] = p.Triple()
	}
	return out
}

func (d Domain) String() string {
	parts := make([]string, len(d))
	for i, p := range d {
		parts[i] = p.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// POSEligible restricts a search to products that may be sold through the
// point of sale. Every product domain starts with it.
var POSEligible = Predicate{Field: FieldAvailableInPOS, Operator: OpEqual, Value: true}

// ProductQuery holds the optional constraints of a product search.
// An empty field means "no constraint on that field".
type ProductQuery struct {
	Code string // Substring of the internal reference (default_code)
	Name string // Substring of the display name
}

// ProductDomain builds the filter for q.
//
// The result always starts with [POSEligible]. A case-insensitive substring
// predicate on the code, then on the name, is appended for each non-empty
// constraint, in that order. Values are passed through unmodified.
func ProductDomain(q ProductQuery) Domain {
	d := Domain{POSEligible}
	if q.Code != "" {
		d = append(d, Predicate{Field: FieldCode, Operator: OpILike, Value: q.Code})
	}
	if q.Name != "" {
		d = append(d, Predicate{Field: FieldName, Operator: OpILike, Value: q.Name})
	}
	return d
}
