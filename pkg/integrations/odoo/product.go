package odoo

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"
)

// ProductModel is the ERP entity holding sellable product variants.
const ProductModel = "product.product"

// Field names on [ProductModel].
const (
	FieldName           = "name"
	FieldCode           = "default_code"
	FieldListPrice      = "list_price"
	FieldCostPrice      = "standard_price"
	FieldPOSPrice       = "pos_price"
	FieldAvailableInPOS = "available_in_pos"
)

// Display fallbacks for unset product fields.
const (
	NotAvailable = "N/A"
	SameAsRetail = "Same as retail"
)

var productFields = []string{FieldName, FieldCode, FieldListPrice, FieldCostPrice, FieldPOSPrice}

// ProductFields returns the fields requested by every product search.
// The slice is a fresh copy on every call.
func ProductFields() []string {
	return append([]string(nil), productFields...)
}

// Product is a POS-eligible product as returned by a search.
//
// The ERP reports unset fields as false, and a field may be missing
// altogether when the server does not define it (pos_price is added by a
// POS module). Both cases decode to a nil pointer; display defaults are
// applied only by the Display* methods.
type Product struct {
	ID        int64            `json:"id"`
	Name      *string          `json:"name,omitempty"`
	Code      *string          `json:"default_code,omitempty"`
	ListPrice *decimal.Decimal `json:"list_price,omitempty"`
	CostPrice *decimal.Decimal `json:"standard_price,omitempty"`
	POSPrice  *decimal.Decimal `json:"pos_price,omitempty"`
}

// DisplayName returns the product name, or [NotAvailable].
func (p Product) DisplayName() string {
	if p.Name == nil {
		return NotAvailable
	}
	return *p.Name
}

// DisplayCode returns the internal reference, or [NotAvailable].
func (p Product) DisplayCode() string {
	if p.Code == nil {
		return NotAvailable
	}
	return *p.Code
}

// DisplayListPrice returns the retail price with two decimals, "0.00" if unset.
func (p Product) DisplayListPrice() string {
	return formatPrice(p.ListPrice)
}

// DisplayCostPrice returns the cost price with two decimals, "0.00" if unset.
func (p Product) DisplayCostPrice() string {
	return formatPrice(p.CostPrice)
}

// DisplayPOSPrice returns the POS override price, or [SameAsRetail] if the
// product has none.
func (p Product) DisplayPOSPrice() string {
	if p.POSPrice == nil {
		return SameAsRetail
	}
	return p.POSPrice.StringFixed(2)
}

// EffectivePrice is the price charged at the point of sale: the override
// price when set, otherwise the list price (zero if neither is set).
func (p Product) EffectivePrice() decimal.Decimal {
	switch {
	case p.POSPrice != nil:
		return *p.POSPrice
	case p.ListPrice != nil:
		return *p.ListPrice
	default:
		return decimal.Zero
	}
}

func formatPrice(d *decimal.Decimal) string {
	if d == nil {
		return decimal.Zero.StringFixed(2)
	}
	return d.StringFixed(2)
}

// DecodeProduct converts one record returned by the ERP into a Product.
//
// Decoding never fails: a missing key, a false value, an empty string or a
// value of an unexpected type leaves the corresponding field nil.
func DecodeProduct(rec map[string]any) Product {
	id, _ := toInt64(rec["id"])
	return Product{
		ID:        id,
		Name:      stringField(rec, FieldName),
		Code:      stringField(rec, FieldCode),
		ListPrice: decimalField(rec, FieldListPrice),
		CostPrice: decimalField(rec, FieldCostPrice),
		POSPrice:  decimalField(rec, FieldPOSPrice),
	}
}

func stringField(rec map[string]any, key string) *string {
	s, ok := rec[key].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func decimalField(rec map[string]any, key string) *decimal.Decimal {
	var d decimal.Decimal
	switch v := rec[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		d = decimal.NewFromFloat(v)
	case int64:
		d = decimal.NewFromInt(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case json.Number:
		parsed, err := decimal.NewFromString(v.String())
		if err != nil {
			return nil
		}
		d = parsed
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return nil
		}
		d = parsed
	default:
		return nil
	}
	return &d
}

// toInt64 converts the integer representations produced by the XML-RPC
// (int64) and JSON-RPC (float64) decoders.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}
