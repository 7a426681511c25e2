package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/posquery/pkg/errors"
	"github.com/matzehuels/posquery/pkg/integrations/odoo"
)

func testProducts() []odoo.Product {
	return []odoo.Product{
		odoo.DecodeProduct(map[string]any{"id": int64(2), "name": "Office Chair", "default_code": "FURN-0001", "list_price": 120.5, "standard_price": 70.0, "pos_price": 99.9}),
		odoo.DecodeProduct(map[string]any{"id": int64(6), "name": "Gift Card", "default_code": false, "list_price": 25.0}),
	}
}

func TestWriteCards(t *testing.T) {
	var buf bytes.Buffer
	if err := writeProducts(&buf, formatCard, testProducts()); err != nil {
		t.Fatalf("writeProducts() error: %v", err)
	}

	want := `Product Code: FURN-0001
Name: Office Chair
Retail Price: 120.50
POS Price: 99.90
---
Product Code: N/A
Name: Gift Card
Retail Price: 25.00
POS Price: Same as retail
---
`
	if buf.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteCardDefaults(t *testing.T) {
	var buf bytes.Buffer
	if err := writeCard(&buf, odoo.Product{}); err != nil {
		t.Fatalf("writeCard() error: %v", err)
	}
	want := "Product Code: N/A\nName: N/A\nRetail Price: 0.00\nPOS Price: Same as retail\n---\n"
	if buf.String() != want {
		t.Errorf("writeCard() = %q, want %q", buf.String(), want)
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := writeProducts(&buf, formatTable, testProducts()); err != nil {
		t.Fatalf("writeProducts() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Code", "Name", "Retail", "Cost", "POS", "FURN-0001", "Office Chair", "70.00", "N/A", "Same as retail"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeProducts(&buf, formatJSON, nil); err != nil {
		t.Fatalf("writeProducts() error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty JSON = %q, want []", buf.String())
	}

	buf.Reset()
	if err := writeProducts(&buf, formatJSON, testProducts()[:1]); err != nil {
		t.Fatalf("writeProducts() error: %v", err)
	}
	if !strings.Contains(buf.String(), `"pos_price": "99.9"`) {
		t.Errorf("JSON = %s", buf.String())
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range outputFormats {
		if err := validateFormat(f); err != nil {
			t.Errorf("validateFormat(%q) error: %v", f, err)
		}
	}
	if err := validateFormat("yaml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("validateFormat(yaml) = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
	if err := writeProducts(&bytes.Buffer{}, "yaml", nil); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("writeProducts(yaml) = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}
