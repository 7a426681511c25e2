package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/posquery/pkg/errors"
	"github.com/matzehuels/posquery/pkg/integrations/odoo"
)

// Output formats for product listings.
const (
	formatCard  = "card"
	formatTable = "table"
	formatJSON  = "json"
)

var outputFormats = []string{formatCard, formatTable, formatJSON}

// cardSeparator ends every product card.
const cardSeparator = "---"

func validateFormat(format string) error {
	if !slices.Contains(outputFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want %s)", format, strings.Join(outputFormats, ", "))
	}
	return nil
}

// writeProducts renders products to w in the given format.
func writeProducts(w io.Writer, format string, products []odoo.Product) error {
	switch format {
	case formatCard:
		return writeCards(w, products)
	case formatTable:
		return writeTable(w, products)
	case formatJSON:
		return writeJSON(w, products)
	default:
		return validateFormat(format)
	}
}

// writeCards prints one plain-text block per product:
//
//	Product Code: FURN-0001
//	Name: Office Chair
//	Retail Price: 120.50
//	POS Price: 99.90
//	---
func writeCards(w io.Writer, products []odoo.Product) error {
	for _, p := range products {
		if err := writeCard(w, p); err != nil {
			return err
		}
	}
	return nil
}

func writeCard(w io.Writer, p odoo.Product) error {
	_, err := fmt.Fprintf(w, "Product Code: %s\nName: %s\nRetail Price: %s\nPOS Price: %s\n%s\n",
		p.DisplayCode(), p.DisplayName(), p.DisplayListPrice(), p.DisplayPOSPrice(), cardSeparator)
	return err
}

func writeTable(w io.Writer, products []odoo.Product) error {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	priceStyle := cellStyle.Align(lipgloss.Right)

	rows := make([][]string, len(products))
	for i, p := range products {
		rows[i] = []string{p.DisplayCode(), p.DisplayName(), p.DisplayListPrice(), p.DisplayCostPrice(), p.DisplayPOSPrice()}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Code", "Name", "Retail", "Cost", "POS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col >= 2:
				return priceStyle
			default:
				return cellStyle
			}
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func writeJSON(w io.Writer, products []odoo.Product) error {
	if products == nil {
		products = []odoo.Product{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(products)
}
