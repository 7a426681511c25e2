package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/posquery/pkg/integrations/odoo"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	detailBoxStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// =============================================================================
// ProductListModel - Interactive product browser
// =============================================================================

// ProductListModel is the bubbletea model for browsing search results.
// The table shows one row per product; the pane below it shows every field
// of the product under the cursor.
type ProductListModel struct {
	Title    string
	Products []odoo.Product
	Cursor   int
	Height   int
	Offset   int
}

// NewProductListModel creates a new product list model.
func NewProductListModel(title string, products []odoo.Product) ProductListModel {
	return ProductListModel{
		Title:    title,
		Products: products,
		Height:   10,
	}
}

func (m ProductListModel) Init() tea.Cmd {
	return nil
}

func (m ProductListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Products)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.Products)-1, 0)
		}
	case tea.WindowSizeMsg:
		// Leave room for the title, the help line, the table borders and the
		// detail pane.
		m.Height = max(msg.Height-16, 3)
	}
	m.scroll()
	return m, nil
}

// scroll keeps the cursor inside the visible window.
func (m *ProductListModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m ProductListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Products) == 0 {
		b.WriteString(listDimStyle.Render("No products found"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Products))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Products[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, p.DisplayCode(), p.DisplayName(), p.EffectivePrice().StringFixed(2)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Code", "Name", "POS Price").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			base := lipgloss.NewStyle()
			if col == 3 {
				base = base.Align(lipgloss.Right)
			}
			if m.Offset+row == m.Cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(m.detail(m.Products[m.Cursor]))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Products))))

	return b.String()
}

func (m ProductListModel) detail(p odoo.Product) string {
	lines := []string{
		styleKey.Render("Name") + " " + StyleValue.Render(p.DisplayName()),
		styleKey.Render("Code") + " " + StyleValue.Render(p.DisplayCode()),
		styleKey.Render("Retail") + " " + StylePrice.Render(p.DisplayListPrice()),
		styleKey.Render("Cost") + " " + StylePrice.Render(p.DisplayCostPrice()),
		styleKey.Render("POS") + " " + StylePrice.Render(p.DisplayPOSPrice()),
		styleKey.Render("ID") + " " + listDimStyle.Render(fmt.Sprint(p.ID)),
	}
	return detailBoxStyle.Render(strings.Join(lines, "\n"))
}
