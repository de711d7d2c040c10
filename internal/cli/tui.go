package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/albumgrid/pkg/album"
	"github.com/matzehuels/albumgrid/pkg/grouped"
	"github.com/matzehuels/albumgrid/pkg/render"
)

// Preview styles
var (
	previewDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	previewErrStyle = lipgloss.NewStyle().Foreground(colorRed)

	tileColors = []lipgloss.Color{"30", "67", "96", "137", "65", "131", "60", "101"}
)

const (
	widthStep   = 10.0
	spacingStep = 1.0

	defaultTermWidth  = 80
	defaultTermHeight = 24
)

// =============================================================================
// PreviewModel - Interactive layout preview
// =============================================================================

// PreviewModel is the bubbletea model for the interactive layout preview.
type PreviewModel struct {
	Album       *album.Album
	Constraints grouped.Constraints
	Result      grouped.Result
	Err         error
	ShowTable   bool
	Width       int
	Height      int

	initial grouped.Constraints
}

// NewPreviewModel creates a preview model and computes the first layout.
func NewPreviewModel(a *album.Album, c grouped.Constraints) PreviewModel {
	m := PreviewModel{
		Album:       a,
		Constraints: c,
		initial:     c,
		Width:       defaultTermWidth,
		Height:      defaultTermHeight,
	}
	m.relayout()
	return m
}

// Changed reports whether the constraints differ from the initial ones.
func (m PreviewModel) Changed() bool { return m.Constraints != m.initial }

func (m *PreviewModel) relayout() {
	m.Result, m.Err = grouped.Compute(m.Album.Sizes(), m.Constraints)
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		c := &m.Constraints
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			c.MaxWidth = math.Max(c.MinWidth, c.MaxWidth-widthStep)
		case "right", "l":
			c.MaxWidth += widthStep
		case "down", "j":
			c.MinWidth = math.Max(0, c.MinWidth-widthStep)
		case "up", "k":
			c.MinWidth = math.Min(c.MaxWidth, c.MinWidth+widthStep)
		case "+", "=":
			c.Spacing += spacingStep
		case "-", "_":
			c.Spacing = math.Max(0, c.Spacing-spacingStep)
		case "t":
			m.ShowTable = !m.ShowTable
			return m, nil
		case "r":
			m.Constraints = m.initial
		default:
			return m, nil
		}
		m.relayout()
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
	}
	return m, nil
}

func (m PreviewModel) View() string {
	var b strings.Builder

	title := "Preview"
	if m.Album.Name != "" {
		title += " · " + m.Album.Name
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(previewDimStyle.Render("←/→ width  ↑/↓ min width  +/- spacing  t table  r reset  q quit"))
	b.WriteString("\n\n")

	c := m.Constraints
	b.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s\n",
		previewDimStyle.Render("max"), StyleNumber.Render(strconv.FormatFloat(c.MaxWidth, 'f', -1, 64)),
		previewDimStyle.Render("min"), StyleNumber.Render(strconv.FormatFloat(c.MinWidth, 'f', -1, 64)),
		previewDimStyle.Render("spacing"), StyleNumber.Render(strconv.FormatFloat(c.Spacing, 'f', -1, 64))))

	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(previewErrStyle.Render(m.Err.Error()))
		b.WriteString("\n")
		return b.String()
	}

	r := m.Result
	b.WriteString(previewDimStyle.Render(fmt.Sprintf("%s · %gx%g", r.Strategy, r.Width, r.Height)))
	b.WriteString("\n\n")

	if m.ShowTable {
		b.WriteString(tileTable(r))
	} else {
		cols, rows := canvasSize(m.Width, m.Height)
		b.WriteString(drawGrid(r, cols, rows))
	}
	b.WriteString("\n")
	return b.String()
}

// canvasSize returns the cell budget for the grid given the terminal size.
func canvasSize(termW, termH int) (cols, rows int) {
	return max(termW-2, 10), max(termH-9, 4)
}

// =============================================================================
// Rendering
// =============================================================================

// rasterize maps every terminal cell to the index of the tile covering its
// center, or -1 for gaps. Cells are twice as tall as they are wide. The scale
// is chosen so the whole group fits in cols x maxRows.
func rasterize(res grouped.Result, cols, maxRows int) [][]int {
	if len(res.Items) == 0 || res.Width <= 0 || res.Height <= 0 || cols <= 0 || maxRows <= 0 {
		return nil
	}
	scale := math.Max(res.Width/float64(cols), res.Height/(2*float64(maxRows)))
	w := int(math.Ceil(res.Width / scale))
	h := int(math.Ceil(res.Height / (2 * scale)))

	grid := make([][]int, h)
	for row := range grid {
		grid[row] = make([]int, w)
		y := (float64(row) + 0.5) * 2 * scale
		for col := range grid[row] {
			x := (float64(col) + 0.5) * scale
			grid[row][col] = -1
			for i, it := range res.Items {
				g := it.Geometry
				if x >= g.X && x < g.Right() && y >= g.Y && y < g.Bottom() {
					grid[row][col] = i
					break
				}
			}
		}
	}
	return grid
}

// drawGrid renders the rasterized layout with one color per tile and the
// tile index in the first cell of each tile.
func drawGrid(res grouped.Result, cols, maxRows int) string {
	grid := rasterize(res, cols, maxRows)
	labeled := make(map[int]bool)

	var b strings.Builder
	for _, row := range grid {
		for _, idx := range row {
			if idx < 0 {
				b.WriteByte(' ')
				continue
			}
			cell := " "
			if !labeled[idx] {
				labeled[idx] = true
				cell = strconv.Itoa(idx % 10)
			}
			style := lipgloss.NewStyle().
				Background(tileColors[idx%len(tileColors)]).
				Foreground(colorWhite)
			b.WriteString(style.Render(cell))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// tileTable renders the tile geometry as a table.
func tileTable(res grouped.Result) string {
	rows := make([][]string, len(res.Items))
	for i, it := range res.Items {
		g := it.Geometry
		rows[i] = []string{
			strconv.Itoa(i),
			fmt.Sprintf("%g,%g", g.X, g.Y),
			fmt.Sprintf("%gx%g", g.Width, g.Height),
			it.Sides.String(),
			render.Corners(it.Sides).String(),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Origin", "Size", "Sides", "Corners").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(tileColors[row%len(tileColors)]).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return t.Render()
}
