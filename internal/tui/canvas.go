package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/popover/internal/geom"
)

type cellKind int

const (
	kindEmpty cellKind = iota
	kindBox
	kindAnchor
	kindRegion
	kindPanel
	kindPointer
)

var cellStyles = map[cellKind]lipgloss.Style{
	kindEmpty:   lipgloss.NewStyle(),
	kindBox:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	kindAnchor:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	kindRegion:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	kindPanel:   lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")),
	kindPointer: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
}

// canvas is a grid of terminal cells covering the top-left of the document.
type canvas struct {
	cols, rows   int
	cellW, cellH float64
	runes        [][]rune
	kinds        [][]cellKind
}

func newCanvas(cols, rows int, cellW, cellH float64) *canvas {
	c := &canvas{cols: cols, rows: rows, cellW: cellW, cellH: cellH}
	c.runes = make([][]rune, rows)
	c.kinds = make([][]cellKind, rows)
	for y := range c.runes {
		c.runes[y] = []rune(strings.Repeat(" ", cols))
		c.kinds[y] = make([]cellKind, cols)
	}
	return c
}

// cellRange returns the half-open cell range [x0,x1)x[y0,y1) a rectangle
// covers, clipped to the canvas.
func (c *canvas) cellRange(r geom.Rect) (x0, y0, x1, y1 int, ok bool) {
	x0 = clamp(int(math.Floor(r.X/c.cellW)), 0, c.cols)
	y0 = clamp(int(math.Floor(r.Y/c.cellH)), 0, c.rows)
	x1 = clamp(int(math.Ceil(r.Right()/c.cellW)), 0, c.cols)
	y1 = clamp(int(math.Ceil(r.Bottom()/c.cellH)), 0, c.rows)
	return x0, y0, x1, y1, x0 < x1 && y0 < y1
}

func (c *canvas) set(x, y int, ch rune, k cellKind) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return
	}
	c.runes[y][x] = ch
	c.kinds[y][x] = k
}

func (c *canvas) fill(r geom.Rect, ch rune, k cellKind) {
	x0, y0, x1, y1, ok := c.cellRange(r)
	if !ok {
		return
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c.set(x, y, ch, k)
		}
	}
}

func (c *canvas) outline(r geom.Rect, k cellKind, label string) {
	x0, y0, x1, y1, ok := c.cellRange(r)
	if !ok {
		return
	}
	right, bottom := x1-1, y1-1
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if x != x0 && x != right && y != y0 && y != bottom {
				continue
			}
			c.set(x, y, borderRune(x == x0, x == right, y == y0, y == bottom), k)
		}
	}
	c.label(x0+1, y0, right-x0-1, label, k)
}

func (c *canvas) label(x, y, width int, text string, k cellKind) {
	for i, ch := range []rune(text) {
		if i >= width {
			return
		}
		c.set(x+i, y, ch, k)
	}
}

func borderRune(left, right, top, bottom bool) rune {
	switch {
	case top && left:
		return '┌'
	case top && right:
		return '┐'
	case bottom && left:
		return '└'
	case bottom && right:
		return '┘'
	case top || bottom:
		return '─'
	default:
		return '│'
	}
}

// center returns the document point at the centre of a cell.
func (c *canvas) center(col, row int) geom.Point {
	return geom.Point{
		X: (float64(col) + 0.5) * c.cellW,
		Y: (float64(row) + 0.5) * c.cellH,
	}
}

// render joins runs of equally styled cells row by row.
func (c *canvas) render() string {
	var b strings.Builder
	for y := 0; y < c.rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for x := 1; x <= c.cols; x++ {
			if x < c.cols && c.kinds[y][x] == c.kinds[y][start] {
				continue
			}
			b.WriteString(cellStyles[c.kinds[y][start]].Render(string(c.runes[y][start:x])))
			start = x
		}
	}
	return b.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
