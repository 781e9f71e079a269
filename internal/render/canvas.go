// Package render draws recorded trajectories, either as Braille
// canvases for the terminal or as standalone SVG paths.
package render

import "strings"

// Braille patterns pack 2x4 dots per character cell, offset 0x2800.
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a monochrome dot grid with a sub-pixel resolution of
// (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		grid:   make([][]rune, h),
	}
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
		for j := range c.grid[i] {
			c.grid[i][j] = 0x2800
		}
	}
	return c
}

// Set lights the dot at sub-pixel coordinates (x, y). Out-of-range
// coordinates are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.grid {
		for j := range c.grid[i] {
			c.grid[i][j] = 0x2800
		}
	}
}

// DrawLine rasterizes a segment in sub-pixel coordinates with
// Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// TracePath plots the polyline (xs, ys) onto a fresh canvas, scaled to
// fill it with a 10% margin. The y axis points up, matching the physical
// convention rather than the screen one.
func TracePath(w, h int, xs, ys []float64) *Canvas {
	c := NewCanvas(w, h)
	if len(xs) < 2 || len(xs) != len(ys) {
		return c
	}

	minX, maxX := bounds(xs)
	minY, maxY := bounds(ys)

	spanX := pad(&minX, &maxX)
	spanY := pad(&minY, &maxY)

	subW := float64(w*2 - 1)
	subH := float64(h*4 - 1)

	px := func(i int) (int, int) {
		x := (xs[i] - minX) / spanX * subW
		y := subH - (ys[i]-minY)/spanY*subH
		return int(x + 0.5), int(y + 0.5)
	}

	x0, y0 := px(0)
	for i := 1; i < len(xs); i++ {
		x1, y1 := px(i)
		c.DrawLine(x0, y0, x1, y1)
		x0, y0 = x1, y1
	}
	return c
}

func bounds(vals []float64) (lo, hi float64) {
	lo, hi = vals[0], vals[0]
	for _, v := range vals {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// pad widens [lo, hi] by 10% on each side and returns the new span,
// guarding against a degenerate zero range.
func pad(lo, hi *float64) float64 {
	span := *hi - *lo
	if span == 0 {
		span = 1
	}
	*lo -= span * 0.1
	*hi += span * 0.1
	return *hi - *lo
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
