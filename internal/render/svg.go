package render

import (
	"fmt"
	"strings"
)

// PathSVG renders the polyline (xs, ys) as a standalone SVG document.
// The path is scaled to the viewport with a 10% margin; y points up.
// Fewer than two points yields an empty string.
func PathSVG(xs, ys []float64, width, height int, stroke string) string {
	if len(xs) < 2 || len(xs) != len(ys) {
		return ""
	}

	minX, maxX := bounds(xs)
	minY, maxY := bounds(ys)
	spanX := pad(&minX, &maxX)
	spanY := pad(&minY, &maxY)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, stroke))

	for i := range xs {
		x := (xs[i] - minX) / spanX * float64(width)
		y := float64(height) - (ys[i]-minY)/spanY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString("\"/>\n</svg>")
	return sb.String()
}
