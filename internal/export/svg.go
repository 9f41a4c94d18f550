// Package export renders stored trajectories to standalone SVG files.
package export

import (
	"fmt"
	"strings"
)

// TrajectoryToSVG draws the (x, y) arc as a polyline with a ground line
// at y=0. Positions are fitted to the viewport with 10% padding.
func TrajectoryToSVG(xs, ys []float64, width, height int, strokeColor string) string {
	if len(xs) < 2 || len(xs) != len(ys) {
		return ""
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := 0.0, ys[0] // ground always in frame
	for i := range xs {
		if xs[i] < minX {
			minX = xs[i]
		}
		if xs[i] > maxX {
			maxX = xs[i]
		}
		if ys[i] < minY {
			minY = ys[i]
		}
		if ys[i] > maxY {
			maxY = ys[i]
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	toScreen := func(x, y float64) (float64, float64) {
		sx := (x - minX) / rangeX * float64(width)
		sy := float64(height) - (y-minY)/rangeY*float64(height)
		return sx, sy
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	gx0, gy := toScreen(minX, 0)
	gx1, _ := toScreen(maxX, 0)
	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#444444" stroke-width="1"/>
`, gx0, gy, gx1, gy))

	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))
	for i := range xs {
		sx, sy := toScreen(xs[i], ys[i])
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", sx, sy))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", sx, sy))
		}
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
