package export

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r2"

	"github.com/san-kum/boatsim/internal/course"
	"github.com/san-kum/boatsim/internal/sim"
)

const (
	trackColor = "#00ff00"
	pathColor  = "#5f87af"
	greenBuoy  = "#00d75f"
	redBuoy    = "#ff5f5f"
)

type frame struct {
	minX, minY, rangeX, rangeY float64
	width, height              int
}

func newFrame(points []r2.Point, width, height int) frame {
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
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
	minY -= rangeY * 0.1

	return frame{
		minX:   minX,
		minY:   minY,
		rangeX: rangeX * 1.2,
		rangeY: rangeY * 1.2,
		width:  width,
		height: height,
	}
}

// project flips y so north is up.
func (f frame) project(p r2.Point) (float64, float64) {
	x := (p.X - f.minX) / f.rangeX * float64(f.width)
	y := float64(f.height) - (p.Y-f.minY)/f.rangeY*float64(f.height)
	return x, y
}

func (f frame) polyline(sb *strings.Builder, pts []r2.Point, stroke, extra string) {
	if len(pts) < 2 {
		return
	}
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5"%s d="M`, stroke, extra))
	for i, p := range pts {
		x, y := f.project(p)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")
}

// CourseToSVG draws the sailed track, the reference path (may be empty)
// and the gate buoys on one auto-scaled canvas.
func CourseToSVG(samples []sim.Sample, path []r2.Point, gate course.Gate, width, height int) string {
	track := make([]r2.Point, len(samples))
	for i, s := range samples {
		track[i] = r2.Point{X: s.X, Y: s.Y}
	}

	all := append(append(append([]r2.Point{}, track...), path...), gate.Positions()...)
	f := newFrame(all, width, height)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	f.polyline(&sb, path, pathColor, ` stroke-dasharray="6 4"`)
	f.polyline(&sb, track, trackColor, "")

	for _, b := range gate.Buoys {
		color := greenBuoy
		if b.Color == course.Red {
			color = redBuoy
		}
		x, y := f.project(b.Position)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>
`, x, y, color))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
