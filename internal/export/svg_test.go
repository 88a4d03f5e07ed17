package export

import (
	"strings"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/san-kum/boatsim/internal/course"
	"github.com/san-kum/boatsim/internal/sim"
)

func TestCourseToSVG(t *testing.T) {
	gate := course.NewGate(r2.Point{X: 100, Y: 0}, 0, 20, 40)
	samples := []sim.Sample{{X: 0, Y: 0}, {X: 50, Y: 5}, {X: 130, Y: 0}}
	path := []r2.Point{{X: 0, Y: 0}, {X: 80, Y: 0}, {X: 140, Y: 0}}

	svg := CourseToSVG(samples, path, gate, 400, 200)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document:\n%s", svg)
	}
	if n := strings.Count(svg, "<path"); n != 2 {
		t.Errorf("expected 2 paths, got %d", n)
	}
	if n := strings.Count(svg, "<circle"); n != 4 {
		t.Errorf("expected 4 buoys, got %d", n)
	}
	if strings.Count(svg, redBuoy) != 2 || strings.Count(svg, greenBuoy) != 2 {
		t.Error("expected two buoys of each color")
	}
}

func TestCourseToSVGWithoutTrack(t *testing.T) {
	gate := course.NewGate(r2.Point{}, 0, 2, 4)
	svg := CourseToSVG(nil, nil, gate, 100, 100)

	if strings.Contains(svg, "<path") {
		t.Error("empty track and path should draw no lines")
	}
	if strings.Count(svg, "<circle") != 4 {
		t.Error("buoys missing")
	}
}

func TestProjectFlipsY(t *testing.T) {
	f := newFrame([]r2.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}, 120, 120)

	_, yLow := f.project(r2.Point{X: 0, Y: 0})
	_, yHigh := f.project(r2.Point{X: 0, Y: 10})
	if yHigh >= yLow {
		t.Errorf("higher world y should be nearer the top: %v vs %v", yHigh, yLow)
	}
}
