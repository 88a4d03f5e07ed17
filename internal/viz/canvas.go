package viz

import (
	"math"
	"strings"

	"github.com/golang/geo/r2"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
	overlay       map[[2]int]string
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:   w,
		Height:  h,
		Grid:    make([][]rune, h),
		overlay: make(map[[2]int]string),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// Set lights the dot at (x, y) in sub-pixel coordinates. The canvas is
// Width*2 by Height*4 sub-pixels.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

// Unset clears a dot
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	mask := ^rune(pixelMap[subY][subX])
	c.Grid[row][col] &= mask
	if c.Grid[row][col] < 0x2800 {
		c.Grid[row][col] = 0x2800
	}
}

func (c *Canvas) PixelWidth() int  { return c.Width * 2 }
func (c *Canvas) PixelHeight() int { return c.Height * 4 }

// Overlay replaces the cell holding sub-pixel (x, y) with glyph, which may
// carry ANSI styling.
func (c *Canvas) Overlay(x, y int, glyph string) {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return
	}
	c.overlay[[2]int{y / 4, x / 2}] = glyph
}

// Clear blanks every cell
func (c *Canvas) Clear() {
	clear(c.overlay)
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine is Bresenham between two sub-pixels.
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
	for i, row := range c.Grid {
		for j, r := range row {
			if g, ok := c.overlay[[2]int{i, j}]; ok {
				b.WriteString(g)
				continue
			}
			b.WriteRune(r)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps world coordinates onto canvas sub-pixels. Scale is
// sub-pixels per world unit; world y grows upward, screen y downward.
type Viewport struct {
	Center r2.Point
	Scale  float64
	Width  int
	Height int
}

// FitViewport frames pts with a margin fraction on every side.
func FitViewport(pts []r2.Point, width, height int, margin float64) Viewport {
	v := Viewport{Scale: 1, Width: width, Height: height}
	if len(pts) == 0 {
		return v
	}

	rect := r2.RectFromPoints(pts...)
	v.Center = rect.Center()

	size := rect.Size()
	spanX := math.Max(size.X, 1) * (1 + 2*margin)
	spanY := math.Max(size.Y, 1) * (1 + 2*margin)
	v.Scale = math.Min(float64(width)/spanX, float64(height)/spanY)
	return v
}

func (v Viewport) ToPixel(p r2.Point) (int, int) {
	x := (p.X-v.Center.X)*v.Scale + float64(v.Width)/2
	y := float64(v.Height)/2 - (p.Y-v.Center.Y)*v.Scale
	return int(math.Round(x)), int(math.Round(y))
}

func (v Viewport) ToWorld(x, y int) r2.Point {
	return r2.Point{
		X: v.Center.X + (float64(x)-float64(v.Width)/2)/v.Scale,
		Y: v.Center.Y - (float64(y)-float64(v.Height)/2)/v.Scale,
	}
}

func (c *Canvas) Plot(v Viewport, p r2.Point) {
	x, y := v.ToPixel(p)
	c.Set(x, y)
}

func (c *Canvas) Line(v Viewport, a, b r2.Point) {
	x0, y0 := v.ToPixel(a)
	x1, y1 := v.ToPixel(b)
	c.DrawLine(x0, y0, x1, y1)
}

// Polyline connects pts in order; closed joins the last back to the first.
func (c *Canvas) Polyline(v Viewport, pts []r2.Point, closed bool) {
	for i := 1; i < len(pts); i++ {
		c.Line(v, pts[i-1], pts[i])
	}
	if closed && len(pts) > 2 {
		c.Line(v, pts[len(pts)-1], pts[0])
	}
}

// Ring draws a circle of radius r sub-pixels around p.
func (c *Canvas) Ring(v Viewport, p r2.Point, r int) {
	cx, cy := v.ToPixel(p)
	for a := 0; a < 16; a++ {
		th := float64(a) * math.Pi / 8
		c.Set(cx+int(math.Round(float64(r)*math.Cos(th))), cy+int(math.Round(float64(r)*math.Sin(th))))
	}
}
