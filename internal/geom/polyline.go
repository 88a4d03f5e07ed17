package geom

import (
	"math"

	"github.com/golang/geo/r2"
)

// Polyline is an ordered list of vertices joined by straight segments.
type Polyline []r2.Point

// Projection locates a point on a polyline by segment index and the
// parameter t in [0, 1] along that segment.
type Projection struct {
	Point   r2.Point
	Segment int
	T       float64
}

// NewPolyline copies pts so later edits by the caller do not move the path.
func NewPolyline(pts []r2.Point) Polyline {
	out := make(Polyline, len(pts))
	copy(out, pts)
	return out
}

// Length is the total arc length.
func (pl Polyline) Length() float64 {
	total := 0.0
	for i := 0; i+1 < len(pl); i++ {
		total += pl[i+1].Sub(pl[i]).Norm()
	}
	return total
}

// ClosestPointOnSegment projects p onto segment ab. A degenerate segment
// returns a with t = 0.
func ClosestPointOnSegment(p, a, b r2.Point) (r2.Point, float64) {
	ab := b.Sub(a)
	ab2 := ab.Dot(ab)
	if ab2 == 0 {
		return a, 0
	}
	t := Clamp(p.Sub(a).Dot(ab)/ab2, 0, 1)
	return a.Add(ab.Mul(t)), t
}

// Closest returns the point of the polyline nearest to p. Segments are
// scanned in order and only a strictly smaller distance replaces the best
// candidate, so the earliest segment wins ties.
func (pl Polyline) Closest(p r2.Point) Projection {
	if len(pl) == 0 {
		return Projection{}
	}
	best := Projection{Point: pl[0]}
	bestD2 := math.Inf(1)
	for i := 0; i+1 < len(pl); i++ {
		c, t := ClosestPointOnSegment(p, pl[i], pl[i+1])
		d := p.Sub(c)
		if d2 := d.Dot(d); d2 < bestD2 {
			bestD2 = d2
			best = Projection{Point: c, Segment: i, T: t}
		}
	}
	return best
}

// Advance walks distance along the polyline starting at (seg, t).
// Zero-length segments are skipped. Running off the end clamps to the last
// vertex.
func (pl Polyline) Advance(seg int, t, distance float64) Projection {
	if distance <= 0 && seg >= 0 && seg < len(pl)-1 {
		a, b := pl[seg], pl[seg+1]
		return Projection{Point: a.Add(b.Sub(a).Mul(t)), Segment: seg, T: t}
	}
	i := seg
	for distance > 0 && i < len(pl)-1 {
		a, b := pl[i], pl[i+1]
		ab := b.Sub(a)
		segLen := ab.Norm()
		if segLen == 0 {
			i++
			t = 0
			continue
		}
		rem := (1 - t) * segLen
		if distance <= rem {
			nt := t + distance/segLen
			return Projection{Point: a.Add(ab.Mul(nt)), Segment: i, T: nt}
		}
		distance -= rem
		i++
		t = 0
	}
	if len(pl) == 0 {
		return Projection{}
	}
	last := len(pl) - 2
	if last < 0 {
		last = 0
	}
	return Projection{Point: pl[len(pl)-1], Segment: last, T: 1}
}
