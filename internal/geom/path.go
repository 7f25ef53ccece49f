// Package geom holds the path geometry shared by chart models and rasters.
package geom

import (
	"math"
	"strconv"
	"strings"
)

// Point is a position in chart pixels
type Point struct {
	X, Y float64
}

// Op is a path command
type Op int

const (
	MoveTo Op = iota
	LineTo
	CubeTo
)

// Segment is one command. CubeTo uses all three points, the others only the last.
type Segment struct {
	Op  Op
	Pts [3]Point
}

// End returns the point a segment finishes at
func (s Segment) End() Point {
	if s.Op == CubeTo {
		return s.Pts[2]
	}
	return s.Pts[0]
}

// Path is a sequence of subpaths, each opened by MoveTo
type Path []Segment

func (p *Path) MoveTo(pt Point) { *p = append(*p, Segment{Op: MoveTo, Pts: [3]Point{pt}}) }

func (p *Path) LineTo(pt Point) { *p = append(*p, Segment{Op: LineTo, Pts: [3]Point{pt}}) }

func (p *Path) CubeTo(c1, c2, end Point) {
	*p = append(*p, Segment{Op: CubeTo, Pts: [3]Point{c1, c2, end}})
}

// SVG renders the path as the d attribute of an SVG path element
func (p Path) SVG() string {
	var b strings.Builder
	for i, s := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch s.Op {
		case MoveTo:
			b.WriteString("M ")
			writePoint(&b, s.Pts[0])
		case LineTo:
			b.WriteString("L ")
			writePoint(&b, s.Pts[0])
		case CubeTo:
			b.WriteString("C ")
			writePoint(&b, s.Pts[0])
			b.WriteByte(' ')
			writePoint(&b, s.Pts[1])
			b.WriteByte(' ')
			writePoint(&b, s.Pts[2])
		}
	}
	return b.String()
}

func writePoint(b *strings.Builder, pt Point) {
	b.WriteString(formatCoord(pt.X))
	b.WriteByte(' ')
	b.WriteString(formatCoord(pt.Y))
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Polylines flattens the path into one polyline per subpath, splitting each
// cubic into steps straight pieces.
func (p Path) Polylines(steps int) [][]Point {
	if steps < 1 {
		steps = 1
	}
	var lines [][]Point
	var cur []Point
	for _, s := range p {
		switch s.Op {
		case MoveTo:
			if len(cur) > 0 {
				lines = append(lines, cur)
			}
			cur = []Point{s.Pts[0]}
		case LineTo:
			cur = append(cur, s.Pts[0])
		case CubeTo:
			if len(cur) == 0 {
				cur = []Point{s.Pts[0]}
			}
			start := cur[len(cur)-1]
			for i := 1; i <= steps; i++ {
				cur = append(cur, cubic(start, s.Pts[0], s.Pts[1], s.Pts[2], float64(i)/float64(steps)))
			}
		}
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

func cubic(p0, p1, p2, p3 Point, t float64) Point {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// HasNaN reports whether any coordinate of the path is NaN
func (p Path) HasNaN() bool {
	for _, s := range p {
		for _, pt := range s.Pts {
			if math.IsNaN(pt.X) || math.IsNaN(pt.Y) {
				return true
			}
		}
	}
	return false
}
