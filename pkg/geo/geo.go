// Package geo provides the geometry primitives for diagram layout:
// points, sizes, rectangles, and the side classification used to decide
// where relationship edges attach to entity boxes.
//
// All coordinates are in diagram units (pixels in the rendered SVG),
// with the origin at the top-left and Y growing downward.
package geo

import "fmt"

// Point is a position in diagram coordinate space.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Size is the measured extent of a rectangle.
type Size struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Rect is a positioned, sized box. Position is the top-left corner.
type Rect struct {
	Position Point
	Size     Size
}

// NewRect constructs a rectangle from its top-left corner and extent.
func NewRect(x, y, width, height float64) Rect {
	return Rect{Position: Point{X: x, Y: y}, Size: Size{Width: width, Height: height}}
}

// Center returns the rectangle's center point.
func (r Rect) Center() Point {
	return Point{
		X: r.Position.X + r.Size.Width/2,
		Y: r.Position.Y + r.Size.Height/2,
	}
}

// SideMidpoint returns the midpoint of the given side of the rectangle.
func (r Rect) SideMidpoint(s Side) Point {
	switch s {
	case Left:
		return Point{X: r.Position.X, Y: r.Position.Y + r.Size.Height/2}
	case Right:
		return Point{X: r.Position.X + r.Size.Width, Y: r.Position.Y + r.Size.Height/2}
	case Top:
		return Point{X: r.Position.X + r.Size.Width/2, Y: r.Position.Y}
	default: // Bottom
		return Point{X: r.Position.X + r.Size.Width/2, Y: r.Position.Y + r.Size.Height}
	}
}

// PointOnSide returns the point at the given offset along a side,
// measured from the rectangle's top edge (left/right sides) or left
// edge (top/bottom sides).
func (r Rect) PointOnSide(s Side, offset float64) Point {
	switch s {
	case Left:
		return Point{X: r.Position.X, Y: r.Position.Y + offset}
	case Right:
		return Point{X: r.Position.X + r.Size.Width, Y: r.Position.Y + offset}
	case Top:
		return Point{X: r.Position.X + offset, Y: r.Position.Y}
	default: // Bottom
		return Point{X: r.Position.X + offset, Y: r.Position.Y + r.Size.Height}
	}
}

// SideLength returns the usable length of a side: height for left/right,
// width for top/bottom.
func (r Rect) SideLength(s Side) float64 {
	if s == Left || s == Right {
		return r.Size.Height
	}
	return r.Size.Width
}

// String formats the rectangle for debugging output.
func (r Rect) String() string {
	return fmt.Sprintf("{x: %.1f, y: %.1f, w: %.1f, h: %.1f}",
		r.Position.X, r.Position.Y, r.Size.Width, r.Size.Height)
}
