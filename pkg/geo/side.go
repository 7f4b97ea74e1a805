package geo

// Side identifies one of the four edges of a rectangle.
type Side int

// The four rectangle sides. Left is the zero value and doubles as the
// fallback when a direction cannot be determined.
const (
	Left Side = iota
	Right
	Top
	Bottom
)

// sideNames maps sides to their serialized form.
var sideNames = [...]string{"left", "right", "top", "bottom"}

// String returns the lowercase name of the side.
func (s Side) String() string {
	if s < Left || s > Bottom {
		return "left"
	}
	return sideNames[s]
}

// Opposite returns the geometrically opposite side.
func (s Side) Opposite() Side {
	switch s {
	case Left:
		return Right
	case Right:
		return Left
	case Top:
		return Bottom
	default:
		return Top
	}
}

// Horizontal reports whether the side is left or right.
func (s Side) Horizontal() bool { return s == Left || s == Right }

// horizontalBias widens the band in which a direction is classified as
// horizontal. A delta counts as horizontal-dominant when |dx| > |dy|*0.5,
// which favors left/right attachment on the typically wide canvas.
const horizontalBias = 0.5

// DirectionBetween classifies where the to rectangle sits relative to
// from, as seen from from's center: the result is the side of from that
// faces to. The opposite side is where to faces from, so an edge between
// the two leaves from's DirectionBetween side and enters the target
// through its Opposite.
//
// Rectangles with the same center classify as Left. Callers that cannot
// supply measured sizes should treat the result as "geometry not ready"
// rather than a meaningful direction.
func DirectionBetween(from, to Rect) Side {
	fc := from.Center()
	tc := to.Center()
	dx := tc.X - fc.X
	dy := tc.Y - fc.Y

	// Coincident centers (self-references, unplaced nodes) have no
	// direction; fall back to Left so self-edges stay on the vertical
	// sides.
	if dx == 0 && dy == 0 {
		return Left
	}

	if abs(dx) > abs(dy)*horizontalBias {
		if dx > 0 {
			return Right
		}
		return Left
	}
	if dy > 0 {
		return Bottom
	}
	return Top
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
