package route

// Node sizing constants. EdgeSpacing must stay consistent with the
// distribution formula in anchorFor: a side carrying N edges spans its
// anchors across N+1 equal gaps, so the side needs (N+1)*EdgeSpacing of
// usable length before anchors start crowding.
const (
	// BaseHeight is the minimum rendered height of any entity box.
	BaseHeight = 72.0

	// EdgeSpacing is the guaranteed gap between adjacent anchors on a
	// fully loaded side.
	EdgeSpacing = 30.0
)

// MinHeight returns the minimum node height that keeps every anchor on
// the most loaded vertical side at least EdgeSpacing apart. Top and
// bottom counts do not constrain height; they spread across the width.
func MinHeight(counts SideCounts) float64 {
	pressure := counts.Left
	if counts.Right > pressure {
		pressure = counts.Right
	}
	h := float64(pressure+1) * EdgeSpacing
	if h < BaseHeight {
		return BaseHeight
	}
	return h
}
