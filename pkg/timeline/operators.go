package timeline

// Interval relations between two slices. Every comparison is widened by eps.

// IsBeforeMe reports whether other lies entirely at or before the start of me.
func IsBeforeMe(me, other Slice, eps float64) bool {
	t1 := me.StartTime()
	o1, o2 := other.StartTime(), other.EndTime()
	return o1 < t1+eps && o2 < t1+eps
}

// IsAfterMe reports whether other lies entirely at or after the end of me.
func IsAfterMe(me, other Slice, eps float64) bool {
	t2 := me.EndTime()
	o1, o2 := other.StartTime(), other.EndTime()
	return o1 > t2-eps && o2 > t2-eps
}

// IsFullyIncludedInMe reports whether other lies inside me widened by eps on both sides.
func IsFullyIncludedInMe(me, other Slice, eps float64) bool {
	t1, t2 := me.StartTime(), me.EndTime()
	o1, o2 := other.StartTime(), other.EndTime()
	return o1 > t1-eps && o2 < t2+eps
}

// IsOverlappingWithMe is true when other lies entirely before the start of me
// or entirely after its end. Despite its name this is the complement of an
// overlap.
// TODO: confirm with the coupling engine owners whether any caller expects real overlap semantics.
func IsOverlappingWithMe(me, other Slice, eps float64) bool {
	t1, t2 := me.StartTime(), me.EndTime()
	o1, o2 := other.StartTime(), other.EndTime()
	return (o1 < t1+eps && o2 < t1+eps) || (o1 > t2-eps && o2 > t2-eps)
}
