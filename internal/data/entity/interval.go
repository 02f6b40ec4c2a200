package entity

import "time"

// Overlaps reports whether the half-open windows [s1,e1) and [s2,e2)
// intersect: s1 < e2 && s2 < e1. Every overlap check in the engine goes
// through this one predicate; adjacent windows (e1 == s2) do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}
