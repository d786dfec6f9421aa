package es

// VersionRange bounds a versioned range read against an originator's
// stored events or snapshots. It expresses the (gt, lte] window used
// by recorder.EventRecorder.SelectEvents and
// recorder.SnapshotRecorder.SelectSnapshots, optionally reversed and
// capped at Limit. The zero value selects every version, ascending,
// unbounded.
type VersionRange struct {
	GT    *uint64
	LTE   *uint64
	Desc  bool
	Limit *int
}

// AllVersions returns the unbounded, ascending range.
func AllVersions() VersionRange {
	return VersionRange{}
}

// VersionsAfter returns a range excluding versions <= v.
func VersionsAfter(v uint64) VersionRange {
	return VersionRange{GT: &v}
}

// VersionsUpTo returns a range excluding versions > v.
func VersionsUpTo(v uint64) VersionRange {
	return VersionRange{LTE: &v}
}

// Reversed returns a copy of r ordered newest-version-first.
func (r VersionRange) Reversed() VersionRange {
	r.Desc = true
	return r
}

// Limited returns a copy of r capped to at most n rows.
func (r VersionRange) Limited(n int) VersionRange {
	r.Limit = &n
	return r
}
