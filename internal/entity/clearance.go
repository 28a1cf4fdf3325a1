package entity

import "time"

// PendingClearanceForPlace tracks an organization's outstanding review
// obligation for one place, unique per (OrgId, PlaceId) (spec.md §3).
type PendingClearanceForPlace struct {
	OrgId               Id
	PlaceId             Id
	CreatedAt           time.Time
	LastClearedRevision *Revision
}

// ClearedRevisionOrCurrent applies the read-projection rule from
// spec.md §4.3/§8 (invariant 8): an org-scoped consumer sees
// LastClearedRevision if set, otherwise the place's current revision.
func (p *PendingClearanceForPlace) ClearedRevisionOrCurrent(current Revision) Revision {
	if p == nil || p.LastClearedRevision == nil {
		return current
	}

	return *p.LastClearedRevision
}

// ClearanceForPlace is one line of an organization's clearance batch
// submission (spec.md §4.3).
type ClearanceForPlace struct {
	PlaceId         Id
	ClearedRevision *Revision
}
