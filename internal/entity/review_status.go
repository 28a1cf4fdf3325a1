package entity

// ReviewStatus is the state of a single Place revision. See spec.md §4.2
// for the full transition table.
type ReviewStatus int8

const (
	StatusRejected  ReviewStatus = -1
	StatusArchived  ReviewStatus = 0
	StatusCreated   ReviewStatus = 1
	StatusConfirmed ReviewStatus = 2
)

// Exists reports whether a place in this status counts as existing
// (status >= Created).
func (s ReviewStatus) Exists() bool {
	return s >= StatusCreated
}

func (s ReviewStatus) String() string {
	switch s {
	case StatusRejected:
		return "rejected"
	case StatusArchived:
		return "archived"
	case StatusCreated:
		return "created"
	case StatusConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// allowedTransitions encodes the table from spec.md §4.2 exactly.
var allowedTransitions = map[ReviewStatus]map[ReviewStatus]bool{
	StatusCreated: {
		StatusRejected:  true,
		StatusArchived:  true,
		StatusConfirmed: true,
	},
	StatusConfirmed: {
		StatusRejected: true,
		StatusArchived: true,
		StatusCreated:  true,
	},
	StatusArchived: {
		StatusRejected:  true,
		StatusCreated:   true,
		StatusConfirmed: true,
	},
	StatusRejected: {
		StatusArchived:  true,
		StatusCreated:   true,
		StatusConfirmed: true,
	},
}

// CanTransitionTo reports whether moving from s to next is permitted by
// the table in spec.md §4.2. A status can never "transition" to itself
// via this table (the table has no diagonal entries).
func (s ReviewStatus) CanTransitionTo(next ReviewStatus) bool {
	return allowedTransitions[s][next]
}
