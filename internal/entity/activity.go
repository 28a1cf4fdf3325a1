package entity

import "time"

// Activity marks who did something and when. By, when absent, means
// the action was taken by the system or via an anonymous review token
// (spec.md §4.2, review-by-nonce).
type Activity struct {
	At time.Time
	By *EmailAddress
}

// NewActivity builds an Activity attributed to by at the current time.
func NewActivity(by EmailAddress) Activity {
	return Activity{At: time.Now().UTC(), By: &by}
}

// NewSystemActivity builds an unattributed Activity, used by the
// review-by-nonce flow (spec.md §4.2).
func NewSystemActivity() Activity {
	return Activity{At: time.Now().UTC()}
}

// ReviewLogEntry records one status transition applied to a Place
// revision.
type ReviewLogEntry struct {
	Activity Activity
	Status   ReviewStatus
	Context  string
	Comment  *string
}
