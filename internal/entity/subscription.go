package entity

// BboxSubscription records that a user wants to be notified about
// activity within a bounding box (spec.md §3).
type BboxSubscription struct {
	Id        Id
	UserEmail EmailAddress
	Bbox      MapBbox
}
