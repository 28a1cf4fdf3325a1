package entity

import "time"

// RatingContext is one of the six dimensions a Rating is scored on
// (spec.md §3).
type RatingContext int8

const (
	ContextDiversity RatingContext = iota
	ContextRenewable
	ContextFairness
	ContextHumanity
	ContextTransparency
	ContextSolidarity
)

// AllRatingContexts lists every context in a stable order, used by
// AverageRatings to build its per-context breakdown.
func AllRatingContexts() []RatingContext {
	return []RatingContext{
		ContextDiversity, ContextRenewable, ContextFairness,
		ContextHumanity, ContextTransparency, ContextSolidarity,
	}
}

// Valid reports whether c is one of the six legal contexts.
func (c RatingContext) Valid() bool {
	return c >= ContextDiversity && c <= ContextSolidarity
}

// RatingValue is a signed score in the closed range [-1, 2]
// (spec.md §3).
type RatingValue int8

// Valid reports whether v is one of the four legal rating values.
func (v RatingValue) Valid() bool {
	return v >= -1 && v <= 2
}

// Rating is one community assessment of a Place along one context.
type Rating struct {
	Id         Id
	PlaceId    Id
	CreatedAt  time.Time
	ArchivedAt *time.Time
	Title      string
	Value      RatingValue
	Context    RatingContext
	Source     *string
}

// Comment is free text attached to a Rating.
type Comment struct {
	Id         Id
	RatingId   Id
	CreatedAt  time.Time
	ArchivedAt *time.Time
	Text       string
}

// NewRatingInput is the validated payload for create-rating
// (spec.md §4.7): a rating plus its mandatory first comment.
type NewRatingInput struct {
	PlaceId     Id
	Title       string
	Value       RatingValue
	Context     RatingContext
	Source      *string
	CommentText string
}
