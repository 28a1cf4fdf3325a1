package entity

// Contact holds optional reach-out details for a Place or Event.
type Contact struct {
	Name  *string
	Email *EmailAddress
	Phone *string
}

// Address is a free-form postal address attached to a Place's location.
type Address struct {
	Street     string
	Zip        string
	City       string
	Country    string
}

// Location pairs a Place's coordinates with its optional postal address.
type Location struct {
	Pos     MapPoint
	Address *Address
}

// License identifies the content license a Place was submitted under.
// spec.md §3 requires it be a member of a configured accepted set,
// checked by the use-case layer (internal/usecase), not here.
type License string

// Place is the current, fully-assembled view of one place: its current
// revision's fields plus the identity shared by all of its revisions.
type Place struct {
	Id       Id
	Revision Revision

	Created Activity

	Title       string
	Description string

	Location Location

	Contact       *Contact
	Homepage      *string
	OpeningHours  *string
	FoundedOn     *string
	Image         *string
	ImageLink     *string

	Categories []Id
	Tags       []string // always normalized: see entity.NormalizeTags

	License License

	Status    ReviewStatus
	ReviewLog []ReviewLogEntry
}

// CurrentRevisionKey identifies one revision of a place, used as the
// Postgres composite key described in spec.md §6.
type CurrentRevisionKey struct {
	PlaceId  Id
	Revision Revision
}

// NewPlaceInput is the validated payload for creating a place. The
// use-case layer is responsible for calling entity.NormalizeTags on
// Tags before constructing a Place.
type NewPlaceInput struct {
	Title        string
	Description  string
	Location     Location
	Contact      *Contact
	Homepage     *string `validate:"omitempty,url"`
	OpeningHours *string
	FoundedOn    *string
	Image        *string `validate:"omitempty,url"`
	ImageLink    *string `validate:"omitempty,url"`
	Categories   []Id
	Tags         []string
	License      License
	CreatedBy    *EmailAddress
}

// UpdatePlaceInput is the validated payload for revising a place. It
// carries the same shape as NewPlaceInput because update-place
// re-validates everything the create path does (spec.md §4.2).
type UpdatePlaceInput = NewPlaceInput
