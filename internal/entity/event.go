package entity

import "time"

// RegistrationType is how attendees are expected to register for an
// Event (spec.md §3).
type RegistrationType int8

const (
	RegistrationEmail RegistrationType = iota
	RegistrationPhone
	RegistrationHomepage
)

// Event is a time-boxed happening, optionally tied to a place-like
// location and owned by an organization when its tags include one of
// that organization's moderated labels.
type Event struct {
	Id          Id
	Title       string
	Description *string

	Start time.Time
	End   *time.Time

	Location *Location
	Contact  *Contact

	Tags []string

	Homepage     *string
	CreatedBy    *EmailAddress
	Registration *RegistrationType

	Archived *time.Time

	Images []string
}

// OwnedBy reports whether org owns this event: at least one of the
// event's tags matches a moderated-tag label org claims (spec.md §3,
// "Owned iff any tag matches a moderated-tag label belonging to an
// organization providing the token").
func (e Event) OwnedBy(org Organization) bool {
	for _, tag := range e.Tags {
		if _, ok := org.OwnsTag(tag); ok {
			return true
		}
	}

	return false
}

// NewEventInput is the validated payload for creating or updating an
// event. end, when set, must not be before start (spec.md §3,
// EndDateBeforeStart).
type NewEventInput struct {
	Title        string
	Description  *string
	Start        time.Time
	End          *time.Time
	Location     *Location
	Contact      *Contact
	Tags         []string
	Homepage     *string
	CreatedBy    *EmailAddress
	Registration *RegistrationType
	Images       []string
}
