package entity

// ModeratedTag is one tag label an Organization claims ownership of,
// along with the policy governing edits to that label (spec.md §3).
type ModeratedTag struct {
	Label            string
	AllowAdd         bool
	AllowRemove      bool
	RequireClearance bool
}

// Organization groups moderated tags under an opaque API token used to
// authenticate the organization's clearance workflow (spec.md §4.3).
type Organization struct {
	Id            Id
	Name          string
	ApiToken      string
	ModeratedTags []ModeratedTag
}

// OwnsTag reports whether the organization claims label.
func (o Organization) OwnsTag(label string) (ModeratedTag, bool) {
	for _, mt := range o.ModeratedTags {
		if mt.Label == label {
			return mt, true
		}
	}

	return ModeratedTag{}, false
}
