// Package moderation implements the moderated-tag authorization
// algorithm of spec.md §4.3, ported from the original
// ofdb-core::tag::moderated::authorize_editing_of_tagged_entry. It has
// no pack analogue beyond that original Rust source; the function
// shape (pure, side-effect-free, takes its input pre-fetched) follows
// the teacher's preference for thin use-cases around small testable
// helpers.
package moderation

import (
	"sort"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/apperr"
)

// OrgTag pairs an organization id with one of its moderated tags.
type OrgTag struct {
	OrgId entity.Id
	Tag   entity.ModeratedTag
}

// AuthorizeEdits checks every (org, moderated tag) pair against the
// tags added and removed between oldTags and newTags. It returns the
// sorted, deduplicated list of organization ids that require clearance
// of the edit, or an AuthorizationError carrying ModeratedTagDenied if
// any organization forbids the addition or removal outright.
func AuthorizeEdits(pairs []OrgTag, oldTags, newTags []string) ([]entity.Id, error) {
	added := diff(newTags, oldTags)
	removed := diff(oldTags, newTags)

	clearanceSet := map[entity.Id]struct{}{}

	for _, pair := range pairs {
		for _, tag := range added {
			if pair.Tag.Label != tag {
				continue
			}

			if !pair.Tag.AllowAdd {
				return nil, apperr.NewModeratedTagDenied(true, tag)
			}

			if pair.Tag.RequireClearance {
				clearanceSet[pair.OrgId] = struct{}{}
			}
		}

		for _, tag := range removed {
			if pair.Tag.Label != tag {
				continue
			}

			if !pair.Tag.AllowRemove {
				return nil, apperr.NewModeratedTagDenied(false, tag)
			}

			if pair.Tag.RequireClearance {
				clearanceSet[pair.OrgId] = struct{}{}
			}
		}
	}

	ids := make([]entity.Id, 0, len(clearanceSet))
	for id := range clearanceSet {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids, nil
}

// diff returns the elements of a not present in b.
func diff(a, b []string) []string {
	out := make([]string, 0, len(a))

	for _, x := range a {
		found := false

		for _, y := range b {
			if x == y {
				found = true
				break
			}
		}

		if !found {
			out = append(out, x)
		}
	}

	return out
}
