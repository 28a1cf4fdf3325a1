package repo

import (
	"context"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/pg"
)

// UserRepo persists accounts keyed by email.
type UserRepo interface {
	Create(ctx context.Context, q pg.Queryer, user *entity.User) error
	ByEmail(ctx context.Context, q pg.Queryer, email entity.EmailAddress) (*entity.User, error)
	Update(ctx context.Context, q pg.Queryer, user *entity.User) error
	Delete(ctx context.Context, q pg.Queryer, email entity.EmailAddress) error
}

// OrganizationRepo persists organizations and their moderated-tag
// policies.
type OrganizationRepo interface {
	Get(ctx context.Context, q pg.Queryer, id entity.Id) (*entity.Organization, error)
	ByApiToken(ctx context.Context, q pg.Queryer, token string) (*entity.Organization, error)

	// AllModeratedTagsExcept returns every (org, tag) pair in the
	// system except those belonging to excludeOrgId, the input set
	// spec.md §4.3 requires for the authorization algorithm.
	AllModeratedTagsExcept(ctx context.Context, q pg.Queryer, excludeOrgId entity.Id) (map[entity.Id][]entity.ModeratedTag, error)
}

// SubscriptionRepo persists bbox subscriptions.
type SubscriptionRepo interface {
	Create(ctx context.Context, q pg.Queryer, sub *entity.BboxSubscription) error
	ByUserEmail(ctx context.Context, q pg.Queryer, email entity.EmailAddress) ([]*entity.BboxSubscription, error)
	Delete(ctx context.Context, q pg.Queryer, id entity.Id) error

	// AllContaining returns every subscription whose bbox contains
	// pos, used by email_addresses_by_coordinate (spec.md §4.5).
	AllContaining(ctx context.Context, q pg.Queryer, pos entity.MapPoint) ([]*entity.BboxSubscription, error)
}
