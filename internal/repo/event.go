package repo

import (
	"context"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/pg"
)

// EventRepo persists events. Events carry no revision history: an
// update overwrites the row in place.
type EventRepo interface {
	Create(ctx context.Context, q pg.Queryer, event *entity.Event) error
	Get(ctx context.Context, q pg.Queryer, id entity.Id) (*entity.Event, error)
	Update(ctx context.Context, q pg.Queryer, event *entity.Event) error
	SetArchived(ctx context.Context, q pg.Queryer, id entity.Id, archived bool) error
	ByIds(ctx context.Context, q pg.Queryer, ids []entity.Id) ([]*entity.Event, error)
}
