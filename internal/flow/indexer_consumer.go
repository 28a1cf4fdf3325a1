package flow

import (
	"context"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/log"
	"github.com/openfairdb/ofdb-core/internal/platform/pg"
	"github.com/openfairdb/ofdb-core/internal/platform/queue"
	"github.com/openfairdb/ofdb-core/internal/platform/redisx"
	"github.com/openfairdb/ofdb-core/internal/repo"
	"github.com/openfairdb/ofdb-core/internal/search"
)

// lockExpiry bounds how long a single reindex job may hold its
// per-entity lock before redsync considers it abandoned.
const lockExpiry = 30 * time.Second

// IndexerConsumer drains reindex jobs and applies them to the search
// index, reloading the affected entity from the primary store rather
// than trusting the job's publish-time snapshot (spec.md §4.4: the
// indexer is recoverable by reindex-from-truth). The per-id redsync
// lock enforces the single-writer discipline spec.md §5 requires: "a
// Place's updates MUST be indexed in commit order".
type IndexerConsumer struct {
	Hub     *pg.Hub
	Locks   *redisx.LockFactory
	Places  repo.PlaceRepo
	Ratings repo.RatingRepo
	Events  repo.EventRepo

	PlaceIndex search.PlaceIndexer
	EventIndex search.EventIndexer

	Logger log.Logger
}

// Run consumes from c until ctx is cancelled.
func (ic *IndexerConsumer) Run(ctx context.Context, c *queue.Consumer) error {
	return c.Run(ctx, ic.handle)
}

func (ic *IndexerConsumer) handle(ctx context.Context, body []byte) error {
	var job reindexJob
	if err := msgpack.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("flow: decode reindex job: %w", err)
	}

	lock, err := ic.Locks.LockEntity(ctx, job.Kind, string(job.Id), lockExpiry)
	if err != nil {
		return fmt.Errorf("flow: lock %s %s: %w", job.Kind, job.Id, err)
	}
	defer func() {
		if err := lock.Unlock(ctx); err != nil {
			ic.Logger.Warnf("unlock %s %s: %v", job.Kind, job.Id, err)
		}
	}()

	switch job.Kind {
	case kindPlace:
		return ic.reindexPlace(ctx, job.Id)
	case kindEvent:
		return ic.reindexEvent(ctx, job.Id)
	default:
		return fmt.Errorf("flow: unknown reindex job kind %q", job.Kind)
	}
}

func (ic *IndexerConsumer) reindexPlace(ctx context.Context, id entity.Id) error {
	return ic.Hub.Shared(ctx, func(ctx context.Context, q pg.Queryer) error {
		place, err := ic.Places.GetCurrent(ctx, q, id)
		if err != nil {
			return err
		}

		ratings, err := ic.Ratings.ByPlaceId(ctx, q, id)
		if err != nil {
			return err
		}

		avg := search.ComputeAverageRatings(ratings)

		return ic.PlaceIndex.AddOrUpdate(ctx, place, avg)
	})
}

func (ic *IndexerConsumer) reindexEvent(ctx context.Context, id entity.Id) error {
	return ic.Hub.Shared(ctx, func(ctx context.Context, q pg.Queryer) error {
		event, err := ic.Events.Get(ctx, q, id)
		if err != nil {
			return err
		}

		return ic.EventIndex.AddOrUpdate(ctx, event)
	})
}
