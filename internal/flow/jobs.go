// Package flow is the transactional orchestrator binding a repo write
// to its post-commit indexer/notifier effects (spec.md §4.4/§4.5),
// grounded on the teacher's rabbitmq producer/consumer pair
// (adapters/implementation/rabbitmq/consumer.rabbitmq.go,
// components/consumer/.../producer.rabbitmq.go) plus the
// common/mrabbitmq connection hub.
package flow

import "github.com/openfairdb/ofdb-core/internal/entity"

// reindexJob is published after a place or event write commits.
// Indexing is recoverable by reindex-from-truth (spec.md §4.4), so the
// job carries only the id: the consumer reloads current state from
// the primary store rather than trusting a possibly-stale snapshot
// taken at publish time.
type reindexJob struct {
	Kind string // "place" or "event"
	Id   entity.Id
}

const (
	kindPlace = "place"
	kindEvent = "event"
)

// notifyJob is published after a write that should fan out a
// notification. Kind selects which Notifier method the consumer
// calls; the referenced id is reloaded the same way reindexJob's is.
type notifyJob struct {
	Kind          string
	PlaceId       entity.Id
	EventId       entity.Id
	UserEmail     string
	ConfirmURL    string
	EmailNonceRaw string
}

const (
	notifyPlaceAdded     = "place_added"
	notifyPlaceUpdated   = "place_updated"
	notifyEventCreated   = "event_created"
	notifyEventUpdated   = "event_updated"
	notifyUserRegistered = "user_registered"
	notifyUserResetPwd   = "user_reset_password"
)
