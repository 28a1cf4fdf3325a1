// Package ofdbcore assembles the use-case kernel in internal/usecase,
// internal/clearance and their adapters into one Engine, the single
// entry point an embedding process (HTTP server, CLI, whatever — out
// of scope per spec.md §1) constructs and calls into. There is
// deliberately no cmd/ in this module: Engine is a library type, not a
// runnable program.
package ofdbcore

import (
	"context"
	"net/smtp"
	"time"

	"github.com/openfairdb/ofdb-core/internal/adapters/cache"
	"github.com/openfairdb/ofdb-core/internal/adapters/mongo/reviewlog"
	"github.com/openfairdb/ofdb-core/internal/adapters/notifier"
	"github.com/openfairdb/ofdb-core/internal/adapters/postgres/clearance"
	"github.com/openfairdb/ofdb-core/internal/adapters/postgres/event"
	"github.com/openfairdb/ofdb-core/internal/adapters/postgres/organization"
	"github.com/openfairdb/ofdb-core/internal/adapters/postgres/place"
	"github.com/openfairdb/ofdb-core/internal/adapters/postgres/rating"
	"github.com/openfairdb/ofdb-core/internal/adapters/postgres/searchindex"
	"github.com/openfairdb/ofdb-core/internal/adapters/postgres/subscription"
	"github.com/openfairdb/ofdb-core/internal/adapters/postgres/tag"
	"github.com/openfairdb/ofdb-core/internal/adapters/postgres/token"
	"github.com/openfairdb/ofdb-core/internal/adapters/postgres/user"
	clearanceuc "github.com/openfairdb/ofdb-core/internal/clearance"
	"github.com/openfairdb/ofdb-core/internal/flow"
	"github.com/openfairdb/ofdb-core/internal/geocode"
	mongohub "github.com/openfairdb/ofdb-core/internal/platform/mongo"
	"github.com/openfairdb/ofdb-core/internal/notify"
	"github.com/openfairdb/ofdb-core/internal/platform/log"
	"github.com/openfairdb/ofdb-core/internal/platform/pg"
	"github.com/openfairdb/ofdb-core/internal/platform/queue"
	"github.com/openfairdb/ofdb-core/internal/platform/redisx"
	"github.com/openfairdb/ofdb-core/internal/usecase"
)

// Deps are the already-constructed, already-connected collaborators
// Engine is assembled from (spec.md §4.9: "no env var parsing lives in
// this module"). Connecting PG/Mongo/Redis/Queue is the caller's
// responsibility — Engine only calls their Shared/Exclusive/Channel
// accessors, which connect lazily if Connect was never called.
type Deps struct {
	PG    *pg.Hub
	Mongo *mongohub.Hub
	Redis *redisx.Hub
	Queue *queue.Hub

	Logger log.Logger

	// Notifier overrides the default SMTP-backed notify.Notifier.
	// SMTPAddr/SMTPFrom/SMTPAuth configure the default when Notifier
	// is nil.
	Notifier notify.Notifier
	SMTPAddr string
	SMTPFrom string
	SMTPAuth smtp.Auth

	// GeoCoder resolves addresses ahead of create_place/update_place;
	// nil disables address resolution (the caller already has a
	// coordinate, or has none to give).
	GeoCoder geocode.GeoCoder

	AcceptedLicenses usecase.AcceptedLicenses
	ReviewTokenTTL   time.Duration
	TagCacheTTL      time.Duration

	IndexerExchange  string
	NotifierExchange string
}

// defaultString returns fallback when s is empty.
func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}

	return s
}

// Engine is every inbound operation spec.md §6 names, wired to its
// Postgres/Mongo/Redis/RabbitMQ adapters.
type Engine struct {
	Deps Deps

	CreatePlace      *usecase.CreatePlace
	UpdatePlace      *usecase.UpdatePlace
	ArchivePlace     *usecase.ArchivePlace
	ReviewPlaces     *usecase.ReviewPlaces
	ReviewByNonce    *usecase.ReviewPlaceWithNonce
	SearchPlaces     *usecase.SearchPlaces
	IssueReviewToken *usecase.IssueReviewToken

	CreateEvent   *usecase.CreateEvent
	UpdateEvent   *usecase.UpdateEvent
	ArchiveEvents *usecase.ArchiveEvents
	QueryEvents   *usecase.QueryEvents

	CreateRating    *usecase.CreateRating
	ArchiveRatings  *usecase.ArchiveRatings
	ArchiveComments *usecase.ArchiveComments

	RegisterUser              *usecase.RegisterUser
	LoginUser                 *usecase.LoginUser
	ConfirmEmail              *usecase.ConfirmEmail
	ConfirmEmailAndResetPwd   *usecase.ConfirmEmailAndResetPassword
	RequestPasswordReset      *usecase.RequestPasswordReset
	AuthorizeUserByEmail      *usecase.AuthorizeUserByEmail
	AuthorizeOrgByApiTokens   *usecase.AuthorizeOrganizationByApiTokens
	ChangeUserRole            *usecase.ChangeUserRole
	RefreshUserToken          *usecase.RefreshUserToken
	ConsumeUserToken          *usecase.ConsumeUserToken
	DeleteExpiredUserTokens   *usecase.DeleteExpiredUserTokens
	DeleteExpiredReviewTokens *usecase.DeleteExpiredReviewTokens

	SubscribeToBbox     *usecase.SubscribeToBbox
	UnsubscribeFromBbox *usecase.UnsubscribeFromBbox
	GetSubscriptions    *usecase.GetSubscriptions

	ListPendingClearances  *clearanceuc.ListPending
	CountPendingClearances *clearanceuc.CountPending
	ApplyClearanceBatch    *clearanceuc.ApplyBatch
	ProjectClearedPlace    *clearanceuc.Project

	MostPopularTags *usecase.MostPopularTags
	ResolveAddress  *usecase.ResolveAddress

	IndexerConsumer  *flow.IndexerConsumer
	NotifierConsumer *flow.NotifierConsumer
}

// NewEngine wires every use-case with its concrete adapters. PG is
// required; Mongo/Redis/Queue are optional — omitting one disables the
// features it backs (review-log audit trail, popular-tags cache,
// post-commit reindex/notify respectively) rather than panicking, so a
// caller can run a reduced engine in tests.
func NewEngine(deps Deps) *Engine {
	if deps.Logger == nil {
		deps.Logger = log.Noop()
	}

	if deps.ReviewTokenTTL == 0 {
		deps.ReviewTokenTTL = 7 * 24 * time.Hour
	}

	if deps.TagCacheTTL == 0 {
		deps.TagCacheTTL = 5 * time.Minute
	}

	places := place.New()
	events := event.New()
	ratings := rating.New()
	comments := rating.NewCommentRepository()
	orgs := organization.New()
	subs := subscription.New()
	users := user.New()
	tags := tag.New()
	clearances := clearance.New()
	userTokens := token.NewUserTokenRepository()
	reviewTokens := token.NewReviewTokenRepository()

	placeIndex := searchindex.NewPlaceIndex(deps.PG)
	eventIndex := searchindex.NewEventIndex(deps.PG)

	var effects *flow.Effects
	var indexerConsumer *flow.IndexerConsumer
	var notifierConsumer *flow.NotifierConsumer

	if deps.Queue != nil {
		indexerExchange := defaultString(deps.IndexerExchange, "ofdb.reindex")
		notifierExchange := defaultString(deps.NotifierExchange, "ofdb.notify")

		effects = &flow.Effects{
			Indexer:  &queue.Publisher{Hub: deps.Queue, Exchange: indexerExchange, Key: indexerExchange},
			Notifier: &queue.Publisher{Hub: deps.Queue, Exchange: notifierExchange, Key: notifierExchange},
		}

		if deps.Redis != nil {
			if locks, err := redisx.NewLockFactory(context.Background(), deps.Redis); err == nil {
				indexerConsumer = &flow.IndexerConsumer{
					Hub:        deps.PG,
					Locks:      locks,
					Places:     places,
					Ratings:    ratings,
					Events:     events,
					PlaceIndex: placeIndex,
					EventIndex: eventIndex,
					Logger:     deps.Logger,
				}
			}
		}

		notif := deps.Notifier
		if notif == nil && deps.SMTPAddr != "" {
			notif = &notifier.SMTPNotifier{Addr: deps.SMTPAddr, From: deps.SMTPFrom, Auth: deps.SMTPAuth, Logger: deps.Logger}
		}

		if notif != nil {
			notifierConsumer = &flow.NotifierConsumer{
				Hub:      deps.PG,
				Places:   places,
				Events:   events,
				Users:    users,
				Subs:     subs,
				Notifier: notif,
				Logger:   deps.Logger,
			}
		}
	}

	var popularTags usecase.PopularTagsCache
	if deps.Redis != nil {
		popularTags = cache.New(deps.Redis, deps.TagCacheTTL)
	}

	// effects is a typed *flow.Effects that stays nil when no queue is
	// configured; assigning it straight into an interface-typed field
	// would wrap that nil pointer in a non-nil interface value, so
	// every interface view is only populated when effects is non-nil.
	var (
		placeEffects   usecase.PlaceEffects
		eventEffects   usecase.EventEffects
		ratingEffects  usecase.RatingEffects
		accountEffects usecase.AccountEffects
		reviewLog      usecase.ReviewLogger
	)

	if deps.Mongo != nil {
		reviewLog = reviewlog.New(deps.Mongo)
	}

	if effects != nil {
		placeEffects = effects
		eventEffects = effects
		ratingEffects = effects
		accountEffects = effects
	}

	return &Engine{
		Deps: deps,

		CreatePlace: &usecase.CreatePlace{
			Places: places, Orgs: orgs, Clearance: clearances,
			Effects: placeEffects, Accepted: deps.AcceptedLicenses, Logger: deps.Logger,
		},
		UpdatePlace: &usecase.UpdatePlace{
			Places: places, Orgs: orgs, Clearance: clearances,
			Effects: placeEffects, Accepted: deps.AcceptedLicenses, Logger: deps.Logger,
		},
		ArchivePlace: &usecase.ArchivePlace{
			Places: places, Ratings: ratings, Comments: comments, Effects: placeEffects, Logger: deps.Logger,
		},
		ReviewPlaces: &usecase.ReviewPlaces{Places: places, Effects: placeEffects, ReviewLog: reviewLog, Logger: deps.Logger},
		ReviewByNonce: &usecase.ReviewPlaceWithNonce{
			Tokens: reviewTokens, Places: places, Effects: placeEffects, ReviewLog: reviewLog, Logger: deps.Logger, Now: time.Now,
		},
		SearchPlaces:     &usecase.SearchPlaces{Index: placeIndex, Places: places},
		IssueReviewToken: &usecase.IssueReviewToken{Tokens: reviewTokens, TTL: deps.ReviewTokenTTL},

		CreateEvent:   &usecase.CreateEvent{Events: events, Effects: eventEffects, Logger: deps.Logger},
		UpdateEvent:   &usecase.UpdateEvent{Events: events, Effects: eventEffects, Logger: deps.Logger},
		ArchiveEvents: &usecase.ArchiveEvents{Events: events, Indexer: eventIndex, Logger: deps.Logger},
		QueryEvents:   &usecase.QueryEvents{Index: eventIndex, Events: events},

		CreateRating:    &usecase.CreateRating{Ratings: ratings, Places: places, Effects: ratingEffects, Logger: deps.Logger},
		ArchiveRatings:  &usecase.ArchiveRatings{Ratings: ratings, Logger: deps.Logger},
		ArchiveComments: &usecase.ArchiveComments{Comments: comments, Logger: deps.Logger},

		RegisterUser:              &usecase.RegisterUser{Users: users, Effects: accountEffects, Logger: deps.Logger},
		LoginUser:                 &usecase.LoginUser{Users: users},
		ConfirmEmail:              &usecase.ConfirmEmail{Users: users},
		ConfirmEmailAndResetPwd:   &usecase.ConfirmEmailAndResetPassword{Users: users},
		RequestPasswordReset:      &usecase.RequestPasswordReset{Users: users, Tokens: userTokens, Effects: accountEffects, Logger: deps.Logger},
		AuthorizeUserByEmail:      &usecase.AuthorizeUserByEmail{Users: users},
		AuthorizeOrgByApiTokens:   &usecase.AuthorizeOrganizationByApiTokens{Orgs: orgs},
		ChangeUserRole:            &usecase.ChangeUserRole{Users: users},
		RefreshUserToken:          &usecase.RefreshUserToken{Tokens: userTokens},
		ConsumeUserToken:          &usecase.ConsumeUserToken{Tokens: userTokens, Now: time.Now},
		DeleteExpiredUserTokens:   &usecase.DeleteExpiredUserTokens{Tokens: userTokens},
		DeleteExpiredReviewTokens: &usecase.DeleteExpiredReviewTokens{Tokens: reviewTokens},

		SubscribeToBbox:     &usecase.SubscribeToBbox{Subs: subs},
		UnsubscribeFromBbox: &usecase.UnsubscribeFromBbox{Subs: subs},
		GetSubscriptions:    &usecase.GetSubscriptions{Subs: subs},

		ListPendingClearances:  &clearanceuc.ListPending{Clearance: clearances},
		CountPendingClearances: &clearanceuc.CountPending{Clearance: clearances},
		ApplyClearanceBatch:    &clearanceuc.ApplyBatch{Clearance: clearances, Places: places},
		ProjectClearedPlace:    &clearanceuc.Project{Clearance: clearances, Places: places},

		MostPopularTags: &usecase.MostPopularTags{Tags: tags, Cache: popularTags},
		ResolveAddress:  &usecase.ResolveAddress{Geo: deps.GeoCoder},

		IndexerConsumer:  indexerConsumer,
		NotifierConsumer: notifierConsumer,
	}
}
