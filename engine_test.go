package ofdbcore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ofdbcore "github.com/openfairdb/ofdb-core"
	"github.com/openfairdb/ofdb-core/internal/platform/pg"
)

// TestNewEngine_WiresEveryOperationWithoutOptionalDeps exercises the
// composition root the way an embedding process with no Redis/RabbitMQ
// configured yet would: PG only, everything else degraded rather than
// nil-panicking at construction.
func TestNewEngine_WiresEveryOperationWithoutOptionalDeps(t *testing.T) {
	hub := &pg.Hub{PrimaryDSN: "postgres://unused", ReplicaDSN: "postgres://unused"}

	e := ofdbcore.NewEngine(ofdbcore.Deps{PG: hub})

	require.NotNil(t, e)
	assert.NotNil(t, e.CreatePlace)
	assert.NotNil(t, e.UpdatePlace)
	assert.NotNil(t, e.ArchivePlace)
	assert.NotNil(t, e.ReviewPlaces)
	assert.NotNil(t, e.ReviewByNonce)
	assert.NotNil(t, e.SearchPlaces)
	assert.NotNil(t, e.IssueReviewToken)
	assert.NotNil(t, e.CreateEvent)
	assert.NotNil(t, e.UpdateEvent)
	assert.NotNil(t, e.ArchiveEvents)
	assert.NotNil(t, e.QueryEvents)
	assert.NotNil(t, e.CreateRating)
	assert.NotNil(t, e.ArchiveRatings)
	assert.NotNil(t, e.ArchiveComments)
	assert.NotNil(t, e.RegisterUser)
	assert.NotNil(t, e.LoginUser)
	assert.NotNil(t, e.ConfirmEmail)
	assert.NotNil(t, e.ConfirmEmailAndResetPwd)
	assert.NotNil(t, e.RequestPasswordReset)
	assert.NotNil(t, e.AuthorizeUserByEmail)
	assert.NotNil(t, e.AuthorizeOrgByApiTokens)
	assert.NotNil(t, e.ChangeUserRole)
	assert.NotNil(t, e.RefreshUserToken)
	assert.NotNil(t, e.ConsumeUserToken)
	assert.NotNil(t, e.DeleteExpiredUserTokens)
	assert.NotNil(t, e.DeleteExpiredReviewTokens)
	assert.NotNil(t, e.SubscribeToBbox)
	assert.NotNil(t, e.UnsubscribeFromBbox)
	assert.NotNil(t, e.GetSubscriptions)
	assert.NotNil(t, e.ListPendingClearances)
	assert.NotNil(t, e.CountPendingClearances)
	assert.NotNil(t, e.ApplyClearanceBatch)
	assert.NotNil(t, e.ProjectClearedPlace)
	assert.NotNil(t, e.MostPopularTags)
	assert.NotNil(t, e.ResolveAddress)

	// No Queue configured: the background consumers and the effects
	// wiring on every use-case stay nil rather than dialing a broker.
	// This must be a true nil interface, not an interface wrapping a
	// nil *flow.Effects, or uc.Effects != nil checks would misfire.
	assert.Nil(t, e.IndexerConsumer)
	assert.Nil(t, e.NotifierConsumer)
	assert.True(t, e.CreatePlace.Effects == nil)
	assert.True(t, e.CreateEvent.Effects == nil)
	assert.True(t, e.CreateRating.Effects == nil)
	assert.True(t, e.RegisterUser.Effects == nil)

	// No Redis configured: the popular-tags cache falls back to a
	// direct repo load, never a nil interface holding a nil pointer.
	assert.Nil(t, e.MostPopularTags.Cache)

	// No Mongo configured: the review-log audit trail stays a true nil
	// interface too.
	assert.True(t, e.ReviewPlaces.ReviewLog == nil)
	assert.True(t, e.ReviewByNonce.ReviewLog == nil)
}

// TestNewEngine_DefaultsFillInTTLsAndLogger confirms the zero-value
// Deps case still produces usable defaults rather than zero TTLs that
// would expire tokens immediately.
func TestNewEngine_DefaultsFillInTTLsAndLogger(t *testing.T) {
	e := ofdbcore.NewEngine(ofdbcore.Deps{PG: &pg.Hub{}})

	assert.NotZero(t, e.Deps.ReviewTokenTTL)
	assert.NotZero(t, e.Deps.TagCacheTTL)
	assert.NotNil(t, e.Deps.Logger)
}
