package moderation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/moderation"
	"github.com/openfairdb/ofdb-core/internal/platform/apperr"
)

func TestAuthorizeEdits_NoModeratedTagsInvolved(t *testing.T) {
	ids, err := moderation.AuthorizeEdits(nil, []string{"a"}, []string{"a", "b"})
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestAuthorizeEdits_AddDenied(t *testing.T) {
	pairs := []moderation.OrgTag{
		{OrgId: entity.Id("org1"), Tag: entity.ModeratedTag{Label: "vegan", AllowAdd: false}},
	}

	_, err := moderation.AuthorizeEdits(pairs, nil, []string{"vegan"})
	require.Error(t, err)

	var authErr *apperr.AuthorizationError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, apperr.AuthModeratedTagAdd, authErr.Kind)
	assert.Equal(t, "vegan", authErr.Tag)
}

func TestAuthorizeEdits_RemoveDenied(t *testing.T) {
	pairs := []moderation.OrgTag{
		{OrgId: entity.Id("org1"), Tag: entity.ModeratedTag{Label: "vegan", AllowRemove: false}},
	}

	_, err := moderation.AuthorizeEdits(pairs, []string{"vegan"}, nil)
	require.Error(t, err)

	var authErr *apperr.AuthorizationError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, apperr.AuthModeratedTagRem, authErr.Kind)
}

func TestAuthorizeEdits_ClearanceRequiredDedupedAndSorted(t *testing.T) {
	pairs := []moderation.OrgTag{
		{OrgId: entity.Id("org-b"), Tag: entity.ModeratedTag{Label: "vegan", AllowAdd: true, RequireClearance: true}},
		{OrgId: entity.Id("org-a"), Tag: entity.ModeratedTag{Label: "vegan", AllowAdd: true, RequireClearance: true}},
		{OrgId: entity.Id("org-a"), Tag: entity.ModeratedTag{Label: "organic", AllowRemove: true, RequireClearance: true}},
	}

	ids, err := moderation.AuthorizeEdits(pairs, []string{"organic"}, []string{"vegan"})
	require.NoError(t, err)
	assert.Equal(t, []entity.Id{entity.Id("org-a"), entity.Id("org-b")}, ids)
}

func TestAuthorizeEdits_ActingOrgExcludedByCaller(t *testing.T) {
	// Per spec.md §4.3 the acting organization's own pairs are
	// excluded before this function is called; AuthorizeEdits itself
	// has no notion of "acting org" and just processes whatever it is
	// given.
	ids, err := moderation.AuthorizeEdits(nil, []string{"vegan"}, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
