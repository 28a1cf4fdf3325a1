package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openfairdb/ofdb-core/internal/entity"
)

func TestReviewStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to entity.ReviewStatus
		allowed  bool
	}{
		{entity.StatusCreated, entity.StatusConfirmed, true},
		{entity.StatusCreated, entity.StatusCreated, false},
		{entity.StatusConfirmed, entity.StatusConfirmed, false},
		{entity.StatusArchived, entity.StatusArchived, false},
		{entity.StatusRejected, entity.StatusRejected, false},
		{entity.StatusConfirmed, entity.StatusCreated, true},
		{entity.StatusArchived, entity.StatusConfirmed, true},
		{entity.StatusRejected, entity.StatusConfirmed, true},
	}

	for _, c := range cases {
		assert.Equalf(t, c.allowed, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestReviewStatus_Exists(t *testing.T) {
	assert.False(t, entity.StatusRejected.Exists())
	assert.False(t, entity.StatusArchived.Exists())
	assert.True(t, entity.StatusCreated.Exists())
	assert.True(t, entity.StatusConfirmed.Exists())
}
