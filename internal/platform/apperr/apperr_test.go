package apperr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openfairdb/ofdb-core/internal/platform/apperr"
)

func TestModeratedTagDenied_DiscriminatesAddVsRemove(t *testing.T) {
	addDenied := apperr.NewModeratedTagDenied(true, "official")

	var asAuth *apperr.AuthorizationError
	assert.True(t, errors.As(error(addDenied), &asAuth))
	assert.Equal(t, apperr.AuthModeratedTagAdd, asAuth.Kind)
	assert.Equal(t, "official", asAuth.Tag)

	remDenied := apperr.NewModeratedTagDenied(false, "eco")
	assert.Equal(t, apperr.AuthModeratedTagRem, remDenied.Kind)
}

func TestInfraError_Unwraps(t *testing.T) {
	underlying := errors.New("boom")
	wrapped := apperr.Wrap("repo.Create", underlying)

	assert.True(t, errors.Is(wrapped, underlying))
}

func TestWrap_NilIsNil(t *testing.T) {
	assert.Nil(t, apperr.Wrap("op", nil))
}
