package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfairdb/ofdb-core/internal/entity"
)

func TestEmailNonce_RoundTrips(t *testing.T) {
	email, err := entity.ParseEmailAddress("a@b.c")
	require.NoError(t, err)

	en := entity.EmailNonce{Email: email, Nonce: entity.NewNonce()}

	encoded := entity.EncodeEmailNonce(en)
	decoded, err := entity.DecodeEmailNonce(encoded)
	require.NoError(t, err)

	assert.Equal(t, en.Email.Key(), decoded.Email.Key())
	assert.Equal(t, en.Nonce, decoded.Nonce)
	assert.Equal(t, encoded, entity.EncodeEmailNonce(decoded))
}

func TestDecodeEmailNonce_RejectsGarbage(t *testing.T) {
	_, err := entity.DecodeEmailNonce("not-valid-base64!!")
	assert.ErrorIs(t, err, entity.ErrEmailNonceDecoding)
}
