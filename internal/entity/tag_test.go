package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openfairdb/ofdb-core/internal/entity"
)

func TestNormalizeTags_Idempotent(t *testing.T) {
	in := []string{"#Bio", "eco ", " Eco", "bio"}

	first := entity.NormalizeTags(in)
	second := entity.NormalizeTags(first)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"bio", "eco"}, first)
}

func TestNormalizeTags_OrderInsensitive(t *testing.T) {
	a := entity.NormalizeTags([]string{"zeta", "alpha", "#Bio"})
	b := entity.NormalizeTags([]string{"Bio", "zeta", "alpha"})

	assert.Equal(t, a, b)
}

func TestNormalizeTags_DropsEmpties(t *testing.T) {
	got := entity.NormalizeTags([]string{"  ", "#", "bio"})

	assert.Equal(t, []string{"bio"}, got)
}
