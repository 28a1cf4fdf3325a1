package search

import "github.com/openfairdb/ofdb-core/internal/platform/apperr"

var (
	errInvalidBbox  = apperr.NewValidation(apperr.ValidationBbox, "")
	errInvalidLimit = apperr.NewValidation(apperr.ValidationLimit, "")
)
