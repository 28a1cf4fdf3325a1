// Package geocode declares the address-resolution gateway contract from
// spec.md §6. The core never performs geocoding itself; it only
// consumes a resolved coordinate when one is supplied.
package geocode

import (
	"context"

	"github.com/openfairdb/ofdb-core/internal/entity"
)

// GeoCoder resolves a free-form postal address to a coordinate.
// Implementations MAY return (nil, nil) when the address cannot be
// resolved; that is not an error, just an unresolved lookup.
type GeoCoder interface {
	ResolveAddressLatLng(ctx context.Context, address entity.Address) (*entity.MapPoint, error)
}
