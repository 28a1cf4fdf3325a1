package usecase

import (
	"context"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/geocode"
	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
)

// ResolveAddress wraps geocode.GeoCoder with the same tracing/logging
// envelope every other use-case gets. The inbound layer calls this
// before constructing a NewPlaceInput/UpdatePlaceInput when the
// submitter gave an address but no coordinate; create_place and
// update_place themselves never call out to GeoCoder, since a place's
// Location always carries an already-resolved MapPoint (spec.md §3).
type ResolveAddress struct {
	Geo geocode.GeoCoder
}

func (uc *ResolveAddress) Do(ctx context.Context, address entity.Address) (*entity.MapPoint, error) {
	ctx, span := otelx.StartSpan(ctx, "resolve_address")
	defer span.End()

	if uc.Geo == nil {
		return nil, nil
	}

	pos, err := uc.Geo.ResolveAddressLatLng(ctx, address)
	if err != nil {
		otelx.Fail(span, "resolve", err)
		return nil, err
	}

	return pos, nil
}
