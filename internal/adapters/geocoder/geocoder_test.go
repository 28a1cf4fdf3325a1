package geocoder

import (
	"context"
	"testing"

	"github.com/openfairdb/ofdb-core/internal/entity"
)

func TestStaticGeoCoderResolvesRegisteredAddress(t *testing.T) {
	g := NewStatic()
	addr := entity.Address{Street: "Hauptstr. 1", Zip: "10115", City: "Berlin", Country: "DE"}
	want := entity.MapPoint{Lat: 52.52, Lng: 13.405}
	g.Put(addr, want)

	got, err := g.ResolveAddressLatLng(context.Background(), addr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got == nil || *got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestStaticGeoCoderMissIsNilNotError(t *testing.T) {
	g := NewStatic()

	got, err := g.ResolveAddressLatLng(context.Background(), entity.Address{Street: "nowhere"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != nil {
		t.Fatalf("expected nil for unresolved address, got %v", got)
	}
}

func TestStaticGeoCoderKeyIsCaseAndSpaceInsensitive(t *testing.T) {
	g := NewStatic()
	want := entity.MapPoint{Lat: 1, Lng: 2}
	g.Put(entity.Address{Street: "Main St", City: "Springfield"}, want)

	got, err := g.ResolveAddressLatLng(context.Background(), entity.Address{Street: " MAIN ST ", City: " springfield "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got == nil || *got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}
