// Package geocoder is the one stand-in implementation of
// internal/geocode.GeoCoder this module ships. A concrete geocoding
// provider is explicitly out of scope (spec.md §1: "concrete geocoding
// provider" is named among the external collaborators only the
// interface is specified for); StaticGeoCoder exists so the port has at
// least one usable implementation for local development and tests: an
// in-memory lookup table, mirroring the in-repo fake/mock adapters the
// teacher hand-writes per port under each service's *_test.go rather
// than pulling in a mocking library.
package geocoder

import (
	"context"
	"strings"
	"sync"

	"github.com/openfairdb/ofdb-core/internal/entity"
)

// StaticGeoCoder resolves addresses from a caller-supplied lookup
// table, keyed by normalized address line. It never makes network
// calls; wiring a production geocoding provider in its place only
// requires satisfying geocode.GeoCoder.
type StaticGeoCoder struct {
	mu    sync.RWMutex
	table map[string]entity.MapPoint
}

func NewStatic() *StaticGeoCoder {
	return &StaticGeoCoder{table: make(map[string]entity.MapPoint)}
}

// Put registers the coordinate StaticGeoCoder resolves address to.
func (g *StaticGeoCoder) Put(address entity.Address, pos entity.MapPoint) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.table[addressKey(address)] = pos
}

func (g *StaticGeoCoder) ResolveAddressLatLng(_ context.Context, address entity.Address) (*entity.MapPoint, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	pos, ok := g.table[addressKey(address)]
	if !ok {
		return nil, nil
	}

	return &pos, nil
}

func addressKey(a entity.Address) string {
	parts := []string{a.Street, a.Zip, a.City, a.Country}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}

	return strings.Join(parts, "|")
}
