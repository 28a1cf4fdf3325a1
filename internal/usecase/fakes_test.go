package usecase_test

import (
	"context"
	"sort"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/apperr"
	"github.com/openfairdb/ofdb-core/internal/platform/pg"
	"github.com/openfairdb/ofdb-core/internal/repo"
	"github.com/openfairdb/ofdb-core/internal/search"
)

// fakePlaceRepo is an in-memory repo.PlaceRepo, the same hand-written
// fake-per-port style the teacher uses in its service-layer tests
// rather than a generated mock.
type fakePlaceRepo struct {
	current map[entity.Id]*entity.Place
}

func newFakePlaceRepo() *fakePlaceRepo {
	return &fakePlaceRepo{current: make(map[entity.Id]*entity.Place)}
}

func (f *fakePlaceRepo) Create(_ context.Context, _ pg.Queryer, place *entity.Place) error {
	cp := *place
	f.current[place.Id] = &cp
	return nil
}

func (f *fakePlaceRepo) GetCurrent(_ context.Context, _ pg.Queryer, id entity.Id) (*entity.Place, error) {
	p, ok := f.current[id]
	if !ok {
		return nil, apperr.NewNotFound("place", string(id))
	}
	cp := *p
	return &cp, nil
}

func (f *fakePlaceRepo) GetRevision(_ context.Context, _ pg.Queryer, _ entity.CurrentRevisionKey) (*entity.Place, error) {
	return nil, &notFoundErr{}
}

func (f *fakePlaceRepo) Update(_ context.Context, _ pg.Queryer, place *entity.Place) error {
	cp := *place
	f.current[place.Id] = &cp
	return nil
}

func (f *fakePlaceRepo) AppendReviewLog(_ context.Context, _ pg.Queryer, id entity.Id, status entity.ReviewStatus, entry entity.ReviewLogEntry) error {
	p, ok := f.current[id]
	if !ok {
		return &notFoundErr{}
	}
	p.Status = status
	p.ReviewLog = append(p.ReviewLog, entry)
	return nil
}

func (f *fakePlaceRepo) ReviewBatch(_ context.Context, _ pg.Queryer, ids []entity.Id, status entity.ReviewStatus, entry entity.ReviewLogEntry) (int, error) {
	n := 0
	for _, id := range ids {
		if p, ok := f.current[id]; ok {
			p.Status = status
			p.ReviewLog = append(p.ReviewLog, entry)
			n++
		}
	}
	return n, nil
}

func (f *fakePlaceRepo) ByIds(_ context.Context, _ pg.Queryer, ids []entity.Id) ([]*entity.Place, error) {
	out := make([]*entity.Place, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.current[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeOrganizationRepo has no moderated tags registered by default;
// tests that need clearance behavior populate Tags directly.
type fakeOrganizationRepo struct {
	Tags map[entity.Id][]entity.ModeratedTag
}

func newFakeOrganizationRepo() *fakeOrganizationRepo {
	return &fakeOrganizationRepo{Tags: make(map[entity.Id][]entity.ModeratedTag)}
}

func (f *fakeOrganizationRepo) Get(_ context.Context, _ pg.Queryer, _ entity.Id) (*entity.Organization, error) {
	return nil, &notFoundErr{}
}

func (f *fakeOrganizationRepo) ByApiToken(_ context.Context, _ pg.Queryer, _ string) (*entity.Organization, error) {
	return nil, &notFoundErr{}
}

func (f *fakeOrganizationRepo) AllModeratedTagsExcept(_ context.Context, _ pg.Queryer, excludeOrgId entity.Id) (map[entity.Id][]entity.ModeratedTag, error) {
	out := make(map[entity.Id][]entity.ModeratedTag)
	for orgId, tags := range f.Tags {
		if orgId == excludeOrgId {
			continue
		}
		out[orgId] = tags
	}
	return out, nil
}

// fakeClearanceRepo is an in-memory repo.PlaceClearanceRepo.
type fakeClearanceRepo struct {
	rows map[[2]entity.Id]*entity.PendingClearanceForPlace
}

func newFakeClearanceRepo() *fakeClearanceRepo {
	return &fakeClearanceRepo{rows: make(map[[2]entity.Id]*entity.PendingClearanceForPlace)}
}

func (f *fakeClearanceRepo) Upsert(_ context.Context, _ pg.Queryer, pending entity.PendingClearanceForPlace) error {
	key := [2]entity.Id{pending.OrgId, pending.PlaceId}
	if existing, ok := f.rows[key]; ok {
		pending.LastClearedRevision = existing.LastClearedRevision
	}
	cp := pending
	f.rows[key] = &cp
	return nil
}

func (f *fakeClearanceRepo) Pending(_ context.Context, _ pg.Queryer, orgId entity.Id, offset, limit int) ([]entity.PendingClearanceForPlace, error) {
	var out []entity.PendingClearanceForPlace
	for key, row := range f.rows {
		if key[0] == orgId {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlaceId < out[j].PlaceId })
	if offset > len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeClearanceRepo) CountPending(_ context.Context, _ pg.Queryer, orgId entity.Id) (int, error) {
	n := 0
	for key := range f.rows {
		if key[0] == orgId {
			n++
		}
	}
	return n, nil
}

func (f *fakeClearanceRepo) Get(_ context.Context, _ pg.Queryer, orgId, placeId entity.Id) (*entity.PendingClearanceForPlace, error) {
	row, ok := f.rows[[2]entity.Id{orgId, placeId}]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (f *fakeClearanceRepo) Apply(_ context.Context, _ pg.Queryer, orgId entity.Id, clearance entity.ClearanceForPlace, currentRevision entity.Revision) error {
	key := [2]entity.Id{orgId, clearance.PlaceId}
	row, ok := f.rows[key]
	if !ok {
		return &notFoundErr{}
	}
	row.LastClearedRevision = clearance.ClearedRevision
	if row.LastClearedRevision != nil && *row.LastClearedRevision == currentRevision {
		delete(f.rows, key)
	}
	return nil
}

// fakeEffects records every call instead of publishing anything.
type fakeEffects struct {
	reindexed []entity.Id
	added     []entity.Id
	updated   []entity.Id
}

func (f *fakeEffects) ReindexPlace(_ context.Context, placeId entity.Id) error {
	f.reindexed = append(f.reindexed, placeId)
	return nil
}

func (f *fakeEffects) NotifyPlaceAdded(_ context.Context, place *entity.Place) error {
	f.added = append(f.added, place.Id)
	return nil
}

func (f *fakeEffects) NotifyPlaceUpdated(_ context.Context, place *entity.Place) error {
	f.updated = append(f.updated, place.Id)
	return nil
}

// fakePlaceIndexer is an in-memory search.PlaceIndexer: Query returns
// every stored id whose place matches the filter's tag/category/bbox
// constraints, good enough to exercise SearchPlaces's hydrate/reorder
// logic without a real Postgres-backed index.
type fakePlaceIndexer struct {
	places map[entity.Id]*entity.Place
	order  []entity.Id
}

func newFakePlaceIndexer() *fakePlaceIndexer {
	return &fakePlaceIndexer{places: make(map[entity.Id]*entity.Place)}
}

func (idx *fakePlaceIndexer) AddOrUpdate(_ context.Context, place *entity.Place, _ search.AverageRatings) error {
	if _, ok := idx.places[place.Id]; !ok {
		idx.order = append(idx.order, place.Id)
	}
	cp := *place
	idx.places[place.Id] = &cp
	return nil
}

func (idx *fakePlaceIndexer) RemoveById(_ context.Context, id entity.Id) error {
	delete(idx.places, id)
	return nil
}

func (idx *fakePlaceIndexer) Flush(context.Context) error { return nil }

func (idx *fakePlaceIndexer) Query(_ context.Context, filter search.QueryFilter) ([]entity.Id, error) {
	var out []entity.Id
	for _, id := range idx.order {
		p, ok := idx.places[id]
		if !ok {
			continue
		}
		if filter.Bbox != nil && !filter.Bbox.Contains(p.Location.Pos) {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

type notFoundErr struct{}

func (e *notFoundErr) Error() string { return "not found" }
