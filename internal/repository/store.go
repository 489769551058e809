package repository

import "context"

// ReadStore bundles the three reference repositories behind the flat read
// surface the availability resolver consumes.
type ReadStore struct {
	Availability *AvailabilityRepo
	Regions      *RegionRepo
	Platforms    *PlatformRepo
}

// NewReadStore constructs a ReadStore over the given repositories.
func NewReadStore(a *AvailabilityRepo, r *RegionRepo, p *PlatformRepo) *ReadStore {
	return &ReadStore{Availability: a, Regions: r, Platforms: p}
}

func (s *ReadStore) ListAvailability(ctx context.Context, movieID, regionCode string) ([]Availability, error) {
	return s.Availability.ListFiltered(ctx, movieID, regionCode)
}

func (s *ReadStore) ListRegions(ctx context.Context) ([]Region, error) {
	return s.Regions.ListAll(ctx)
}

func (s *ReadStore) ListPlatforms(ctx context.Context) ([]Platform, error) {
	return s.Platforms.ListAll(ctx)
}
