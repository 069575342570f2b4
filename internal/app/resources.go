package app

import (
	"context"
	"strings"

	"azurea_hotel/internal/domain"
)

// ResourceService owns the admin CRUD surface for rooms, areas and
// amenities, including the active-booking guards.
type ResourceService struct {
	resources domain.ResourceStore
	bookings  domain.BookingStore
	cache     domain.Cache
}

func NewResourceService(r domain.ResourceStore, b domain.BookingStore, c domain.Cache) *ResourceService {
	return &ResourceService{resources: r, bookings: b, cache: c}
}

func (s *ResourceService) CreateResource(ctx context.Context, actor domain.Actor, r domain.Resource) (domain.Resource, error) {
	if !actor.Role.IsStaff() {
		return domain.Resource{}, domain.Forbiddenf("only staff or admin may manage properties")
	}
	if strings.TrimSpace(r.Name) == "" {
		return domain.Resource{}, domain.Invalidf("name is required")
	}
	if r.Capacity <= 0 {
		return domain.Resource{}, domain.Invalidf("capacity must be positive")
	}
	if r.Price.IsNegative() {
		return domain.Resource{}, domain.Invalidf("price cannot be negative")
	}
	if r.Status == "" {
		r.Status = domain.ResourceAvailable
	}
	id, err := s.resources.CreateResource(ctx, r)
	if err != nil {
		return domain.Resource{}, err
	}
	r.ID = id
	s.invalidate(ctx)
	return r, nil
}

func (s *ResourceService) GetResource(ctx context.Context, ref domain.ResourceRef) (domain.Resource, error) {
	return s.resources.GetResource(ctx, ref)
}

func (s *ResourceService) ListResources(ctx context.Context, kind domain.ResourceKind) ([]domain.Resource, error) {
	return s.resources.ListResources(ctx, kind)
}

// UpdateResource applies an edit. While the resource has active bookings,
// only description and amenities may change; everything else is frozen
// until the stay concludes.
func (s *ResourceService) UpdateResource(ctx context.Context, actor domain.Actor, r domain.Resource) (domain.Resource, error) {
	if !actor.Role.IsStaff() {
		return domain.Resource{}, domain.Forbiddenf("only staff or admin may manage properties")
	}
	cur, err := s.resources.GetResource(ctx, r.Ref())
	if err != nil {
		return domain.Resource{}, err
	}

	active, err := s.bookings.ActiveBookingCount(ctx, r.Ref())
	if err != nil {
		return domain.Resource{}, err
	}
	if active > 0 && touchesBlockedFields(cur, r) {
		return domain.Resource{}, domain.Conflictf("cannot edit property with active bookings")
	}
	if r.Status != cur.Status && (r.Status == domain.ResourceUnavailable || r.Status == domain.ResourceMaintenance) && active > 0 {
		return domain.Resource{}, domain.Conflictf("cannot take property out of service with active bookings")
	}

	if err := s.resources.UpdateResource(ctx, r); err != nil {
		return domain.Resource{}, err
	}
	s.invalidate(ctx)
	return r, nil
}

func (s *ResourceService) DeleteResource(ctx context.Context, actor domain.Actor, ref domain.ResourceRef) error {
	if !actor.Role.IsStaff() {
		return domain.Forbiddenf("only staff or admin may manage properties")
	}
	active, err := s.bookings.ActiveBookingCount(ctx, ref)
	if err != nil {
		return err
	}
	if active > 0 {
		return domain.Conflictf("cannot delete property with active bookings")
	}
	if err := s.resources.DeleteResource(ctx, ref); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// touchesBlockedFields reports whether the edit reaches beyond the
// allow-list (description, amenities).
func touchesBlockedFields(cur, upd domain.Resource) bool {
	if upd.Name != cur.Name || upd.Capacity != cur.Capacity || upd.Status != cur.Status {
		return true
	}
	if !upd.Price.Equal(cur.Price) {
		return true
	}
	if derefStr(upd.RoomType) != derefStr(cur.RoomType) {
		return true
	}
	return false
}

// ---- amenities ----

func (s *ResourceService) CreateAmenity(ctx context.Context, actor domain.Actor, description string) (domain.Amenity, error) {
	if !actor.Role.IsStaff() {
		return domain.Amenity{}, domain.Forbiddenf("only staff or admin may manage amenities")
	}
	if strings.TrimSpace(description) == "" {
		return domain.Amenity{}, domain.Invalidf("description is required")
	}
	id, err := s.resources.CreateAmenity(ctx, description)
	if err != nil {
		return domain.Amenity{}, err
	}
	return domain.Amenity{ID: id, Description: description}, nil
}

func (s *ResourceService) GetAmenity(ctx context.Context, id int64) (domain.Amenity, error) {
	return s.resources.GetAmenity(ctx, id)
}

func (s *ResourceService) ListAmenities(ctx context.Context, page, pageSize int) (domain.AmenitiesPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 15
	}
	return s.resources.ListAmenities(ctx, page, pageSize)
}

func (s *ResourceService) UpdateAmenity(ctx context.Context, actor domain.Actor, a domain.Amenity) error {
	if !actor.Role.IsStaff() {
		return domain.Forbiddenf("only staff or admin may manage amenities")
	}
	if strings.TrimSpace(a.Description) == "" {
		return domain.Invalidf("description is required")
	}
	return s.resources.UpdateAmenity(ctx, a)
}

func (s *ResourceService) DeleteAmenity(ctx context.Context, actor domain.Actor, id int64) error {
	if !actor.Role.IsStaff() {
		return domain.Forbiddenf("only staff or admin may manage amenities")
	}
	return s.resources.DeleteAmenity(ctx, id)
}

func (s *ResourceService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, availabilityKey)
	_ = s.cache.Del(ctx, statsKey)
}
