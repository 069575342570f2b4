package domain

import "github.com/shopspring/decimal"

type ResourceKind string

const (
	KindRoom ResourceKind = "room"
	KindArea ResourceKind = "area"
)

type ResourceStatus string

const (
	ResourceAvailable   ResourceStatus = "available"
	ResourceOccupied    ResourceStatus = "occupied"
	ResourceReserved    ResourceStatus = "reserved"
	ResourceMaintenance ResourceStatus = "maintenance"
	ResourceUnavailable ResourceStatus = "unavailable"
)

// ResourceRef identifies the one physical unit a booking is held against.
// Rooms and areas live in separate tables; the kind tag selects which.
type ResourceRef struct {
	Kind ResourceKind
	ID   int64
}

// Resource is a bookable unit. Status is derived occupancy state: every
// booking transition that implies occupancy writes through to it.
type Resource struct {
	ID          int64
	Kind        ResourceKind
	Name        string
	RoomType    *string // rooms only
	Capacity    int
	Price       decimal.Decimal // per stay for rooms, per hour for areas
	Status      ResourceStatus
	Description *string
	ImageURL    *string
	AmenityIDs  []int64 // rooms only
}

func (r Resource) Ref() ResourceRef { return ResourceRef{Kind: r.Kind, ID: r.ID} }

type Amenity struct {
	ID          int64
	Description string
}

// AmenitiesPage is the paginated amenity listing the admin dashboard uses.
type AmenitiesPage struct {
	Items []Amenity
	Page  int
	Pages int
	Total int
}
