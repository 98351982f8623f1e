package domain

import (
	"time"
)

// Listing is a rentable piece of equipment at a fixed position.
type Listing struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Description  string    `json:"description,omitempty"`
	PricePerHour float64   `json:"price_per_hour"`
	PriceUnit    string    `json:"price_unit"`
	ImageURL     string    `json:"image_url,omitempty"`
	Rating       float64   `json:"rating"`
	Location     *GeoPoint `json:"location,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Position returns the listing's coordinates, or the default machine
// location when the listing was saved without any.
func (l *Listing) Position() GeoPoint {
	if l.Location == nil || !l.Location.Valid() {
		return DefaultListingLocation
	}
	return *l.Location
}

// User is a renter or owner profile.
type User struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// TripRecord is a renter's rental request joined with its listing.
// ListingOwnerID is empty when the listing could not be resolved.
type TripRecord struct {
	ID              string    `json:"id"`
	RequesterID     string    `json:"requester_id"`
	ListingID       string    `json:"listing_id"`
	ListingOwnerID  string    `json:"listing_owner_id,omitempty"`
	ListingName     string    `json:"listing_name,omitempty"`
	Status          string    `json:"status"`
	TotalPrice      float64   `json:"total_price"`
	TotalPriceLabel string    `json:"total_price_label,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Route is a provider-computed driving path. DistanceMeters is nil when
// the provider did not report one.
type Route struct {
	Path            []GeoPoint `json:"path"`
	DistanceMeters  *float64   `json:"distance_meters,omitempty"`
	DurationSeconds *float64   `json:"duration_seconds,omitempty"`
}

// ReviewRecord is a synthesized, never persisted review.
type ReviewRecord struct {
	ID                int    `json:"id"`
	ReviewerName      string `json:"reviewer_name"`
	ReviewerAvatarRef string `json:"reviewer_avatar_ref"`
	Rating            int    `json:"rating"`
	RelativeDate      string `json:"relative_date"`
	Comment           string `json:"comment"`
}

// Proximity states shown by the listing detail map.
const (
	ProximityKnown           = "known"
	ProximityUnknownDistance = "unknown_distance"
	ProximityUnavailable     = "unavailable"
)

// ProximityView is everything the listing detail page needs to draw the
// route section.
type ProximityView struct {
	ListingID          string    `json:"listing_id"`
	Status             string    `json:"status"`
	Reason             string    `json:"reason,omitempty"`
	DistanceLabel      string    `json:"distance_label"`
	Origin             *GeoPoint `json:"origin,omitempty"`
	Destination        GeoPoint  `json:"destination"`
	Center             GeoPoint  `json:"center"`
	Route              *Route    `json:"route,omitempty"`
	Viewport           *Viewport `json:"viewport,omitempty"`
	StraightLineMeters *float64  `json:"straight_line_meters,omitempty"`
}

// NearbyListing is a listing card with its straight-line distance badge.
type NearbyListing struct {
	Listing
	DistanceMeters float64 `json:"distance_meters"`
	DistanceLabel  string  `json:"distance_label"`
}

// OwnerProfile is the public view of an owner and their listings.
type OwnerProfile struct {
	Owner     User      `json:"owner"`
	Listings  []Listing `json:"listings"`
	MapCenter GeoPoint  `json:"map_center"`
	Demo      bool      `json:"demo,omitempty"`
}
