// Package places is the boundary to the restaurant-search and location
// collaborators. The dialogue core only reads the record shape; it does not
// care whether the data came through the local relay or a direct call.
package places

import (
	"context"
	"errors"
)

// ErrLocationUnavailable is returned when no location source is configured
// or the source cannot produce coordinates.
var ErrLocationUnavailable = errors.New("places: location unavailable")

// OpeningHours carries the only opening datum the upstream search exposes.
type OpeningHours struct {
	OpenNow *bool `json:"open_now,omitempty"`
}

// Restaurant is one nearby-search result. Owned by the search collaborator;
// field names mirror its wire format.
type Restaurant struct {
	Name         string        `json:"name"`
	Rating       float64       `json:"rating,omitempty"`
	Types        []string      `json:"types,omitempty"`
	PriceLevel   *int          `json:"price_level,omitempty"`
	Vicinity     string        `json:"vicinity,omitempty"`
	Distance     float64       `json:"distance,omitempty"`
	OpeningHours *OpeningHours `json:"opening_hours,omitempty"`
}

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Searcher fetches nearby restaurants for a coordinate.
type Searcher interface {
	Nearby(ctx context.Context, lat, lng float64) ([]Restaurant, error)
}

// LocationProvider resolves the user's current coordinates.
type LocationProvider interface {
	Locate(ctx context.Context) (LatLng, error)
}
