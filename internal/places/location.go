package places

import "context"

// StaticProvider serves a fixed coordinate, typically configured per
// deployment. The dialogue core has no geolocation of its own; the browser
// or caller owns that concern.
type StaticProvider struct {
	coord LatLng
	set   bool
}

func NewStaticProvider(lat, lng float64) *StaticProvider {
	if lat == 0 && lng == 0 {
		return &StaticProvider{}
	}
	return &StaticProvider{coord: LatLng{Lat: lat, Lng: lng}, set: true}
}

func (p *StaticProvider) Locate(_ context.Context) (LatLng, error) {
	if !p.set {
		return LatLng{}, ErrLocationUnavailable
	}
	return p.coord, nil
}
