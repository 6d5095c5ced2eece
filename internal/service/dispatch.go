package service

import (
	"fastfoodie/internal/domain"
	"fastfoodie/internal/geo"
)

// DefaultGeofenceRadiusKM bounds how far from the restaurant a partner
// may be and still get dispatched to.
//
// Two historical copies of the dispatch logic disagreed on this value
// (and on whether handed_over orders are still dispatchable); the
// geofenced, handover-inclusive behavior is the canonical one here.
const DefaultGeofenceRadiusKM = 5.0

// MatchPartners selects the delivery partners eligible for a dispatch
// notification: online and active, and within radiusKM of the restaurant
// when both locations are known. A candidate or restaurant with missing
// coordinates is included unconditionally, so absent location data
// degrades to wider fanout instead of starving dispatch.
//
// Pure function: no side effects, no clock, no storage.
func MatchPartners(restaurantLoc *domain.RestaurantLocation, candidates []domain.DeliveryPartner, radiusKM float64) []domain.DeliveryPartner {
	var matched []domain.DeliveryPartner
	for _, p := range candidates {
		if !p.IsOnline || !p.IsActive {
			continue
		}
		if !partnerWithinReach(restaurantLoc, &p, radiusKM) {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}

func partnerWithinReach(restaurantLoc *domain.RestaurantLocation, p *domain.DeliveryPartner, radiusKM float64) bool {
	if !restaurantLoc.Known() || !p.HasLocation() {
		return true
	}
	restaurant := geo.Point{Lat: *restaurantLoc.Latitude, Lon: *restaurantLoc.Longitude}
	partner := geo.Point{Lat: *p.Latitude, Lon: *p.Longitude}
	return geo.WithinRadius(restaurant, partner, radiusKM)
}
