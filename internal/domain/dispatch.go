package domain

// DispatchOrder is an order joined with its restaurant's coordinates, as
// loaded for the available-orders listing and dispatch matching.
type DispatchOrder struct {
	Order
	RestaurantLat *float64 `json:"-"`
	RestaurantLon *float64 `json:"-"`
}

func (d *DispatchOrder) RestaurantLocation() *RestaurantLocation {
	return &RestaurantLocation{
		RestaurantID: d.RestaurantID,
		Latitude:     d.RestaurantLat,
		Longitude:    d.RestaurantLon,
	}
}
