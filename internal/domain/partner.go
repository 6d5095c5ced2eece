package domain

type DeliveryPartner struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	IsOnline  bool     `json:"is_online"`
	IsActive  bool     `json:"is_active"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Rating    float64  `json:"rating"`
}

// HasLocation reports whether the partner published coordinates in its
// last presence update.
func (p *DeliveryPartner) HasLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}

type RestaurantLocation struct {
	RestaurantID int      `json:"restaurant_id"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

func (l *RestaurantLocation) Known() bool {
	return l != nil && l.Latitude != nil && l.Longitude != nil
}
