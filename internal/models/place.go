package models

import "encoding/json"

// Defaults for a places lookup.
const (
	DefaultPlaceCategory = "catering.restaurant"
	DefaultPlaceLimit    = 20
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Address is the structured address of a place. Fields the provider did not
// return are left nil.
type Address struct {
	Formatted   *string `json:"formatted,omitempty"`
	Street      *string `json:"street,omitempty"`
	HouseNumber *string `json:"housenumber,omitempty"`
	Suburb      *string `json:"suburb,omitempty"`
	City        *string `json:"city,omitempty"`
	State       *string `json:"state,omitempty"`
	Postcode    *string `json:"postcode,omitempty"`
	Country     *string `json:"country,omitempty"`
}

// Contact holds the optional phone and website of a place.
type Contact struct {
	Phone   *string `json:"phone"`
	Website *string `json:"website"`
}

// Restaurant is the normalized shape returned to clients.
type Restaurant struct {
	ID           string          `json:"id"`
	Name         *string         `json:"name,omitempty"`
	Location     Coordinates     `json:"location"`
	Address      Address         `json:"address"`
	Contact      Contact         `json:"contact"`
	Categories   []string        `json:"categories,omitempty"`
	Distance     *float64        `json:"distance,omitempty"`
	OpeningHours *string         `json:"opening_hours"`
	Wheelchair   json.RawMessage `json:"wheelchair"` // passed through as sent
}

// PlaceQuery selects places within Radius meters of Center.
type PlaceQuery struct {
	Center   Coordinates
	Radius   int
	Category string
	Limit    int
}
