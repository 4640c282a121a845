package models

// LocationCandidate is one autocomplete match returned by the provider
type LocationCandidate struct {
	Key           string `json:"Key"`
	LocalizedName string `json:"LocalizedName"`
	Country       struct {
		ID            string `json:"ID"`
		LocalizedName string `json:"LocalizedName"`
	} `json:"Country"`
}

// GeoPosition is the provider's coordinate block; both fields may be absent
type GeoPosition struct {
	Latitude  *float64 `json:"Latitude"`
	Longitude *float64 `json:"Longitude"`
}

// LocationDetails is the provider's full record for a location key
type LocationDetails struct {
	Key           string       `json:"Key"`
	LocalizedName string       `json:"LocalizedName"`
	GeoPosition   *GeoPosition `json:"GeoPosition"`
}
