package domain

// Sample is one monitoring station reading. Samples are read-only inputs to
// the interpolation engine; the JSON shape matches the station list served
// at /api/air.
type Sample struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	AQI  float64 `json:"aqi"`
	Name string  `json:"name"`
}
