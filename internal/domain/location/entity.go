package location

// Source says how a stored location was obtained.
type Source string

const (
	SourceGPS     Source = "gps"
	SourceManual  Source = "manual"
	SourceIP      Source = "ip"
	SourceDefault Source = "default"
)

// Result is a resolved location. Latitude and Longitude are nil for a
// manually entered city.
type Result struct {
	City      string   `json:"city"`
	Country   string   `json:"country,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Source    Source   `json:"source"`
	Warning   string   `json:"warning,omitempty"`
}

// Default is used when neither the device nor the IP lookup yields a position.
type Default struct {
	City      string
	Latitude  float64
	Longitude float64
}

func (d Default) result(warning string) *Result {
	lat, lon := d.Latitude, d.Longitude
	return &Result{City: d.City, Latitude: &lat, Longitude: &lon, Source: SourceDefault, Warning: warning}
}
