package location

import "strings"

// UpdateLocationRequest for POST /location. Coordinates win over city; with
// neither, the location is resolved from the client IP.
type UpdateLocationRequest struct {
	Latitude         *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude        *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	City             string   `json:"city,omitempty" validate:"max=100"`
	PermissionDenied bool     `json:"permission_denied,omitempty"`
}

// pairErrors reports a coordinate sent without its counterpart.
func (r *UpdateLocationRequest) pairErrors() map[string]string {
	switch {
	case r.Latitude != nil && r.Longitude == nil:
		return map[string]string{"longitude": "Longitude is required with latitude"}
	case r.Longitude != nil && r.Latitude == nil:
		return map[string]string{"latitude": "Latitude is required with longitude"}
	}
	return nil
}

func (r *UpdateLocationRequest) hasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

func (r *UpdateLocationRequest) city() string {
	return strings.TrimSpace(r.City)
}
