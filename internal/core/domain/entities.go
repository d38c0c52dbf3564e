package domain

import "strings"

// Role represents a principal's role in the marketplace
type Role string

const (
	RoleGuest Role = "guest"
	RoleHost  Role = "host"
	RoleAdmin Role = "admin"
)

// PrincipalID is the external identity of whoever is making the request.
// Every store keys its rows by this value, never by a store-local id.
type PrincipalID string

// String returns the raw identifier
func (p PrincipalID) String() string {
	return string(p)
}

// IsZero reports whether no principal was resolved
func (p PrincipalID) IsZero() bool {
	return strings.TrimSpace(string(p)) == ""
}

// AuthContext is resolved once per request by the auth middleware and
// passed to services by value.
type AuthContext struct {
	Principal   PrincipalID
	Email       string
	DisplayName string
	Role        Role
}

// Anonymous is the context of an unauthenticated request
var Anonymous = AuthContext{Role: RoleGuest}

// IsAuthenticated reports whether a principal is attached
func (a AuthContext) IsAuthenticated() bool {
	return !a.Principal.IsZero()
}

// IsAdmin reports whether the principal holds the admin role
func (a AuthContext) IsAdmin() bool {
	return a.IsAuthenticated() && a.Role == RoleAdmin
}

// Geometry is a GeoJSON point, coordinates are [lon, lat]
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// FallbackLongitude and FallbackLatitude are used whenever a listing has
// no coordinates of its own.
const (
	FallbackLongitude = 77.5946
	FallbackLatitude  = 12.9716
)

// NewPoint builds a point geometry
func NewPoint(lon, lat float64) Geometry {
	return Geometry{Type: "Point", Coordinates: [2]float64{lon, lat}}
}

// FallbackPoint returns the placeholder geometry
func FallbackPoint() Geometry {
	return NewPoint(FallbackLongitude, FallbackLatitude)
}
