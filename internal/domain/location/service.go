package location

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/pkg/geoip"
	"github.com/matcha/matcha-api/internal/pkg/logger"
)

const (
	warnPermissionDenied = "Geolocation permission denied, location estimated from your IP address"
	warnLookupFailed     = "Your location could not be determined, a default city was used"
)

// Resolver looks an IP address up.
type Resolver interface {
	Lookup(ctx context.Context, ip string) (*geoip.Location, error)
}

// Writer stores a user's location.
type Writer interface {
	SetLocation(ctx context.Context, userID uuid.UUID, city string, lat, lon *float64) error
}

// Service resolves and stores user locations
type Service struct {
	resolver Resolver
	cache    Cache
	profiles Writer
	fallback Default
	timeout  time.Duration
}

// NewService creates location service. cache may be nil.
func NewService(resolver Resolver, cache Cache, profiles Writer, fallback Default, timeout time.Duration) *Service {
	return &Service{
		resolver: resolver,
		cache:    cache,
		profiles: profiles,
		fallback: fallback,
		timeout:  timeout,
	}
}

// Update stores the caller's location: device coordinates, else a typed city,
// else the IP position, else the configured default.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, req *UpdateLocationRequest, clientIP string) (*Result, error) {
	var result *Result
	switch {
	case req.hasCoordinates():
		result = &Result{City: req.city(), Latitude: req.Latitude, Longitude: req.Longitude, Source: SourceGPS}
	case req.city() != "":
		result = &Result{City: req.city(), Source: SourceManual}
	default:
		result = s.fromIP(ctx, clientIP)
		if req.PermissionDenied && result.Source == SourceIP {
			result.Warning = warnPermissionDenied
		}
	}

	if err := s.profiles.SetLocation(ctx, userID, result.City, result.Latitude, result.Longitude); err != nil {
		return nil, fmt.Errorf("save location: %w", err)
	}

	logger.LogInfo(ctx, "Location updated", "user_id", userID, "source", string(result.Source), "city", result.City)
	return result, nil
}

// fromIP never fails; lookup errors degrade to the default location.
func (s *Service) fromIP(ctx context.Context, clientIP string) *Result {
	loc, err := s.Lookup(ctx, clientIP)
	if err != nil {
		logger.LogWarn(ctx, "IP geolocation failed, using default location", "ip", clientIP, "error", err.Error())
		return s.fallback.result(warnLookupFailed)
	}
	return fromGeoIP(loc)
}

// Lookup resolves clientIP through the cache and the IP service. Errors are
// classified by the geoip client.
func (s *Service) Lookup(ctx context.Context, clientIP string) (*geoip.Location, error) {
	ip := publicIP(clientIP)

	if s.cache != nil && ip != "" {
		if loc, err := s.cache.Get(ctx, ip); err != nil {
			logger.LogWarn(ctx, "GeoIP cache read failed", "ip", ip, "error", err.Error())
		} else if loc != nil {
			return loc, nil
		}
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	loc, err := s.resolver.Lookup(lookupCtx, ip)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && ip != "" {
		if err := s.cache.Set(ctx, ip, loc); err != nil {
			logger.LogWarn(ctx, "GeoIP cache write failed", "ip", ip, "error", err.Error())
		}
	}
	return loc, nil
}

func fromGeoIP(loc *geoip.Location) *Result {
	lat, lon := loc.Latitude, loc.Longitude
	return &Result{City: loc.City, Country: loc.Country, Latitude: &lat, Longitude: &lon, Source: SourceIP}
}

// publicIP returns "" for addresses the IP service cannot place, which makes
// it resolve the server's own address instead.
func publicIP(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() {
		return ""
	}
	return parsed.String()
}
