// Package location verifies that a check-in request originates from inside a
// configured library zone. Check-in treats any verifier error as a failed
// verification and does not mutate state.
package location

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Zone struct {
	Name      string
	Latitude  float64
	Longitude float64
	RadiusM   float64
}

type Result struct {
	Allowed   bool
	Zone      string
	DistanceM float64
}

type Verifier interface {
	Verify(ctx context.Context, lat, lng float64) (Result, error)
}

// ZoneVerifier checks the reported coordinates against a fixed set of zones.
type ZoneVerifier struct {
	zones []Zone
}

func NewZoneVerifier(zones []Zone) *ZoneVerifier {
	return &ZoneVerifier{zones: zones}
}

// ParseZones parses the LOCATION_ZONES config format:
// "name,lat,lng,radius_m;name,lat,lng,radius_m".
func ParseZones(raw string) ([]Zone, error) {
	var zones []Zone
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ",")
		if len(fields) != 4 {
			return nil, fmt.Errorf("invalid zone %q: want name,lat,lng,radius_m", part)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid zone latitude %q: %w", fields[1], err)
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid zone longitude %q: %w", fields[2], err)
		}
		radius, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid zone radius %q: %w", fields[3], err)
		}
		zones = append(zones, Zone{
			Name:      strings.TrimSpace(fields[0]),
			Latitude:  lat,
			Longitude: lng,
			RadiusM:   radius,
		})
	}
	if len(zones) == 0 {
		return nil, fmt.Errorf("no location zones configured")
	}
	return zones, nil
}

func (v *ZoneVerifier) Verify(ctx context.Context, lat, lng float64) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	best := Result{Allowed: false, DistanceM: math.MaxFloat64}
	for _, zone := range v.zones {
		distance := haversineM(lat, lng, zone.Latitude, zone.Longitude)
		if distance <= zone.RadiusM {
			return Result{Allowed: true, Zone: zone.Name, DistanceM: math.Round(distance)}, nil
		}
		if distance < best.DistanceM {
			best = Result{Allowed: false, Zone: zone.Name, DistanceM: math.Round(distance)}
		}
	}
	return best, nil
}

// haversineM returns the great-circle distance between two points in meters.
func haversineM(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusM = 6371000

	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}
