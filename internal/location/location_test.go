package location

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseZones(t *testing.T) {
	zones, err := ParseZones("main-library,39.9042,116.4074,100;branch-library,39.9142,116.4174,50")
	require.NoError(t, err)
	require.Len(t, zones, 2)

	assert.Equal(t, "main-library", zones[0].Name)
	assert.InDelta(t, 39.9042, zones[0].Latitude, 1e-9)
	assert.InDelta(t, 116.4074, zones[0].Longitude, 1e-9)
	assert.InDelta(t, 100, zones[0].RadiusM, 1e-9)
	assert.Equal(t, "branch-library", zones[1].Name)
}

func TestParseZonesInvalid(t *testing.T) {
	_, err := ParseZones("")
	assert.Error(t, err)

	_, err = ParseZones("main-library,39.9042,116.4074")
	assert.Error(t, err)

	_, err = ParseZones("main-library,not-a-number,116.4074,100")
	assert.Error(t, err)
}

func TestVerifyInsideZone(t *testing.T) {
	verifier := NewZoneVerifier([]Zone{
		{Name: "main-library", Latitude: 39.9042, Longitude: 116.4074, RadiusM: 100},
	})

	result, err := verifier.Verify(context.Background(), 39.9042, 116.4074)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, "main-library", result.Zone)
	assert.Zero(t, result.DistanceM)
}

func TestVerifyOutsideZoneReportsNearest(t *testing.T) {
	verifier := NewZoneVerifier([]Zone{
		{Name: "main-library", Latitude: 39.9042, Longitude: 116.4074, RadiusM: 100},
		{Name: "branch-library", Latitude: 39.9142, Longitude: 116.4174, RadiusM: 50},
	})

	// Roughly 1.1km north of the main library.
	result, err := verifier.Verify(context.Background(), 39.9142, 116.4074)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.NotEmpty(t, result.Zone)
	assert.Greater(t, result.DistanceM, 100.0)
}

func TestVerifyJustInsideRadius(t *testing.T) {
	verifier := NewZoneVerifier([]Zone{
		{Name: "main-library", Latitude: 39.9042, Longitude: 116.4074, RadiusM: 100},
	})

	// ~55m north.
	result, err := verifier.Verify(context.Background(), 39.9047, 116.4074)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Greater(t, result.DistanceM, 0.0)
	assert.LessOrEqual(t, result.DistanceM, 100.0)
}
