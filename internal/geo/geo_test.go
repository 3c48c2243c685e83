package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceZeroForIdenticalPoints(t *testing.T) {
	p := Point{Lat: 48.8566, Lng: 2.3522}
	assert.Equal(t, 0.0, Distance(p, p))
}

func TestDistanceSymmetric(t *testing.T) {
	paris := Point{Lat: 48.8566, Lng: 2.3522}
	lyon := Point{Lat: 45.764, Lng: 4.8357}
	assert.InDelta(t, Distance(paris, lyon), Distance(lyon, paris), 1e-9)
}

func TestDistanceKnownValue(t *testing.T) {
	// Paris to Lyon is roughly 392 km great-circle.
	paris := Point{Lat: 48.8566, Lng: 2.3522}
	lyon := Point{Lat: 45.764, Lng: 4.8357}
	assert.InDelta(t, 392, Distance(paris, lyon), 3)
}

func TestDistanceAntipodal(t *testing.T) {
	a := Point{Lat: 0, Lng: 0}
	b := Point{Lat: 0, Lng: 180}
	assert.InDelta(t, math.Pi*EarthRadiusKm, Distance(a, b), 1e-6)
}

func TestDistanceOneDegreeOfLongitudeAtEquator(t *testing.T) {
	a := Point{Lat: 0, Lng: 0}
	b := Point{Lat: 0, Lng: 1}
	// One degree of arc on a 6371 km sphere.
	assert.InDelta(t, EarthRadiusKm*math.Pi/180, Distance(a, b), 1e-6)
}
