// Package stories filters the flat story log down to the subset an
// observer may see. Visibility is a predicate evaluated at query time;
// stories are never mutated or deleted here.
package stories

import (
	"time"

	"github.com/hamza-bely/4hybd/internal/geo"
	"github.com/hamza-bely/4hybd/internal/models"
)

// DefaultMaxDistanceKm is the proximity threshold applied when the
// caller does not specify one.
const DefaultMaxDistanceKm = 10.0

// Visible returns every story that is both unexpired at now and within
// maxDistanceKm of the observer. Input order is preserved; no ordering
// with respect to distance is part of this contract. maxDistanceKm <= 0
// selects the default threshold.
func Visible(all []models.Story, observer geo.Point, maxDistanceKm float64, now time.Time) []models.Story {
	if maxDistanceKm <= 0 {
		maxDistanceKm = DefaultMaxDistanceKm
	}

	result := make([]models.Story, 0, len(all))
	for _, story := range all {
		if story.Expired(now) {
			continue
		}
		at := geo.Point{Lat: story.Latitude, Lng: story.Longitude}
		if geo.Distance(observer, at) > maxDistanceKm {
			continue
		}
		result = append(result, story)
	}
	return result
}
