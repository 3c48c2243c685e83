// Package position abstracts acquisition of the observer's location.
// Lookups are bounded: a provider that cannot answer within the
// timeout fails instead of hanging, and callers treat that failure as
// fatal for the whole proximity query.
package position

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hamza-bely/4hybd/internal/geo"
)

// DefaultTimeout bounds how long a position lookup may take.
const DefaultTimeout = 10 * time.Second

// ErrUnavailable reports that the observer position could not be
// obtained in time. There is no fallback to an unfiltered view.
var ErrUnavailable = errors.New("position unavailable")

// Provider resolves the current observer position.
type Provider interface {
	Current(ctx context.Context) (geo.Point, error)
}

// Static is a Provider pinned to a fixed point, used when the caller
// already knows the observer position.
type Static struct {
	Point geo.Point
}

// Current returns the pinned point.
func (s Static) Current(context.Context) (geo.Point, error) {
	return s.Point, nil
}

// ParsePoint parses a "lat,lng" pair.
func ParsePoint(raw string) (geo.Point, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return geo.Point{}, fmt.Errorf("invalid position %q", raw)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("invalid latitude %q", parts[0])
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("invalid longitude %q", parts[1])
	}
	return geo.Point{Lat: lat, Lng: lng}, nil
}

// Resolve runs the provider under the bounded wait. A zero timeout
// selects DefaultTimeout. Context expiry maps to ErrUnavailable.
func Resolve(ctx context.Context, provider Provider, timeout time.Duration) (geo.Point, error) {
	if provider == nil {
		return geo.Point{}, ErrUnavailable
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	point, err := provider.Current(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return geo.Point{}, ErrUnavailable
		}
		return geo.Point{}, errors.Join(ErrUnavailable, err)
	}
	return point, nil
}
