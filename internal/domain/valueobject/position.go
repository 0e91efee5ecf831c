package valueobject

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Position errors.
var (
	// ErrUnknownDistanceMetric is returned when a metric name cannot be resolved.
	ErrUnknownDistanceMetric = errors.New("unknown distance metric")

	// ErrNonFiniteCoordinate is returned for NaN or infinite coordinates.
	ErrNonFiniteCoordinate = errors.New("coordinate must be a finite number")
)

// Position is an immutable point on the plane where warehouses and customers live.
// For the haversine metric X is read as longitude and Y as latitude, in degrees.
type Position struct {
	// X is the horizontal coordinate (longitude for haversine).
	X float64 `json:"x" yaml:"x"`

	// Y is the vertical coordinate (latitude for haversine).
	Y float64 `json:"y" yaml:"y"`
}

// NewPosition creates a new Position value object.
//
// Parameters:
//   - x: horizontal coordinate
//   - y: vertical coordinate
//
// Returns:
//   - Position: new Position value object
func NewPosition(x, y float64) Position {
	return Position{X: x, Y: y}
}

// Validate rejects NaN and infinite coordinates.
func (p Position) Validate() error {
	if !isFinite(p.X) || !isFinite(p.Y) {
		return fmt.Errorf("%w: %s", ErrNonFiniteCoordinate, p)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// DistanceTo returns the distance to other under the given metric.
// A nil metric falls back to Euclidean.
//
// Parameters:
//   - other: the position to measure to
//   - metric: the distance function to apply
//
// Returns:
//   - float64: the distance, always >= 0 and symmetric
func (p Position) DistanceTo(other Position, metric DistanceMetric) float64 {
	if metric == nil {
		metric = Euclidean
	}
	return metric(p, other)
}

// Equals reports whether two positions have identical coordinates.
func (p Position) Equals(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}

// String returns a formatted string representation.
//
// Returns:
//   - string: formatted position (e.g., "(3.0, 4.0)")
func (p Position) String() string {
	return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)
}

// DistanceMetric computes a symmetric, non-negative distance between two positions.
type DistanceMetric func(a, b Position) float64

// Euclidean is the straight-line distance and the default metric.
func Euclidean(a, b Position) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Manhattan is the grid distance |dx| + |dy|.
func Manhattan(a, b Position) float64 {
	return math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y)
}

// Haversine is the great-circle distance in kilometres, reading X as
// longitude and Y as latitude.
func Haversine(a, b Position) float64 {
	const earthRadiusKm = 6371.0

	lat1 := a.Y * math.Pi / 180
	lat2 := b.Y * math.Pi / 180
	dLat := (b.Y - a.Y) * math.Pi / 180
	dLon := (b.X - a.X) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h just past 1 for antipodal points.
	h = math.Min(math.Max(h, 0), 1)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Distance metric names accepted by ParseDistanceMetric.
const (
	MetricEuclidean = "euclidean"
	MetricManhattan = "manhattan"
	MetricHaversine = "haversine"
)

// ParseDistanceMetric resolves a metric by name. The empty name is Euclidean.
//
// Parameters:
//   - name: one of "euclidean", "manhattan", "haversine"
//
// Returns:
//   - DistanceMetric: the resolved metric
//   - error: ErrUnknownDistanceMetric if the name is not recognised
func ParseDistanceMetric(name string) (DistanceMetric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", MetricEuclidean:
		return Euclidean, nil
	case MetricManhattan:
		return Manhattan, nil
	case MetricHaversine:
		return Haversine, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDistanceMetric, name)
	}
}
