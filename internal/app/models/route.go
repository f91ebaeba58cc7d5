package models

import (
	"time"
)

// GeoPoint is a single [longitude, latitude] pair as supplied by the
// routing provider. Index 0 is longitude, index 1 is latitude.
type GeoPoint [2]float64

// Lng returns the longitude component.
func (p GeoPoint) Lng() float64 { return p[0] }

// Lat returns the latitude component.
func (p GeoPoint) Lat() float64 { return p[1] }

// NamedWaypoint is an optional named stop along the route used as a
// day-boundary anchor during segmentation.
type NamedWaypoint struct {
	Name        string   `json:"name"`
	Coordinates GeoPoint `json:"coordinates"`
}

// Segment is a single day-sized driving leg of a route.
// Segments are contiguous and ordered by day; the concatenation of all
// segment geometries reconstructs the original route geometry.
type Segment struct {
	Day              int        `json:"day"`
	StartLocation    GeoPoint   `json:"start_location"`
	EndLocation      GeoPoint   `json:"end_location"`
	DistanceKm       float64    `json:"distance_km"`
	DrivingTimeHours float64    `json:"driving_time_hours"`
	DepartureTime    time.Time  `json:"departure_time"`
	ArrivalTime      time.Time  `json:"arrival_time"`
	Geometry         []GeoPoint `json:"geometry"`
}

// OvernightStop marks where a multi-day route pauses between two
// consecutive day segments. Derived data, recomputed with every
// segmentation; one stop per segment boundary.
type OvernightStop struct {
	Location          GeoPoint  `json:"location"`
	Day               int       `json:"day"`
	ArrivalTime       time.Time `json:"arrival_time"`
	DepartureTime     time.Time `json:"departure_time"`
	StayDurationHours float64   `json:"stay_duration_hours"`
}

// SegmentationRequest carries the pre-computed route geometry and the
// driving constraints used to split it into day legs.
type SegmentationRequest struct {
	Geometry              []GeoPoint      `json:"geometry"`
	TotalDistanceKm       float64         `json:"total_distance_km"`
	TotalDurationHours    float64         `json:"total_duration_hours"`
	MaxDrivingHoursPerDay float64         `json:"max_driving_hours_per_day"`
	StartDate             string          `json:"start_date"` // YYYY-MM-DD
	StartTime             string          `json:"start_time"` // HH:MM
	Waypoints             []NamedWaypoint `json:"waypoints,omitempty"`
}

// SegmentationResponse is the full result of a segmentation run.
type SegmentationResponse struct {
	Segments       []Segment       `json:"segments"`
	OvernightStops []OvernightStop `json:"overnight_stops"`
}
