// Package segmenter splits a pre-computed route geometry into day-sized
// driving legs under a maximum-driving-time constraint and derives the
// overnight stops between them.
package segmenter

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/tripweaver/internal/app/models"
	"github.com/FACorreiaa/tripweaver/internal/pkg/geo"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the route segmentation contract.
type Service interface {
	Segment(ctx context.Context, req models.SegmentationRequest) (*models.SegmentationResponse, error)
	CalculateOvernightStops(segments []models.Segment) []models.OvernightStop
}

type ServiceImpl struct {
	logger *zap.Logger
}

func NewServiceImpl(logger *zap.Logger) *ServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceImpl{logger: logger}
}

// waypointCut marks a geometry index where a named waypoint forces a
// day boundary regardless of accumulated driving time.
type waypointCut struct {
	index int
	name  string
}

// Segment walks the geometry accumulating distance and elapsed driving
// time proportionally (constant average speed along the route) and cuts
// a day leg as soon as either the daily driving cap is reached or the
// next named waypoint is hit, whichever comes first.
func (s *ServiceImpl) Segment(ctx context.Context, req models.SegmentationRequest) (*models.SegmentationResponse, error) {
	_, span := otel.Tracer("RouteSegmenter").Start(ctx, "Segment", trace.WithAttributes(
		attribute.Int("geometry.points", len(req.Geometry)),
		attribute.Float64("route.total_distance_km", req.TotalDistanceKm),
		attribute.Float64("route.total_duration_hours", req.TotalDurationHours),
		attribute.Float64("route.max_driving_hours", req.MaxDrivingHoursPerDay),
	))
	defer span.End()

	if err := validateRequest(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid segmentation request")
		return nil, err
	}

	departure, err := parseStart(req.StartDate, req.StartTime)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid start date or time")
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	pathKm := geo.PathDistanceKm(req.Geometry)
	cuts := s.resolveWaypointCuts(req.Geometry, req.Waypoints)

	segments := s.walk(req, departure, pathKm, cuts)
	stops := s.CalculateOvernightStops(segments)

	span.SetAttributes(
		attribute.Int("segments.count", len(segments)),
		attribute.Int("overnight_stops.count", len(stops)),
	)
	span.SetStatus(codes.Ok, "Route segmented")

	s.logger.Info("Route segmented",
		zap.Int("geometry_points", len(req.Geometry)),
		zap.Int("segments", len(segments)),
		zap.Int("overnight_stops", len(stops)))

	return &models.SegmentationResponse{
		Segments:       segments,
		OvernightStops: stops,
	}, nil
}

// walk performs the accumulation pass over the geometry edges.
func (s *ServiceImpl) walk(req models.SegmentationRequest, departure time.Time, pathKm float64, cuts map[int]string) []models.Segment {
	geometry := req.Geometry
	lastIdx := len(geometry) - 1

	// Degenerate two-point route: a single leg no matter the cap.
	if lastIdx < 1 {
		return nil
	}

	var (
		segments  []models.Segment
		segStart  = 0
		day       = 1
		distAcc   float64
		timeAcc   float64
		segDepart = departure
	)

	cut := func(endIdx int) {
		segGeometry := make([]models.GeoPoint, endIdx-segStart+1)
		copy(segGeometry, geometry[segStart:endIdx+1])
		arrival := segDepart.Add(time.Duration(timeAcc * float64(time.Hour)))
		segments = append(segments, models.Segment{
			Day:              day,
			StartLocation:    geometry[segStart],
			EndLocation:      geometry[endIdx],
			DistanceKm:       distAcc,
			DrivingTimeHours: timeAcc,
			DepartureTime:    segDepart,
			ArrivalTime:      arrival,
			Geometry:         segGeometry,
		})
		segStart = endIdx
		day++
		distAcc, timeAcc = 0, 0
		// Next leg departs the following calendar day at the trip's
		// configured start-of-day time.
		segDepart = nextMorning(departure, segDepart)
	}

	for i := 1; i <= lastIdx; i++ {
		edgeKm := geo.PointDistanceKm(geometry[i-1], geometry[i])
		// Scale the haversine edge against the route's reported totals
		// so segment sums reconcile with the provider's figures.
		var share float64
		if pathKm > 0 {
			share = edgeKm / pathKm
		} else {
			share = 1 / float64(lastIdx)
		}
		distAcc += req.TotalDistanceKm * share
		timeAcc += req.TotalDurationHours * share

		if i == lastIdx {
			cut(i)
			break
		}
		if _, isWaypoint := cuts[i]; isWaypoint || timeAcc >= req.MaxDrivingHoursPerDay {
			cut(i)
		}
	}

	return segments
}

// CalculateOvernightStops emits one stop per adjacent segment pair, at
// the earlier segment's end location. No stop follows the final segment.
func (s *ServiceImpl) CalculateOvernightStops(segments []models.Segment) []models.OvernightStop {
	if len(segments) < 2 {
		return []models.OvernightStop{}
	}
	stops := make([]models.OvernightStop, 0, len(segments)-1)
	for i := 0; i < len(segments)-1; i++ {
		arrive := segments[i].ArrivalTime
		depart := segments[i+1].DepartureTime
		stops = append(stops, models.OvernightStop{
			Location:          segments[i].EndLocation,
			Day:               segments[i].Day,
			ArrivalTime:       arrive,
			DepartureTime:     depart,
			StayDurationHours: depart.Sub(arrive).Hours(),
		})
	}
	return stops
}

// resolveWaypointCuts maps each named waypoint onto its nearest
// geometry index. Endpoints are ignored: they never start a new day.
func (s *ServiceImpl) resolveWaypointCuts(geometry []models.GeoPoint, waypoints []models.NamedWaypoint) map[int]string {
	cuts := make(map[int]string, len(waypoints))
	for _, wp := range waypoints {
		idx := geo.NearestPointIndex(geometry, wp.Coordinates)
		if idx <= 0 || idx >= len(geometry)-1 {
			continue
		}
		cuts[idx] = wp.Name
	}
	return cuts
}

func validateRequest(req models.SegmentationRequest) error {
	if len(req.Geometry) < 2 {
		return fmt.Errorf("%w: geometry requires at least 2 points, got %d", models.ErrValidation, len(req.Geometry))
	}
	for i, p := range req.Geometry {
		if !geo.ValidCoordinates(p.Lat(), p.Lng()) {
			return fmt.Errorf("%w: geometry point %d out of range", models.ErrValidation, i)
		}
	}
	if req.MaxDrivingHoursPerDay <= 0 {
		return fmt.Errorf("%w: max driving hours per day must be positive", models.ErrValidation)
	}
	if req.TotalDistanceKm < 0 || req.TotalDurationHours < 0 {
		return fmt.Errorf("%w: route totals must be non-negative", models.ErrValidation)
	}
	return nil
}

// parseStart combines the trip start date and daily departure time.
func parseStart(date, clock string) (time.Time, error) {
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	if clock == "" {
		clock = "09:00"
	}
	return time.Parse("2006-01-02 15:04", date+" "+clock)
}

// nextMorning returns the departure time for the day after prevDepart,
// keeping the trip's configured start-of-day clock time.
func nextMorning(tripStart, prevDepart time.Time) time.Time {
	next := prevDepart.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(),
		tripStart.Hour(), tripStart.Minute(), 0, 0, tripStart.Location())
}
