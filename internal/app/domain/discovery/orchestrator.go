// Package discovery drives the three-stage progressive POI fetch:
// cached results first, fresh provider data second, AI-validated
// relevance third. Each stage adds to the previous stage's results and
// is reported to the caller as an immutable snapshot.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/tripweaver/internal/app/models"
	"github.com/FACorreiaa/tripweaver/internal/app/observability/metrics"
	"github.com/FACorreiaa/tripweaver/internal/app/ports"
	"github.com/FACorreiaa/tripweaver/internal/pkg/cache"
)

// Stage boundaries map to fixed progress values. Progress is monotonic
// and reaches 100 exactly once, at stage complete.
const (
	progressCachedStart   = 10
	progressCachedDone    = 33
	progressEnhancedStart = 40
	progressEnhancedDone  = 66
	progressValidateStart = 70
	progressComplete      = 100
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the progressive discovery contract. Discover is
// push-based: it emits a snapshot per stage transition and closes the
// channel at completion. DiscoverAndWait is the pull-based equivalent.
type Service interface {
	Discover(ctx context.Context, req models.DiscoveryRequest) (<-chan models.DiscoveryProgress, error)
	DiscoverAndWait(ctx context.Context, req models.DiscoveryRequest) (*models.DiscoveryProgress, error)
}

// Options tunes orchestrator behavior; explicit so tests never need
// process-level environment mutation.
type Options struct {
	CacheTTL      time.Duration
	FetchWorkers  int
	FetchTimeout  time.Duration
	POICategories []string
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		CacheTTL:      30 * time.Minute,
		FetchWorkers:  4,
		FetchTimeout:  10 * time.Second,
		POICategories: []string{"interesting_places", "tourist_facilities", "natural", "cultural"},
	}
}

type ServiceImpl struct {
	logger  *zap.Logger
	cache   ports.Cache
	limiter ports.RateLimiter
	source  ports.ExternalSource
	opts    Options

	// generation supersedes in-flight calls: a stage only commits and
	// emits if its call is still the newest one.
	generation atomic.Uint64
	flight     singleflight.Group
}

func NewServiceImpl(cachePort ports.Cache, limiter ports.RateLimiter, source ports.ExternalSource, opts Options, logger *zap.Logger) *ServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.FetchWorkers <= 0 {
		opts.FetchWorkers = DefaultOptions().FetchWorkers
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultOptions().CacheTTL
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultOptions().FetchTimeout
	}
	return &ServiceImpl{
		logger:  logger,
		cache:   cachePort,
		limiter: limiter,
		source:  source,
		opts:    opts,
	}
}

// Discover starts a progressive discovery run. A later Discover call
// supersedes any in-flight one: the superseded run stops emitting and
// discards its remaining results silently.
func (s *ServiceImpl) Discover(ctx context.Context, req models.DiscoveryRequest) (<-chan models.DiscoveryProgress, error) {
	if len(req.Locations) == 0 {
		return nil, fmt.Errorf("%w: at least one location is required", models.ErrValidation)
	}

	gen := s.generation.Add(1)
	out := make(chan models.DiscoveryProgress, 8)

	go s.run(ctx, gen, req, out)

	return out, nil
}

// DiscoverAndWait runs a discovery call to completion and returns the
// terminal snapshot. The snapshot always carries whatever data was
// accumulated, annotated with the stage reached.
func (s *ServiceImpl) DiscoverAndWait(ctx context.Context, req models.DiscoveryRequest) (*models.DiscoveryProgress, error) {
	ch, err := s.Discover(ctx, req)
	if err != nil {
		return nil, err
	}
	var last models.DiscoveryProgress
	for snapshot := range ch {
		last = snapshot
	}
	if last.Stage == "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// Superseded by a newer call before the first stage committed.
		return nil, fmt.Errorf("%w: discovery superseded", models.ErrEmptyResult)
	}
	return &last, nil
}

func (s *ServiceImpl) run(ctx context.Context, gen uint64, req models.DiscoveryRequest, out chan<- models.DiscoveryProgress) {
	defer close(out)

	ctx, span := otel.Tracer("DiscoveryOrchestrator").Start(ctx, "Discover", trace.WithAttributes(
		attribute.Int("locations.count", len(req.Locations)),
		attribute.String("travel_type", req.TravelType),
		attribute.String("budget", req.Budget),
		attribute.Bool("validation.enabled", req.EnableValidation),
	))
	defer span.End()

	snapshot := models.DiscoveryProgress{
		RequestID: uuid.New(),
		Stage:     models.StageIdle,
	}

	emit := func(stage models.DiscoveryStage, progress int) bool {
		if ctx.Err() != nil || s.generation.Load() != gen {
			return false
		}
		snapshot.Stage = stage
		snapshot.Progress = progress
		out <- snapshot
		return true
	}

	// Stage 1: cached. Cache failures are misses, never fatal.
	if !emit(models.StageCached, progressCachedStart) {
		return
	}
	stageStart := time.Now()
	snapshot.Immediate = s.readCached(ctx, req)
	recordStageDuration(ctx, models.StageCached, stageStart)
	if !emit(models.StageCached, progressCachedDone) {
		return
	}

	// Stage 2: enhanced. Per-location fan-out; a failing location must
	// not abort its siblings.
	if !emit(models.StageEnhanced, progressEnhancedStart) {
		return
	}
	stageStart = time.Now()
	enhanced, rateLimited, failed := s.fetchEnhanced(ctx, req)
	recordStageDuration(ctx, models.StageEnhanced, stageStart)
	snapshot.Enhanced = novelOnly(enhanced, snapshot.Immediate)
	snapshot.RateLimited = rateLimited
	snapshot.Failed = failed
	if !emit(models.StageEnhanced, progressEnhancedDone) {
		return
	}

	// Stage 3: validated. Optional; skipped when disabled or when
	// there is nothing to validate.
	merged := snapshot.Merged()
	if req.EnableValidation && len(merged) > 0 {
		if !emit(models.StageValidated, progressValidateStart) {
			return
		}
		stageStart = time.Now()
		validated := s.validate(ctx, req, merged)
		recordStageDuration(ctx, models.StageValidated, stageStart)
		snapshot.Validated = novelOnly(validated, merged)
	}

	span.SetAttributes(
		attribute.Int("pois.immediate", len(snapshot.Immediate)),
		attribute.Int("pois.enhanced", len(snapshot.Enhanced)),
		attribute.Int("pois.validated", len(snapshot.Validated)),
		attribute.Int("locations.rate_limited", len(rateLimited)),
		attribute.Int("locations.failed", len(failed)),
	)
	span.SetStatus(codes.Ok, "Discovery completed")

	emit(models.StageComplete, progressComplete)
}

// readCached collects previously discovered POIs for each location.
func (s *ServiceImpl) readCached(ctx context.Context, req models.DiscoveryRequest) []models.POI {
	var pois []models.POI
	seen := make(map[string]struct{})
	for _, location := range req.Locations {
		key := s.cacheKey(location, req)
		data, found, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("Cache read failed, treating as miss",
				zap.String("location", location), zap.Error(err))
			continue
		}
		if !found {
			if m := metrics.Get(); m != nil {
				m.CacheMissesTotal.Add(ctx, 1)
			}
			continue
		}
		if m := metrics.Get(); m != nil {
			m.CacheHitsTotal.Add(ctx, 1)
		}
		var cached []models.POI
		if err := json.Unmarshal(data, &cached); err != nil {
			s.logger.Warn("Corrupt cache entry, evicting",
				zap.String("location", location), zap.Error(err))
			_ = s.cache.Delete(ctx, key)
			continue
		}
		for _, poi := range cached {
			if _, dup := seen[poi.Name]; dup {
				continue
			}
			seen[poi.Name] = struct{}{}
			pois = append(pois, poi)
		}
	}
	return pois
}

type fetchResult struct {
	location    string
	pois        []models.POI
	rateLimited bool
	err         error
}

// fetchEnhanced fans out one fetch per location, each gated by the rate
// limiter and deduplicated per cache key while in flight.
func (s *ServiceImpl) fetchEnhanced(ctx context.Context, req models.DiscoveryRequest) (pois []models.POI, rateLimited, failed []string) {
	numWorkers := s.opts.FetchWorkers
	if numWorkers > len(req.Locations) {
		numWorkers = len(req.Locations)
	}

	workCh := make(chan string, len(req.Locations))
	resultCh := make(chan fetchResult, len(req.Locations))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for location := range workCh {
				resultCh <- s.fetchLocation(ctx, req, location)
			}
		}()
	}

	for _, location := range req.Locations {
		workCh <- location
	}
	close(workCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	byLocation := make(map[string][]models.POI, len(req.Locations))
	for result := range resultCh {
		switch {
		case result.rateLimited:
			rateLimited = append(rateLimited, result.location)
		case result.err != nil:
			s.logger.Warn("POI fetch failed, skipping location",
				zap.String("location", result.location), zap.Error(result.err))
			failed = append(failed, result.location)
		default:
			byLocation[result.location] = result.pois
		}
	}
	sort.Strings(rateLimited)
	sort.Strings(failed)

	// Deterministic output order: request order, then provider order.
	seen := make(map[string]struct{})
	for _, location := range req.Locations {
		for _, poi := range byLocation[location] {
			if _, dup := seen[poi.Name]; dup {
				continue
			}
			seen[poi.Name] = struct{}{}
			pois = append(pois, poi)
		}
	}
	return pois, rateLimited, failed
}

func (s *ServiceImpl) fetchLocation(ctx context.Context, req models.DiscoveryRequest, location string) fetchResult {
	decision, err := s.limiter.Check(ctx, req.CallerID)
	if err != nil {
		return fetchResult{location: location, err: fmt.Errorf("rate limit check: %w", err)}
	}
	if !decision.Allowed {
		s.logger.Info("Fetch declined by rate limiter",
			zap.String("location", location),
			zap.String("caller", req.CallerID),
			zap.Time("reset_at", decision.ResetAt))
		return fetchResult{location: location, rateLimited: true}
	}

	key := s.cacheKey(location, req)

	// Two concurrent misses on the same key would otherwise both hit
	// the provider; singleflight collapses them into one upstream call.
	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
		defer cancel()

		fetched, err := s.source.FetchPOIs(fetchCtx, location, s.opts.POICategories)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(fetched); err == nil {
			if err := s.cache.Set(ctx, key, data, s.opts.CacheTTL); err != nil {
				s.logger.Warn("Cache write failed",
					zap.String("location", location), zap.Error(err))
			}
		}
		return fetched, nil
	})
	if err != nil {
		if m := metrics.Get(); m != nil {
			m.ExternalFetchErrorsTotal.Add(ctx, 1)
		}
		return fetchResult{location: location, err: err}
	}
	return fetchResult{location: location, pois: v.([]models.POI)}
}

func recordStageDuration(ctx context.Context, stage models.DiscoveryStage, start time.Time) {
	if m := metrics.Get(); m != nil {
		m.DiscoveryStageDuration.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(attribute.String("stage", string(stage))))
	}
}

// validate sends the merged POI set to the AI relevance validator.
// Failures degrade to an empty validated stage rather than an error.
func (s *ServiceImpl) validate(ctx context.Context, req models.DiscoveryRequest, merged []models.POI) []models.POI {
	trip := models.TripContext{
		From:       req.Locations[0],
		To:         req.Locations[len(req.Locations)-1],
		TravelType: req.TravelType,
		Budget:     req.Budget,
	}
	validated, err := s.source.ValidatePOIs(ctx, merged, trip)
	if err != nil {
		s.logger.Warn("POI validation failed, keeping unvalidated set", zap.Error(err))
		return nil
	}
	return validated
}

func (s *ServiceImpl) cacheKey(location string, req models.DiscoveryRequest) string {
	return cache.NewKeyBuilder(s.logger).
		Add("scope", "discovery").
		AddLocation(location).
		AddTravelContext(req.TravelType, req.Budget).
		BuildOrDefault()
}

// novelOnly keeps the POIs whose names do not already appear in base.
// Earlier stages win on conflicts; later stages only add novel names.
func novelOnly(pois, base []models.POI) []models.POI {
	if len(pois) == 0 {
		return nil
	}
	existing := make(map[string]struct{}, len(base))
	for _, poi := range base {
		existing[poi.Name] = struct{}{}
	}
	out := make([]models.POI, 0, len(pois))
	for _, poi := range pois {
		if _, dup := existing[poi.Name]; dup {
			continue
		}
		existing[poi.Name] = struct{}{}
		out = append(out, poi)
	}
	return out
}
