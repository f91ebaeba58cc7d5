package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/tripweaver/internal/app/domain/images"
	"github.com/FACorreiaa/tripweaver/internal/app/domain/ranking"
	"github.com/FACorreiaa/tripweaver/internal/app/domain/segmenter"
	"github.com/FACorreiaa/tripweaver/internal/app/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func segmentRouter() *gin.Engine {
	r := gin.New()
	h := NewItineraryHandlers(segmenter.NewServiceImpl(nil), zap.NewNop())
	r.POST("/itinerary/segments", h.HandleSegmentRoute)
	return r
}

func TestHandleSegmentRoute(t *testing.T) {
	router := segmentRouter()

	geometry := make([]models.GeoPoint, 11)
	for i := range geometry {
		geometry[i] = models.GeoPoint{8.0, 40.0 + 0.1*float64(i)}
	}

	w := postJSON(t, router, "/itinerary/segments", models.SegmentationRequest{
		Geometry:              geometry,
		TotalDistanceKm:       900,
		TotalDurationHours:    10,
		MaxDrivingHoursPerDay: 3.5,
		StartDate:             "2025-06-01",
		StartTime:             "08:00",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SegmentationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Segments, 3)
	assert.Len(t, resp.OvernightStops, 2)
}

func TestHandleSegmentRouteValidationError(t *testing.T) {
	router := segmentRouter()

	w := postJSON(t, router, "/itinerary/segments", models.SegmentationRequest{
		Geometry:              []models.GeoPoint{{8.0, 40.0}},
		MaxDrivingHoursPerDay: 4,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSegmentRouteMalformedBody(t *testing.T) {
	router := segmentRouter()

	req := httptest.NewRequest(http.MethodPost, "/itinerary/segments", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func rankingRouter() *gin.Engine {
	r := gin.New()
	h := NewRankingHandlers(ranking.NewServiceImpl(nil), zap.NewNop())
	r.POST("/pois/rank", h.HandleRankPOIs)
	return r
}

func TestHandleRankPOIs(t *testing.T) {
	router := rankingRouter()

	rating := 4.5
	w := postJSON(t, router, "/pois/rank", models.RankingRequest{
		POIs: []models.POI{
			{Name: "Quiet Corner"},
			{Name: "Famous Museum", Category: "Museum", Rating: &rating},
		},
		UserInterests: []string{"art"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.RankingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.RankedPOIs, 2)
	assert.Equal(t, "Famous Museum", resp.RankedPOIs[0].Name)
}

func TestHandleRankPOIsTopAndMinScore(t *testing.T) {
	router := rankingRouter()

	rating := 5.0
	w := postJSON(t, router, "/pois/rank?top=1&min_score=10", models.RankingRequest{
		POIs: []models.POI{
			{Name: "A", Rating: &rating},
			{Name: "B"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.RankingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.RankedPOIs, 1)
}

func TestHandleRankPOIsEmptySet(t *testing.T) {
	router := rankingRouter()
	w := postJSON(t, router, "/pois/rank", models.RankingRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// stubSource serves canned image candidates through the port.
type stubSource struct {
	candidates []models.ImageCandidate
	err        error
}

func (s *stubSource) FetchPOIs(context.Context, string, []string) ([]models.POI, error) {
	return nil, nil
}

func (s *stubSource) FetchImageCandidates(context.Context, string) ([]models.ImageCandidate, error) {
	return s.candidates, s.err
}

func (s *stubSource) ValidatePOIs(_ context.Context, pois []models.POI, _ models.TripContext) ([]models.POI, error) {
	return pois, nil
}

func imageRouter(source *stubSource) *gin.Engine {
	r := gin.New()
	h := NewImageHandlers(images.NewServiceImpl(nil), source, zap.NewNop())
	r.POST("/images/rank", h.HandleRankImages)
	r.POST("/images/best", h.HandleBestImage)
	return r
}

func TestHandleRankImages(t *testing.T) {
	router := imageRouter(&stubSource{})

	w := postJSON(t, router, "/images/rank", models.ImageRankingRequest{
		SubjectName: "Belem Tower",
		Candidates: []models.ImageCandidate{
			{URL: "a", Title: "random", Source: "blog.example", Width: 320, Height: 240},
			{URL: "b", Title: "Belem Tower", Source: "wikipedia.org", Width: 1920, Height: 1080},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ImageRankingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.RankedImages, 2)
	assert.Equal(t, "b", resp.RankedImages[0].URL)
}

func TestHandleBestImage(t *testing.T) {
	router := imageRouter(&stubSource{})

	w := postJSON(t, router, "/images/best", models.ImageRankingRequest{
		SubjectName: "Belem Tower",
		Candidates: []models.ImageCandidate{
			{URL: "only", Title: "Belem Tower", Source: "wikipedia.org", Width: 1280, Height: 720},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var best models.ScoredImage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &best))
	assert.Equal(t, "only", best.URL)
	assert.Positive(t, best.Score)
}

func TestHandleBestImageNoCandidates(t *testing.T) {
	router := imageRouter(&stubSource{})
	w := postJSON(t, router, "/images/best", models.ImageRankingRequest{SubjectName: "X"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleBestImageFetchesCandidatesWhenNoneSupplied(t *testing.T) {
	router := imageRouter(&stubSource{candidates: []models.ImageCandidate{
		{URL: "fetched", Title: "Pena Palace", Source: "visitportugal.com", Width: 1920, Height: 1080},
	}})

	w := postJSON(t, router, "/images/best", models.ImageRankingRequest{SubjectName: "Pena Palace"})
	require.Equal(t, http.StatusOK, w.Code)

	var best models.ScoredImage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &best))
	assert.Equal(t, "fetched", best.URL)
}

func TestHandleBestImageProviderRateLimited(t *testing.T) {
	router := imageRouter(&stubSource{err: models.ErrRateLimited})
	w := postJSON(t, router, "/images/best", models.ImageRankingRequest{SubjectName: "X"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

// stubDiscovery feeds canned snapshots through the Service interface.
type stubDiscovery struct {
	snapshots []models.DiscoveryProgress
	err       error
}

func (s *stubDiscovery) Discover(context.Context, models.DiscoveryRequest) (<-chan models.DiscoveryProgress, error) {
	if s.err != nil {
		return nil, s.err
	}
	ch := make(chan models.DiscoveryProgress, len(s.snapshots))
	for _, snapshot := range s.snapshots {
		ch <- snapshot
	}
	close(ch)
	return ch, nil
}

func (s *stubDiscovery) DiscoverAndWait(context.Context, models.DiscoveryRequest) (*models.DiscoveryProgress, error) {
	if s.err != nil {
		return nil, s.err
	}
	last := s.snapshots[len(s.snapshots)-1]
	return &last, nil
}

func discoveryRouter(stub *stubDiscovery) *gin.Engine {
	r := gin.New()
	h := NewDiscoveryHandlers(stub, zap.NewNop())
	r.POST("/discovery", h.HandleDiscover)
	return r
}

func TestHandleDiscoverBlocking(t *testing.T) {
	stub := &stubDiscovery{snapshots: []models.DiscoveryProgress{
		{Stage: models.StageComplete, Progress: 100, Immediate: []models.POI{{Name: "Alpha"}}},
	}}
	router := discoveryRouter(stub)

	w := postJSON(t, router, "/discovery?progressive=false", models.DiscoveryRequest{
		Locations: []string{"Lisbon"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var snapshot models.DiscoveryProgress
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.Equal(t, models.StageComplete, snapshot.Stage)
	assert.Equal(t, 100, snapshot.Progress)
}

func TestHandleDiscoverStreamsSSE(t *testing.T) {
	stub := &stubDiscovery{snapshots: []models.DiscoveryProgress{
		{Stage: models.StageCached, Progress: 10},
		{Stage: models.StageComplete, Progress: 100},
	}}
	router := discoveryRouter(stub)

	w := postJSON(t, router, "/discovery", models.DiscoveryRequest{
		Locations: []string{"Lisbon"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")
	assert.Equal(t, 2, strings.Count(w.Body.String(), "event:progress"))
}

func TestHandleDiscoverValidationError(t *testing.T) {
	stub := &stubDiscovery{err: models.ErrValidation}
	router := discoveryRouter(stub)

	w := postJSON(t, router, "/discovery", models.DiscoveryRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
