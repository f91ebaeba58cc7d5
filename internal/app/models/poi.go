package models

import "github.com/google/uuid"

// POI represents a point of interest discovered near a route.
// Kinds is a free-text, comma-separated tag string as returned by the
// upstream POI provider.
type POI struct {
	Name                 string   `json:"name"`
	Category             string   `json:"category"`
	Kinds                string   `json:"kinds,omitempty"`
	Rating               *float64 `json:"rating,omitempty"` // 0..5
	Latitude             float64  `json:"latitude,omitempty"`
	Longitude            float64  `json:"longitude,omitempty"`
	DetourTimeMinutes    *float64 `json:"detour_time_minutes,omitempty"`
	VisitDurationMinutes *float64 `json:"visit_duration_minutes,omitempty"`
	Description          string   `json:"description,omitempty"`
}

// RankingFactors holds the normalized [0,1] sub-scores behind a POI score.
type RankingFactors struct {
	InterestMatch    float64 `json:"interest_match"`
	Rating           float64 `json:"rating"`
	DetourEfficiency float64 `json:"detour_efficiency"`
	TimeEfficiency   float64 `json:"time_efficiency"`
}

// RankedPOI is a POI augmented with its combined score in [0,100].
type RankedPOI struct {
	POI
	Score          int            `json:"score"`
	RankingFactors RankingFactors `json:"ranking_factors"`
}

// RankingRequest asks for a POI set to be scored against user interests.
type RankingRequest struct {
	POIs          []POI    `json:"pois"`
	UserInterests []string `json:"user_interests"`
}

// RankingResponse carries the scored POIs, sorted descending by score.
type RankingResponse struct {
	RankedPOIs []RankedPOI `json:"ranked_pois"`
}

// DiscoveryStage identifies how far a progressive discovery call has come.
type DiscoveryStage string

const (
	StageIdle      DiscoveryStage = "idle"
	StageCached    DiscoveryStage = "cached"
	StageEnhanced  DiscoveryStage = "enhanced"
	StageValidated DiscoveryStage = "validated"
	StageComplete  DiscoveryStage = "complete"
)

// DiscoveryRequest drives a three-stage progressive POI fetch for a set
// of locations. CallerID identifies the caller for rate limiting; the
// transport layer fills it in (authenticated user id, else client IP).
type DiscoveryRequest struct {
	Locations        []string `json:"locations"`
	TravelType       string   `json:"travel_type"`
	Budget           string   `json:"budget"`
	EnableValidation bool     `json:"enable_validation"`
	CallerID         string   `json:"-"`
}

// TripContext tags a validation call with the surrounding trip details.
type TripContext struct {
	From       string `json:"from"`
	To         string `json:"to"`
	TravelType string `json:"travel_type"`
	Budget     string `json:"budget"`
}

// DiscoveryProgress is an immutable snapshot of a progressive discovery
// call, emitted at each stage transition. Progress is monotonic and
// reaches 100 exactly once, at stage complete.
type DiscoveryProgress struct {
	RequestID uuid.UUID      `json:"request_id"`
	Stage     DiscoveryStage `json:"stage"`
	Progress  int            `json:"progress"`
	Immediate []POI          `json:"immediate"`
	Enhanced  []POI          `json:"enhanced"`
	Validated []POI          `json:"validated"`
	// Locations whose fetch was declined by the rate limiter or failed
	// upstream. The call still completes with whatever data it gathered.
	RateLimited []string `json:"rate_limited,omitempty"`
	Failed      []string `json:"failed,omitempty"`
}

// Merged returns the deduplicated union of all stages. Earlier stages
// win on name conflicts; later stages only contribute novel names.
func (p DiscoveryProgress) Merged() []POI {
	seen := make(map[string]struct{}, len(p.Immediate)+len(p.Enhanced)+len(p.Validated))
	merged := make([]POI, 0, len(p.Immediate)+len(p.Enhanced)+len(p.Validated))
	for _, stage := range [][]POI{p.Immediate, p.Enhanced, p.Validated} {
		for _, poi := range stage {
			if _, ok := seen[poi.Name]; ok {
				continue
			}
			seen[poi.Name] = struct{}{}
			merged = append(merged, poi)
		}
	}
	return merged
}
