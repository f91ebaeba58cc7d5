// Package ranking scores POIs against traveler interest and budget
// context. Scoring is pure and deterministic; safe for concurrent use.
package ranking

import (
	"sort"

	"go.uber.org/zap"

	"github.com/FACorreiaa/tripweaver/internal/app/models"
	"github.com/FACorreiaa/tripweaver/internal/pkg/scoring"
)

// Weights control the contribution of each ranking factor. They should
// sum to 1; DefaultWeights reflects the product defaults.
type Weights struct {
	Interest float64
	Rating   float64
	Detour   float64
	Time     float64
}

func DefaultWeights() Weights {
	return Weights{Interest: 0.4, Rating: 0.3, Detour: 0.2, Time: 0.1}
}

// synonyms maps a user interest to provider category/kind terms that
// should count as a partial match.
var synonyms = map[string][]string{
	"food":      {"restaurant", "cafe", "bakery", "cuisine", "dining", "foods"},
	"history":   {"historic", "monument", "castle", "archaeology", "ruins", "heritage"},
	"nature":    {"park", "natural", "garden", "beach", "forest", "lake", "waterfall"},
	"art":       {"museum", "gallery", "theatre", "sculpture", "cultural"},
	"culture":   {"museum", "theatre", "historic", "religion", "architecture"},
	"shopping":  {"market", "mall", "shop", "bazaar"},
	"adventure": {"hiking", "climbing", "sport", "diving", "kayaking", "trail"},
	"nightlife": {"bar", "club", "pub", "casino"},
	"family":    {"zoo", "aquarium", "amusement", "playground", "theme_park"},
	"relax":     {"spa", "beach", "thermal", "wellness"},
}

var _ Service = (*ServiceImpl)(nil)

// Service defines the POI ranking contract.
type Service interface {
	Score(poi models.POI, interests []string, weights Weights) models.RankedPOI
	RankPOIs(pois []models.POI, interests []string) []models.RankedPOI
	TopRankedPOIs(pois []models.POI, interests []string, n int) []models.RankedPOI
	FilterByMinScore(ranked []models.RankedPOI, threshold int) []models.RankedPOI
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

// Score computes the weighted score for a single POI.
func (s *ServiceImpl) Score(poi models.POI, interests []string, weights Weights) models.RankedPOI {
	factors := models.RankingFactors{
		InterestMatch:    interestMatch(poi, interests),
		Rating:           ratingScore(poi),
		DetourEfficiency: detourEfficiency(poi),
		TimeEfficiency:   timeEfficiency(poi),
	}
	combined := factors.InterestMatch*weights.Interest +
		factors.Rating*weights.Rating +
		factors.DetourEfficiency*weights.Detour +
		factors.TimeEfficiency*weights.Time

	return models.RankedPOI{
		POI:            poi,
		Score:          scoring.Round(combined * 100),
		RankingFactors: factors,
	}
}

// RankPOIs scores every POI and sorts descending by score. The sort is
// stable: POIs with equal scores keep their input order, which is the
// documented tie-break policy.
func (s *ServiceImpl) RankPOIs(pois []models.POI, interests []string) []models.RankedPOI {
	weights := DefaultWeights()
	ranked := make([]models.RankedPOI, len(pois))
	for i, poi := range pois {
		ranked[i] = s.Score(poi, interests, weights)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// TopRankedPOIs returns the n best POIs for the given interests.
func (s *ServiceImpl) TopRankedPOIs(pois []models.POI, interests []string, n int) []models.RankedPOI {
	ranked := s.RankPOIs(pois, interests)
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// FilterByMinScore drops entries scoring below threshold.
func (s *ServiceImpl) FilterByMinScore(ranked []models.RankedPOI, threshold int) []models.RankedPOI {
	out := make([]models.RankedPOI, 0, len(ranked))
	for _, r := range ranked {
		if r.Score >= threshold {
			out = append(out, r)
		}
	}
	return out
}

// interestMatch scores how well the POI matches the user's interests:
// a category substring match counts double a kinds-token or synonym
// match. Normalized by the best possible sum; an empty interest list is
// neutral rather than zero.
func interestMatch(poi models.POI, interests []string) float64 {
	if len(interests) == 0 {
		return 0.5
	}
	kindTokens := scoring.SplitTags(poi.Kinds)

	var sum float64
	for _, interest := range interests {
		switch {
		case scoring.ContainsFold(poi.Category, interest):
			sum += 2
		case matchesAnyToken(kindTokens, interest):
			sum += 1
		case matchesSynonym(poi, interest):
			sum += 1
		}
	}
	return scoring.Clamp01(sum / (2 * float64(len(interests))))
}

func matchesAnyToken(tokens []string, interest string) bool {
	for _, token := range tokens {
		if scoring.ContainsFold(token, interest) {
			return true
		}
	}
	return false
}

func matchesSynonym(poi models.POI, interest string) bool {
	terms, ok := synonyms[normalizeInterest(interest)]
	if !ok {
		return false
	}
	for _, term := range terms {
		if scoring.ContainsFold(poi.Category, term) || scoring.ContainsFold(poi.Kinds, term) {
			return true
		}
	}
	return false
}

func normalizeInterest(interest string) string {
	for key := range synonyms {
		if scoring.ContainsFold(interest, key) {
			return key
		}
	}
	return interest
}

// ratingScore normalizes the provider rating to [0,1]; missing ratings
// score zero.
func ratingScore(poi models.POI) float64 {
	if poi.Rating == nil {
		return 0
	}
	return scoring.Clamp01(*poi.Rating / 5)
}

// detourEfficiency decays linearly: a zero-minute detour scores 1, a
// 30-minute or longer detour scores 0.
func detourEfficiency(poi models.POI) float64 {
	if poi.DetourTimeMinutes == nil {
		return 1
	}
	return scoring.Clamp01(1 - *poi.DetourTimeMinutes/30)
}

// timeEfficiency buckets the visit-time to detour-time ratio. A POI
// reached with no detour is maximally time-efficient.
func timeEfficiency(poi models.POI) float64 {
	if poi.DetourTimeMinutes == nil || *poi.DetourTimeMinutes == 0 {
		return 1
	}
	visit := 60.0
	if poi.VisitDurationMinutes != nil {
		visit = *poi.VisitDurationMinutes
	}
	ratio := visit / *poi.DetourTimeMinutes
	switch {
	case ratio >= 10:
		return 1.0
	case ratio >= 5:
		return 0.8
	case ratio >= 3:
		return 0.6
	case ratio >= 2:
		return 0.4
	default:
		return 0.2
	}
}
