package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/tripweaver/internal/app/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestScoreNeutralInterestsAndPerfectLogistics(t *testing.T) {
	svc := NewServiceImpl(nil)

	// No interests (0.5), top rating (1.0), nil detour (1.0), which also
	// makes time efficiency 1.0: 0.4*0.5 + 0.3 + 0.2 + 0.1 = 0.8.
	ranked := svc.Score(models.POI{
		Name:   "Belem Tower",
		Rating: floatPtr(5),
	}, nil, DefaultWeights())

	assert.Equal(t, 80, ranked.Score)
	assert.InDelta(t, 0.5, ranked.RankingFactors.InterestMatch, 1e-9)
	assert.InDelta(t, 1.0, ranked.RankingFactors.Rating, 1e-9)
	assert.InDelta(t, 1.0, ranked.RankingFactors.DetourEfficiency, 1e-9)
	assert.InDelta(t, 1.0, ranked.RankingFactors.TimeEfficiency, 1e-9)
}

func TestScoreMissingRatingScoresZero(t *testing.T) {
	svc := NewServiceImpl(nil)

	ranked := svc.Score(models.POI{Name: "Obscure Chapel"}, nil, DefaultWeights())
	assert.Zero(t, ranked.RankingFactors.Rating)
}

func TestScoreHigherRatingWins(t *testing.T) {
	svc := NewServiceImpl(nil)

	low := svc.Score(models.POI{Name: "A", Rating: floatPtr(2.5)}, nil, DefaultWeights())
	high := svc.Score(models.POI{Name: "B", Rating: floatPtr(4.8)}, nil, DefaultWeights())
	assert.Greater(t, high.Score, low.Score)
}

func TestDetourEfficiencyDecaysLinearly(t *testing.T) {
	svc := NewServiceImpl(nil)

	onRoute := svc.Score(models.POI{Name: "A", DetourTimeMinutes: floatPtr(0)}, nil, DefaultWeights())
	assert.InDelta(t, 1.0, onRoute.RankingFactors.DetourEfficiency, 1e-9)

	half := svc.Score(models.POI{Name: "B", DetourTimeMinutes: floatPtr(15)}, nil, DefaultWeights())
	assert.InDelta(t, 0.5, half.RankingFactors.DetourEfficiency, 1e-9)

	far := svc.Score(models.POI{Name: "C", DetourTimeMinutes: floatPtr(45)}, nil, DefaultWeights())
	assert.Zero(t, far.RankingFactors.DetourEfficiency)
}

func TestTimeEfficiencyBuckets(t *testing.T) {
	svc := NewServiceImpl(nil)

	tests := []struct {
		name   string
		detour *float64
		visit  *float64
		want   float64
	}{
		{"zero detour is maximal", floatPtr(0), nil, 1.0},
		{"long visit short detour", floatPtr(10), floatPtr(120), 1.0},
		{"default visit duration", floatPtr(10), nil, 0.8},
		{"three to one", floatPtr(20), floatPtr(60), 0.6},
		{"two to one", floatPtr(30), floatPtr(60), 0.4},
		{"detour dominates", floatPtr(60), floatPtr(60), 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := svc.Score(models.POI{
				Name:                 "X",
				DetourTimeMinutes:    tt.detour,
				VisitDurationMinutes: tt.visit,
			}, nil, DefaultWeights())
			assert.InDelta(t, tt.want, ranked.RankingFactors.TimeEfficiency, 1e-9)
		})
	}
}

func TestInterestMatchCategoryAndSynonyms(t *testing.T) {
	svc := NewServiceImpl(nil)

	// Direct category substring match counts full.
	direct := svc.Score(models.POI{
		Name:     "Time Out Market",
		Category: "Food Market",
	}, []string{"food"}, DefaultWeights())
	assert.InDelta(t, 1.0, direct.RankingFactors.InterestMatch, 1e-9)

	// Synonym match ("history" -> "castle") counts half.
	synonym := svc.Score(models.POI{
		Name:     "Castelo de S. Jorge",
		Category: "Castle",
	}, []string{"history"}, DefaultWeights())
	assert.InDelta(t, 0.5, synonym.RankingFactors.InterestMatch, 1e-9)

	// Kinds token match counts half too.
	kinds := svc.Score(models.POI{
		Name:  "Oceanario",
		Kinds: "aquariums,interesting_places",
	}, []string{"aquarium"}, DefaultWeights())
	assert.InDelta(t, 0.5, kinds.RankingFactors.InterestMatch, 1e-9)

	// No overlap at all scores zero.
	miss := svc.Score(models.POI{
		Name:     "Parking Garage",
		Category: "Transport",
	}, []string{"food"}, DefaultWeights())
	assert.Zero(t, miss.RankingFactors.InterestMatch)
}

func TestRankPOIsSortsDescending(t *testing.T) {
	svc := NewServiceImpl(nil)

	pois := []models.POI{
		{Name: "Weak", Rating: floatPtr(1)},
		{Name: "Strong", Rating: floatPtr(5), Category: "Museum"},
		{Name: "Middle", Rating: floatPtr(3)},
	}

	ranked := svc.RankPOIs(pois, []string{"art"})
	require.Len(t, ranked, 3)

	assert.Equal(t, "Strong", ranked[0].Name)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
}

func TestRankPOIsTieBreakKeepsInputOrder(t *testing.T) {
	svc := NewServiceImpl(nil)

	pois := []models.POI{
		{Name: "First", Rating: floatPtr(4)},
		{Name: "Second", Rating: floatPtr(4)},
		{Name: "Third", Rating: floatPtr(4)},
	}

	ranked := svc.RankPOIs(pois, nil)
	require.Len(t, ranked, 3)
	assert.Equal(t, "First", ranked[0].Name)
	assert.Equal(t, "Second", ranked[1].Name)
	assert.Equal(t, "Third", ranked[2].Name)
}

func TestTopRankedPOIs(t *testing.T) {
	svc := NewServiceImpl(nil)

	pois := []models.POI{
		{Name: "A", Rating: floatPtr(1)},
		{Name: "B", Rating: floatPtr(5)},
		{Name: "C", Rating: floatPtr(3)},
	}

	top := svc.TopRankedPOIs(pois, nil, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "B", top[0].Name)
	assert.Equal(t, "C", top[1].Name)

	all := svc.TopRankedPOIs(pois, nil, 10)
	assert.Len(t, all, 3)
}

func TestFilterByMinScore(t *testing.T) {
	svc := NewServiceImpl(nil)

	ranked := svc.RankPOIs([]models.POI{
		{Name: "Great", Rating: floatPtr(5)},
		{Name: "Poor"},
	}, nil)

	kept := svc.FilterByMinScore(ranked, 60)
	require.Len(t, kept, 1)
	assert.Equal(t, "Great", kept[0].Name)

	assert.Len(t, svc.FilterByMinScore(ranked, 0), 2)
}

func TestScoreIsDeterministic(t *testing.T) {
	svc := NewServiceImpl(nil)

	poi := models.POI{
		Name:              "Sintra Palace",
		Category:          "Historic Palace",
		Kinds:             "castles,historic,interesting_places",
		Rating:            floatPtr(4.7),
		DetourTimeMinutes: floatPtr(12),
	}

	first := svc.Score(poi, []string{"history", "nature"}, DefaultWeights())
	second := svc.Score(poi, []string{"history", "nature"}, DefaultWeights())
	assert.Equal(t, first, second)
}
