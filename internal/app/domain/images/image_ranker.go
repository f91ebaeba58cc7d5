// Package images scores candidate images for a named subject and picks
// the best visual. Scoring is pure and deterministic.
package images

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/FACorreiaa/tripweaver/internal/app/models"
	"github.com/FACorreiaa/tripweaver/internal/pkg/scoring"
)

// Weight of each criterion in the combined score.
const (
	weightResolution  = 0.35
	weightAspectRatio = 0.30
	weightSource      = 0.20
	weightTitle       = 0.15
)

// targetAspectRatio is 16:9, the preferred hero-image shape.
const targetAspectRatio = 16.0 / 9.0

// sourceTier is one reputation band; candidates are matched top-down by
// substring, first hit wins.
type sourceTier struct {
	score   int
	domains []string
}

var sourceTiers = []sourceTier{
	{100, []string{".gov", "official", "tourism", "visit"}},
	{95, []string{"wikipedia", "wikimedia", "britannica"}},
	{90, []string{"tripadvisor", "lonelyplanet", "atlasobscura", "timeout"}},
	{85, []string{"booking", "airbnb", "expedia", "hotels."}},
	{80, []string{"flickr", "unsplash", "pexels", "500px", "pixabay"}},
	{75, []string{"bbc", "cnn", "nytimes", "theguardian", "reuters"}},
	{60, []string{"instagram", "facebook", "pinterest", "reddit", "twitter", "x.com"}},
	{50, []string{"blog", "wordpress", "medium", "tumblr"}},
}

const unknownSourceScore = 40

var _ Service = (*ServiceImpl)(nil)

// Service defines the image ranking contract.
type Service interface {
	Score(candidate models.ImageCandidate, subjectName string) models.ScoredImage
	ScoreAndRankImages(candidates []models.ImageCandidate, subjectName string) []models.ScoredImage
	BestImage(candidates []models.ImageCandidate, subjectName string) *models.ScoredImage
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

// Score computes the weighted score for a single candidate.
func (s *ServiceImpl) Score(candidate models.ImageCandidate, subjectName string) models.ScoredImage {
	breakdown := models.ImageScoreBreakdown{
		Resolution:       resolutionScore(candidate.Width, candidate.Height),
		AspectRatio:      aspectRatioScore(candidate.Width, candidate.Height),
		SourceReputation: sourceReputationScore(candidate.Source),
		TitleRelevance:   titleRelevanceScore(candidate.Title, subjectName),
	}
	combined := float64(breakdown.Resolution)*weightResolution +
		float64(breakdown.AspectRatio)*weightAspectRatio +
		float64(breakdown.SourceReputation)*weightSource +
		float64(breakdown.TitleRelevance)*weightTitle

	return models.ScoredImage{
		ImageCandidate: candidate,
		Score:          scoring.Round(combined),
		ScoreBreakdown: breakdown,
	}
}

// ScoreAndRankImages scores every candidate and sorts descending by
// score. The sort is stable; equally scored candidates keep input order.
func (s *ServiceImpl) ScoreAndRankImages(candidates []models.ImageCandidate, subjectName string) []models.ScoredImage {
	scored := make([]models.ScoredImage, len(candidates))
	for i, candidate := range candidates {
		scored[i] = s.Score(candidate, subjectName)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// BestImage returns the top-scoring candidate, or nil for an empty
// candidate list.
func (s *ServiceImpl) BestImage(candidates []models.ImageCandidate, subjectName string) *models.ScoredImage {
	if len(candidates) == 0 {
		return nil
	}
	ranked := s.ScoreAndRankImages(candidates, subjectName)
	return &ranked[0]
}

// resolutionScore tiers by pixel count, full HD and above scoring 100.
func resolutionScore(width, height int) int {
	pixels := width * height
	switch {
	case pixels >= 1920*1080:
		return 100
	case pixels >= 1280*720:
		return 85
	case pixels >= 1024*768:
		return 70
	case pixels >= 800*600:
		return 55
	case pixels >= 640*480:
		return 40
	case pixels >= 320*240:
		return 25
	default:
		return 10
	}
}

// aspectRatioScore measures distance from 16:9, in widening bands down
// to 20 for square or extreme ratios.
func aspectRatioScore(width, height int) int {
	if width <= 0 || height <= 0 {
		return 20
	}
	diff := math.Abs(float64(width)/float64(height) - targetAspectRatio)
	switch {
	case diff <= 0.05:
		return 100
	case diff <= 0.15:
		return 90
	case diff <= 0.30:
		return 75
	case diff <= 0.50:
		return 55
	case diff <= 0.80:
		return 35
	default:
		return 20
	}
}

// sourceReputationScore looks the source string up against the fixed
// reputation tiers.
func sourceReputationScore(source string) int {
	for _, tier := range sourceTiers {
		for _, domain := range tier.domains {
			if scoring.ContainsFold(source, domain) {
				return tier.score
			}
		}
	}
	return unknownSourceScore
}

// titleRelevanceScore measures the fraction of significant subject
// words present in the title. The floor of 20 tolerates noisy image
// metadata: an unrelated title is penalized, not disqualified.
func titleRelevanceScore(title, subjectName string) int {
	words := scoring.SignificantWords(subjectName)
	if len(words) == 0 {
		return 20
	}
	matched := 0
	for _, word := range words {
		if scoring.ContainsFold(title, word) {
			matched++
		}
	}
	if matched == 0 {
		return 20
	}
	fraction := float64(matched) / float64(len(words))
	switch {
	case fraction >= 1:
		return 100
	case fraction >= 0.75:
		return 80
	case fraction >= 0.5:
		return 60
	case fraction >= 0.25:
		return 40
	default:
		return 20
	}
}
