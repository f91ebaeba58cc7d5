package models

// ImageCandidate is a raw image result from an external image source.
type ImageCandidate struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Title     string `json:"title"`
	Source    string `json:"source"` // source domain, e.g. "wikipedia.org"
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// ImageScoreBreakdown holds the per-criterion sub-scores, each 0..100.
type ImageScoreBreakdown struct {
	Resolution       int `json:"resolution"`
	AspectRatio      int `json:"aspect_ratio"`
	SourceReputation int `json:"source_reputation"`
	TitleRelevance   int `json:"title_relevance"`
}

// ScoredImage is an ImageCandidate augmented with its combined score.
type ScoredImage struct {
	ImageCandidate
	Score          int                 `json:"score"`
	ScoreBreakdown ImageScoreBreakdown `json:"score_breakdown"`
}

// ImageRankingRequest asks for candidates to be scored for a subject.
type ImageRankingRequest struct {
	Candidates  []ImageCandidate `json:"candidates"`
	SubjectName string           `json:"subject_name"`
}

// ImageRankingResponse carries the scored images, best first.
type ImageRankingResponse struct {
	RankedImages []ScoredImage `json:"ranked_images"`
}
