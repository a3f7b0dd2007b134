package insights

import (
	"regexp"
	"strings"
	"time"
)

// Recommendation tiers of a knowledge-base evaluation.
const (
	HighlyRecommended     = "highly_recommended"     // score >= 4
	ModeratelyRecommended = "moderately_recommended" // score >= 2
	LimitedRecommendation = "limited"
)

// Content types guessed from the title.
const (
	ContentTutorial     = "tutorial"
	ContentAnalysis     = "analysis"
	ContentIntroductory = "introductory"
	ContentNews         = "news"
	ContentUnknown      = "unknown"
)

// Quality indicator codes.
const (
	IndicatorPopular        = "high_view_count"
	IndicatorManualCaptions = "manual_captions"
	IndicatorAutoCaptions   = "auto_captions_only"
	IndicatorInDepthLength  = "in_depth_length"
	IndicatorLongForm       = "long_form"
	IndicatorModerateLength = "moderate_length"
)

// contentRules are checked in order; the first match wins.
var contentRules = []struct {
	kind     string
	points   int
	keywords []string
}{
	{ContentTutorial, 2, []string{"tutorial", "how to", "guide", "learn"}},
	{ContentAnalysis, 2, []string{"review", "analysis", "deep dive"}},
	{ContentIntroductory, 1, []string{"introduction", "overview", "basics"}},
	{ContentNews, 1, []string{"news", "update", "announcement"}},
}

// volatileTopics age quickly; recent videos about them earn extra points.
var volatileTopics = []string{
	"react", "vue", "angular", "aws", "docker", "kubernetes",
	"machine learning", "next.js", "typescript",
}

// Two-letter topics only count as whole words ("ai" must not match "maintain").
var shortVolatileRe = regexp.MustCompile(`\b(ai|ml)\b`)

// KBInput is the metadata a knowledge-base evaluation looks at.
type KBInput struct {
	Title       string
	Views       uint64
	PublishedAt string // RFC 3339
	Duration    string // ISO-8601
	HasCaptions bool
	Manual      bool // at least one caption track is not speech-recognized
}

// Freshness describes the age component of the score.
type Freshness struct {
	AgeDays       int    `json:"age_days"`
	Band          string `json:"band"`
	Bonus         int    `json:"bonus"`
	TechBonus     int    `json:"tech_volatility_bonus"`
	VolatileTopic bool   `json:"high_volatility_topic"`
}

// KBEvaluation is the structured knowledge-base recommendation.
type KBEvaluation struct {
	Score           int        `json:"score"`
	Recommendation  string     `json:"recommendation"`
	ContentType     string     `json:"content_type"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	Freshness       *Freshness `json:"freshness,omitempty"`
	Indicators      []string   `json:"quality_indicators"`
}

// RecommendationTier maps a score to its tier.
func RecommendationTier(score int) string {
	switch {
	case score >= 4:
		return HighlyRecommended
	case score >= 2:
		return ModeratelyRecommended
	default:
		return LimitedRecommendation
	}
}

// freshnessBand returns the base bonus and label for an age in days.
func freshnessBand(days int) (int, string) {
	switch {
	case days <= 183:
		return 3, "very_recent"
	case days <= 365:
		return 2, "recent"
	case days <= 730:
		return 1, "moderate_age"
	case days <= 1095:
		return 0, "older"
	default:
		return -1, "aging"
	}
}

func isVolatileTopic(title string) bool {
	for _, t := range volatileTopics {
		if strings.Contains(title, t) {
			return true
		}
	}
	return shortVolatileRe.MatchString(title)
}

// EvaluateForKnowledgeBase scores a video for inclusion in a knowledge base
// from its metadata alone.
func EvaluateForKnowledgeBase(in KBInput, now time.Time) KBEvaluation {
	ev := KBEvaluation{ContentType: ContentUnknown, Indicators: []string{}}
	title := strings.ToLower(in.Title)

rules:
	for _, r := range contentRules {
		for _, kw := range r.keywords {
			if strings.Contains(title, kw) {
				ev.ContentType = r.kind
				ev.Score += r.points
				break rules
			}
		}
	}

	if age, ok := AgeDays(in.PublishedAt, now); ok {
		bonus, band := freshnessBand(age)
		f := &Freshness{AgeDays: age, Band: band, VolatileTopic: isVolatileTopic(title)}
		if f.VolatileTopic && bonus > 0 {
			f.TechBonus = 2
			bonus += f.TechBonus
		}
		f.Bonus = bonus
		ev.Freshness = f
		ev.Score += bonus
	}

	if in.Views > 100000 {
		ev.Indicators = append(ev.Indicators, IndicatorPopular)
		ev.Score++
	}

	switch {
	case in.HasCaptions && in.Manual:
		ev.Indicators = append(ev.Indicators, IndicatorManualCaptions)
		ev.Score++
	case in.HasCaptions:
		ev.Indicators = append(ev.Indicators, IndicatorAutoCaptions)
	}

	if d, err := ParseDuration(in.Duration); err == nil {
		minutes := int(d / time.Minute)
		ev.DurationMinutes = &minutes
		switch {
		case minutes >= 10 && minutes <= 60:
			ev.Indicators = append(ev.Indicators, IndicatorInDepthLength)
			ev.Score++
		case minutes > 60:
			ev.Indicators = append(ev.Indicators, IndicatorLongForm)
			ev.Score++
		case minutes >= 5:
			ev.Indicators = append(ev.Indicators, IndicatorModerateLength)
		}
	}

	ev.Recommendation = RecommendationTier(ev.Score)
	return ev
}
