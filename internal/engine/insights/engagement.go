package insights

import (
	"math"
	"time"
)

// Engagement tiers by total engagement rate (percent of views).
const (
	TierExceptional  = "exceptional"   // >= 8%
	TierExcellent    = "excellent"     // >= 4%
	TierGood         = "good"          // >= 2%
	TierAverage      = "average"       // >= 1%
	TierBelowAverage = "below_average" // < 1%
)

// Insight codes attached to an engagement analysis.
const (
	InsightHighlyResponsive = "highly_responsive_audience"
	InsightResonates        = "content_resonates"
	InsightNeedsInteraction = "engagement_could_improve"
	InsightEasyToConsume    = "easy_to_consume"
	InsightSparksDiscussion = "sparks_discussion"
	InsightStrongEarly      = "strong_early_performance"
)

// Stats are the public counters of a video.
type Stats struct {
	Views       uint64
	Likes       uint64
	Comments    uint64
	PublishedAt string // RFC 3339
}

// Engagement is the result of AnalyzeEngagement. Rates are percentages
// rounded to two decimals.
type Engagement struct {
	LikeRate    float64  `json:"like_rate_pct"`
	CommentRate float64  `json:"comment_rate_pct"`
	TotalRate   float64  `json:"engagement_rate_pct"`
	Tier        string   `json:"tier"`
	AgeDays     *int     `json:"age_days,omitempty"`
	ViewsPerDay *float64 `json:"views_per_day,omitempty"`
	Insights    []string `json:"insights"`
}

// EngagementTier maps a total engagement rate to its tier.
func EngagementTier(rate float64) string {
	switch {
	case rate >= 8:
		return TierExceptional
	case rate >= 4:
		return TierExcellent
	case rate >= 2:
		return TierGood
	case rate >= 1:
		return TierAverage
	default:
		return TierBelowAverage
	}
}

// AnalyzeEngagement computes like/comment rates, the tier and insight codes.
// Zero views yield zero rates.
func AnalyzeEngagement(s Stats, now time.Time) Engagement {
	var like, comment float64
	if s.Views > 0 {
		like = float64(s.Likes) / float64(s.Views) * 100
		comment = float64(s.Comments) / float64(s.Views) * 100
	}
	total := like + comment

	e := Engagement{
		LikeRate:    round2(like),
		CommentRate: round2(comment),
		TotalRate:   round2(total),
		Tier:        EngagementTier(total),
	}

	age, ok := AgeDays(s.PublishedAt, now)
	if ok {
		e.AgeDays = &age
		if age > 0 {
			vpd := round2(float64(s.Views) / float64(age))
			e.ViewsPerDay = &vpd
		}
	}

	switch {
	case total >= 4:
		e.Insights = append(e.Insights, InsightHighlyResponsive)
	case total >= 2:
		e.Insights = append(e.Insights, InsightResonates)
	default:
		e.Insights = append(e.Insights, InsightNeedsInteraction)
	}
	switch {
	case like > comment*5:
		e.Insights = append(e.Insights, InsightEasyToConsume)
	case comment > like:
		e.Insights = append(e.Insights, InsightSparksDiscussion)
	}
	if ok && age < 7 && s.Views > 10000 {
		e.Insights = append(e.Insights, InsightStrongEarly)
	}
	return e
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
