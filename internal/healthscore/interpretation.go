package healthscore

import (
	"fmt"
	"math"

	"financial-health-workers/internal/healthscore/benchmarks"
)

var interpretations = []struct {
	min int
	Interpretation
}{
	{80, Interpretation{Band: "excellent", Label: "Excellent", Color: "green", Emoji: "🌟",
		Description: "Your finances are in great shape. Keep your current habits and review once a year."}},
	{60, Interpretation{Band: "good", Label: "Good", Color: "blue", Emoji: "👍",
		Description: "You are on a solid footing with a few areas to strengthen."}},
	{40, Interpretation{Band: "fair", Label: "Fair", Color: "yellow", Emoji: "⚠️",
		Description: "Several areas need attention to secure your financial future."}},
	{0, Interpretation{Band: "poor", Label: "Needs Attention", Color: "red", Emoji: "🚨",
		Description: "Your financial health needs significant improvement. Start with the suggestions below."}},
}

// Interpret maps a total score onto its qualitative band.
func Interpret(score int) Interpretation {
	for _, i := range interpretations {
		if score >= i.min {
			return i.Interpretation
		}
	}
	return interpretations[len(interpretations)-1].Interpretation
}

const (
	ComparisonAboveAverage = "above_average"
	ComparisonAverage      = "average"
	ComparisonBelowAverage = "below_average"
)

// averageBand is the distance from the bucket mean still called average.
const averageBand = 5

// ComparePeers places score within the benchmark bucket for age.
func ComparePeers(score int, age float64) *PeerComparison {
	bucket := benchmarks.PeerBucketFor(age)
	percentile := EstimatePercentile(float64(score), bucket)

	comparison := ComparisonAverage
	switch diff := float64(score) - bucket.AverageScore; {
	case diff > averageBand:
		comparison = ComparisonAboveAverage
	case diff < -averageBand:
		comparison = ComparisonBelowAverage
	}

	return &PeerComparison{
		AgeGroup:     bucket.AgeGroup,
		AverageScore: bucket.AverageScore,
		TopQuartile:  bucket.TopQuartile,
		Percentile:   percentile,
		Comparison:   comparison,
		Message:      fmt.Sprintf("Your score is higher than about %d%% of people aged %s.", percentile, bucket.AgeGroup),
	}
}

// EstimatePercentile approximates the percentile of score with a piecewise
// linear curve through the bucket mean (50th) and top quartile (75th).
func EstimatePercentile(score float64, bucket benchmarks.PeerBucket) int {
	avg, top := bucket.AverageScore, bucket.TopQuartile
	var p float64
	switch {
	case score >= top:
		p = 75 + (score-top)/(100-top)*24
	case score >= avg:
		p = 50 + (score-avg)/(top-avg)*25
	default:
		p = score / avg * 50
	}
	return int(math.Round(benchmarks.Clamp(p, 1, 99)))
}
