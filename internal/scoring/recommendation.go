package scoring

// Recommendation is the discrete tier derived from a total score.
type Recommendation string

const (
	RecommendationStrongBuy Recommendation = "STRONG BUY"
	RecommendationBuy       Recommendation = "BUY"
	RecommendationHold      Recommendation = "HOLD"
	RecommendationWatch     Recommendation = "WATCH"
)

// Recommend maps a total score to a tier using the standard cut-offs.
// Lower bounds are inclusive.
func Recommend(total float64) Recommendation {
	return RecommendWith(DefaultTables().Thresholds, total)
}

// RecommendWith maps a total score to a tier using th.
func RecommendWith(th Thresholds, total float64) Recommendation {
	switch {
	case total >= th.StrongBuy:
		return RecommendationStrongBuy
	case total >= th.Buy:
		return RecommendationBuy
	case total >= th.Hold:
		return RecommendationHold
	default:
		return RecommendationWatch
	}
}

// Recommend maps total using the scorer's thresholds.
func (s *Scorer) Recommend(total float64) Recommendation {
	return RecommendWith(s.tables.Thresholds, total)
}
