package dto

import (
	"time"

	"golang-garp-screener/internal/scoring"
)

// Fundamentals is the output of the fundamentals provider for one symbol.
type Fundamentals struct {
	Profile      scoring.StockProfile `json:"profile"`
	Metrics      scoring.StockMetrics `json:"metrics"`
	NextEarnings *time.Time           `json:"next_earnings,omitempty"`
}

// RunOptions tunes a single screening run.
type RunOptions struct {
	Limit   int      `json:"limit,omitempty"`
	Symbols []string `json:"symbols,omitempty"`
}

// ScoredStock is one ranked result of a run. AIScore is nil when enrichment
// did not complete; BasicScore is always set.
type ScoredStock struct {
	scoring.StockProfile
	Metrics        scoring.StockMetrics      `json:"metrics"`
	BasicScore     scoring.BasicScore        `json:"basic_score"`
	AIScore        *scoring.AIScoreBreakdown `json:"ai_score,omitempty"`
	Recommendation scoring.Recommendation    `json:"recommendation"`
	Performance    scoring.PricePerformance  `json:"performance"`
	RelatedAssets  []scoring.RelatedAsset    `json:"related_assets,omitempty"`
	News           []scoring.NewsItem        `json:"news,omitempty"`
	TradeIdea      *string                   `json:"trade_idea,omitempty"`
	RunID          string                    `json:"run_id,omitempty"`
	Rank           int                       `json:"rank,omitempty"`
}

// RankScore is the AI total when present, otherwise the basic total.
func (s ScoredStock) RankScore() float64 {
	if s.AIScore != nil {
		return s.AIScore.TotalScore
	}
	return s.BasicScore.Total
}

// Flags returns the AI flags, or nil when there is no AI breakdown.
func (s ScoredStock) Flags() []string {
	if s.AIScore == nil {
		return nil
	}
	return s.AIScore.Flags
}

// ScreenerRun is the result of one screening execution.
type ScreenerRun struct {
	ID                   string        `json:"id"`
	ConfigName           string        `json:"config_name"`
	TotalScanned         int           `json:"total_scanned"`
	TotalMatches         int           `json:"total_matches"`
	ExecutionTimeSeconds float64       `json:"execution_time_seconds"`
	Errors               []string      `json:"errors"`
	CreatedAt            time.Time     `json:"created_at"`
	Stocks               []ScoredStock `json:"stocks,omitempty"`
}

// StreamDataScreenerRun is the payload of a queued run on the Redis stream.
type StreamDataScreenerRun struct {
	RequestID   string    `json:"request_id"`
	Limit       int       `json:"limit,omitempty"`
	Symbols     []string  `json:"symbols,omitempty"`
	RequestedBy string    `json:"requested_by,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}
