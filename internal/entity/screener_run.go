package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// ScreenerRun is one persisted execution of a screener configuration.
type ScreenerRun struct {
	ID                   string         `gorm:"type:uuid;primaryKey" json:"id"`
	ConfigName           string         `gorm:"not null" json:"config_name"`
	TotalScanned         int            `json:"total_scanned"`
	TotalMatches         int            `json:"total_matches"`
	ExecutionTimeSeconds float64        `json:"execution_time_seconds"`
	Errors               pq.StringArray `gorm:"type:text[]" json:"errors"`
	CreatedAt            time.Time      `gorm:"autoCreateTime;index" json:"created_at"`

	Stocks []ScoredStock `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"stocks,omitempty"`
}

func (ScreenerRun) TableName() string {
	return "screener_runs"
}

// ScoredStock is one ranked result of a run. Metrics and scores are stored as
// jsonb; AIScore is null when enrichment did not complete.
type ScoredStock struct {
	ID             int64          `gorm:"primaryKey" json:"id"`
	RunID          string         `gorm:"type:uuid;index;not null" json:"run_id"`
	Rank           int            `json:"rank"`
	Symbol         string         `gorm:"index;not null" json:"symbol"`
	Name           string         `json:"name"`
	Exchange       string         `json:"exchange"`
	Sector         string         `json:"sector"`
	Industry       string         `json:"industry"`
	Metrics        datatypes.JSON `gorm:"type:jsonb" json:"metrics"`
	BasicScore     datatypes.JSON `gorm:"type:jsonb" json:"basic_score"`
	AIScore        datatypes.JSON `gorm:"type:jsonb" json:"ai_score,omitempty"`
	TotalScore     float64        `json:"total_score"`
	Recommendation string         `json:"recommendation"`
	Flags          pq.StringArray `gorm:"type:text[]" json:"flags"`
	Perf1D         *float64       `gorm:"column:perf_1d" json:"perf_1d"`
	Perf1W         *float64       `gorm:"column:perf_1w" json:"perf_1w"`
	Perf1M         *float64       `gorm:"column:perf_1m" json:"perf_1m"`
	PerfYTD        *float64       `gorm:"column:perf_ytd" json:"perf_ytd"`
	Perf52W        *float64       `gorm:"column:perf_52w" json:"perf_52w"`
	TradeIdea      *string        `gorm:"type:text" json:"trade_idea,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (ScoredStock) TableName() string {
	return "scored_stocks"
}
