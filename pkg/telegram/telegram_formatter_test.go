package telegram

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"golang-garp-screener/internal/scoring"
	"golang-garp-screener/internal/screener/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun(stocks, errs int) *dto.ScreenerRun {
	run := &dto.ScreenerRun{
		ID:                   "run-1",
		ConfigName:           "garp_default",
		TotalScanned:         stocks + errs,
		TotalMatches:         stocks,
		ExecutionTimeSeconds: 12.34,
		CreatedAt:            time.Date(2025, 3, 4, 21, 0, 0, 0, time.UTC),
	}
	for i := 0; i < stocks; i++ {
		s := dto.ScoredStock{
			StockProfile:   scoring.StockProfile{Symbol: fmt.Sprintf("S%02d", i), Name: "Some_Company"},
			BasicScore:     scoring.BasicScore{Total: 5},
			Recommendation: scoring.RecommendationHold,
			Rank:           i + 1,
		}
		if i%2 == 0 {
			s.AIScore = &scoring.AIScoreBreakdown{TotalScore: 8 - float64(i)/10, Flags: []string{scoring.FlagStrongGrowth}}
			s.Recommendation = scoring.RecommendationStrongBuy
		}
		run.Stocks = append(run.Stocks, s)
	}
	for i := 0; i < errs; i++ {
		run.Errors = append(run.Errors, fmt.Sprintf("E%03d: provider unavailable: %s", i, strings.Repeat("x", 80)))
	}
	return run
}

func TestFormatScreenerRunForTelegram(t *testing.T) {
	msgs := FormatScreenerRunForTelegram(sampleRun(8, 1))
	require.Len(t, msgs, 1)
	msg := msgs[0]

	assert.Contains(t, msg, "*Screener Run: garp\\_default*")
	assert.Contains(t, msg, "Scanned: 9 | ✅ Matches: 8 | ⏱ 12.3s")
	assert.Contains(t, msg, "Errors: 1")
	assert.Contains(t, msg, "1. 🟢 *S00* Some\\_Company")
	assert.Contains(t, msg, "STRONG BUY | Score: 8.00/10")
	assert.Contains(t, msg, "HOLD | Score: 5.00/10 (basic)")
	assert.Contains(t, msg, "5. 🟢 *S04*")
	assert.NotContains(t, msg, "*S05*", "only the top five are listed")
}

func TestFormatScreenerRunForTelegram_Empty(t *testing.T) {
	msgs := FormatScreenerRunForTelegram(sampleRun(0, 0))
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "No stocks passed the screen.")
	assert.NotContains(t, msgs[0], "Errors:")
}

func TestFormatScreenerRunForTelegram_Chunks(t *testing.T) {
	msgs := FormatScreenerRunForTelegram(sampleRun(5, 200))
	require.Greater(t, len(msgs), 1)
	for i, m := range msgs {
		assert.LessOrEqual(t, len(m), maxMessageLen, "message %d", i)
	}
	assert.Contains(t, msgs[1], "Part 2")
	assert.Contains(t, msgs[len(msgs)-1], "E199")
}

func TestFormatErrorAlertMessage(t *testing.T) {
	msg := FormatErrorAlertMessage(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), "Screener run retry exceeded", "failed 3 times", `{"request_id":"r1"}`)
	assert.Contains(t, msg, "[ERROR ALERT]")
	assert.Contains(t, msg, "Mar 04, 2025")
	assert.Contains(t, msg, "Screener run retry exceeded")
	assert.Contains(t, msg, `Data: {"request_id":"r1"}`)
}

func TestIsParseError(t *testing.T) {
	assert.True(t, isParseError(errors.New("Bad Request: can't parse entities: Can't find end of the entity starting at byte offset 42")))
	assert.False(t, isParseError(errors.New("Forbidden: bot was blocked by the user")))
	assert.False(t, isParseError(nil))
}
