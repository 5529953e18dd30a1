package telegram

import (
	"fmt"
	"strings"
	"time"

	"golang-garp-screener/internal/scoring"
	"golang-garp-screener/internal/screener/dto"
	"golang-garp-screener/pkg/utils"
)

const (
	maxMessageLen    = 4090
	summaryTopStocks = 5
)

// FormatScreenerRunForTelegram formats a run into Markdown messages for
// Telegram, each no longer than maxMessageLen.
func FormatScreenerRunForTelegram(run *dto.ScreenerRun) []string {
	var messages []string
	var currentMessage strings.Builder
	part := 1

	startNewPart := func() {
		currentMessage.Reset()
		if part == 1 {
			currentMessage.WriteString(fmt.Sprintf("📊 *Screener Run: %s*\n", escapeMarkdown(run.ConfigName)))
			currentMessage.WriteString(fmt.Sprintf("🕒 %s\n", utils.PrettyDate(run.CreatedAt.In(utils.GetMarketTimeLocation()))))
			currentMessage.WriteString(fmt.Sprintf("🔎 Scanned: %d | ✅ Matches: %d | ⏱ %.1fs\n", run.TotalScanned, run.TotalMatches, run.ExecutionTimeSeconds))
			if len(run.Errors) > 0 {
				currentMessage.WriteString(fmt.Sprintf("⚠️ Errors: %d\n", len(run.Errors)))
			}
			currentMessage.WriteString("\n")
		} else {
			currentMessage.WriteString(fmt.Sprintf("---*Screener Run %s Part %d*---\n\n", escapeMarkdown(run.ConfigName), part))
		}
	}

	startNewPart()

	if len(run.Stocks) == 0 {
		currentMessage.WriteString("No stocks passed the screen.\n")
	}

	top := run.Stocks
	if len(top) > summaryTopStocks {
		top = top[:summaryTopStocks]
	}
	for i, s := range top {
		entry := formatStockEntry(i+1, s)
		if currentMessage.Len()+len(entry) > maxMessageLen {
			messages = append(messages, currentMessage.String())
			part++
			startNewPart()
		}
		currentMessage.WriteString(entry)
	}

	for _, e := range run.Errors {
		entry := fmt.Sprintf("• `%s`\n", strings.ReplaceAll(e, "`", "'"))
		if currentMessage.Len()+len(entry) > maxMessageLen {
			messages = append(messages, currentMessage.String())
			part++
			startNewPart()
		}
		currentMessage.WriteString(entry)
	}

	messages = append(messages, currentMessage.String())
	return messages
}

func formatStockEntry(rank int, s dto.ScoredStock) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d. %s *%s* %s\n", rank, recommendationIcon(s.Recommendation), s.Symbol, escapeMarkdown(s.Name)))
	sb.WriteString(fmt.Sprintf("   %s | Score: %.2f/10", s.Recommendation, s.RankScore()))
	if s.AIScore == nil {
		sb.WriteString(" (basic)")
	}
	sb.WriteString("\n")
	if flags := s.Flags(); len(flags) > 0 {
		sb.WriteString(fmt.Sprintf("   🏷 %s\n", strings.Join(flags, ", ")))
	}
	sb.WriteString("\n")
	return sb.String()
}

func recommendationIcon(r scoring.Recommendation) string {
	switch r {
	case scoring.RecommendationStrongBuy:
		return "🟢"
	case scoring.RecommendationBuy:
		return "🟩"
	case scoring.RecommendationHold:
		return "🟡"
	default:
		return "⚪"
	}
}

// FormatErrorAlertMessage formats an operational failure alert.
func FormatErrorAlertMessage(t time.Time, errType string, errMsg string, data string) string {
	return fmt.Sprintf(`📛 [ERROR ALERT]
%s
🔧 %s
⚠️ %s

📄 Data: %s
`, utils.PrettyDate(t), errType, errMsg, data)
}

func escapeMarkdown(s string) string {
	return strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[").Replace(s)
}
