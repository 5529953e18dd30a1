package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func news(titles ...string) []NewsItem {
	items := make([]NewsItem, 0, len(titles))
	for _, title := range titles {
		items = append(items, NewsItem{Title: title})
	}
	return items
}

func TestSentimentEvaluator_Evaluate(t *testing.T) {
	e := NewSentimentEvaluator(DefaultTables().Lexicon)

	tests := []struct {
		name            string
		news            []NewsItem
		expectedScore   float64
		expectedSummary string
	}{
		{
			name:            "no news",
			news:            nil,
			expectedScore:   5,
			expectedSummary: "No news available",
		},
		{
			name: "two positive one negative",
			news: news(
				"Company beats earnings estimates",
				"Stock downgraded amid weak guidance",
				"New product launch exceeds expectations",
			),
			expectedScore:   6,
			expectedSummary: "Positive (2+ / 1-)",
		},
		{
			name:            "nothing classifiable",
			news:            news("Company to hold annual meeting", "CEO speaks at conference"),
			expectedScore:   5,
			expectedSummary: "Neutral (0+ / 0-)",
		},
		{
			name:            "tied hits inside a headline are neutral",
			news:            news("Record profit despite lawsuit and recall"),
			expectedScore:   5,
			expectedSummary: "Neutral (0+ / 0-)",
		},
		{
			name:            "all negative",
			news:            news("Lawsuit risk grows", "Fraud investigation widens"),
			expectedScore:   2,
			expectedSummary: "Very negative (0+ / 2-)",
		},
		{
			name:            "all positive",
			news:            news("Shares SURGE on upgrade", "Dividend boost announced", "Analysts upgrade stock"),
			expectedScore:   8,
			expectedSummary: "Very positive (3+ / 0-)",
		},
		{
			name:            "negative majority",
			news:            news("Sales decline", "Margins under pressure amid concern", "Strong buy rating reiterated", "Weak outlook", "Record quarter"),
			expectedScore:   4.4,
			expectedSummary: "Negative (2+ / 3-)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Evaluate(tt.news)
			assert.InDelta(t, tt.expectedScore, res.Score, 1e-9)
			assert.Equal(t, tt.expectedSummary, res.Summary)
		})
	}
}

func TestSentimentEvaluator_Classify(t *testing.T) {
	e := NewSentimentEvaluator(DefaultTables().Lexicon)

	assert.Equal(t, HeadlinePositive, e.Classify("ACME BEATS forecasts"))
	assert.Equal(t, HeadlineNegative, e.Classify("Layoffs announced, shares drop"))
	// whole-word matching only: "sellers" is not "sell", "rallies" is not "rally"
	assert.Equal(t, HeadlineNeutral, e.Classify("Sellers return as market rallies"))
	assert.Equal(t, HeadlineNeutral, e.Classify(""))
}

func TestSentimentEvaluator_Deterministic(t *testing.T) {
	e := NewSentimentEvaluator(DefaultTables().Lexicon)
	items := news("Company beats estimates", "Weak guidance", "Partnership deal signed")

	first := e.Evaluate(items)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, e.Evaluate(items))
	}
}

func TestSentimentEvaluator_InjectedLexicon(t *testing.T) {
	e := NewSentimentEvaluator(NewLexicon([]string{"moon"}, []string{"dump"}))

	res := e.Evaluate(news("To the moon", "Company beats estimates"))
	assert.Equal(t, 1, res.Positive)
	assert.Equal(t, 0, res.Negative)
	assert.Equal(t, 1, res.Neutral)
}
