package scoring

import (
	"fmt"
	"strings"
	"unicode"
)

// HeadlineClass is the classification of a single headline.
type HeadlineClass int

const (
	HeadlineNeutral HeadlineClass = iota
	HeadlinePositive
	HeadlineNegative
)

// SentimentResult is the aggregated output of the sentiment evaluator.
type SentimentResult struct {
	Score    float64
	Summary  string
	Positive int
	Negative int
	Neutral  int
}

const noNewsSummary = "No news available"

// SentimentEvaluator classifies headlines by keyword counts.
type SentimentEvaluator struct {
	lexicon Lexicon
}

// NewSentimentEvaluator creates a SentimentEvaluator over lexicon.
func NewSentimentEvaluator(lexicon Lexicon) SentimentEvaluator {
	return SentimentEvaluator{lexicon: lexicon}
}

// Classify counts keyword hits in title and picks the side with more hits.
func (e SentimentEvaluator) Classify(title string) HeadlineClass {
	var pos, neg int
	for _, token := range tokenize(title) {
		if e.lexicon.IsPositive(token) {
			pos++
		}
		if e.lexicon.IsNegative(token) {
			neg++
		}
	}
	switch {
	case pos > neg:
		return HeadlinePositive
	case neg > pos:
		return HeadlineNegative
	default:
		return HeadlineNeutral
	}
}

// Evaluate classifies every headline and returns the sub-score and summary.
// The score is 5 + 3*(pos-neg)/(pos+neg), or 5 when nothing was classified.
func (e SentimentEvaluator) Evaluate(news []NewsItem) SentimentResult {
	if len(news) == 0 {
		return SentimentResult{Score: neutralScore, Summary: noNewsSummary}
	}

	var res SentimentResult
	for _, item := range news {
		switch e.Classify(item.Title) {
		case HeadlinePositive:
			res.Positive++
		case HeadlineNegative:
			res.Negative++
		default:
			res.Neutral++
		}
	}

	res.Score = neutralScore
	if classified := res.Positive + res.Negative; classified > 0 {
		res.Score = clamp(neutralScore + 3*float64(res.Positive-res.Negative)/float64(classified))
	}
	res.Summary = fmt.Sprintf("%s (%d+ / %d-)", sentimentTone(res.Positive, res.Negative), res.Positive, res.Negative)
	return res
}

func sentimentTone(pos, neg int) string {
	switch {
	case pos > 2*neg:
		return "Very positive"
	case pos > neg:
		return "Positive"
	case neg > 2*pos:
		return "Very negative"
	case neg > pos:
		return "Negative"
	default:
		return "Neutral"
	}
}

// tokenize lower-cases s and splits it into letter/digit runs.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
