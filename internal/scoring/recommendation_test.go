package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecommend(t *testing.T) {
	tests := []struct {
		total    float64
		expected Recommendation
	}{
		{total: 10, expected: RecommendationStrongBuy},
		{total: 7.5, expected: RecommendationStrongBuy},
		{total: 7.49, expected: RecommendationBuy},
		{total: 6.5, expected: RecommendationBuy},
		{total: 6.49, expected: RecommendationHold},
		{total: 5.5, expected: RecommendationHold},
		{total: 5.49, expected: RecommendationWatch},
		{total: 0, expected: RecommendationWatch},
	}

	for _, tt := range tests {
		t.Run(string(tt.expected), func(t *testing.T) {
			assert.Equal(t, tt.expected, Recommend(tt.total))
		})
	}
}

func TestRecommendWith_CustomThresholds(t *testing.T) {
	th := Thresholds{StrongBuy: 9, Buy: 8, Hold: 7}
	assert.Equal(t, RecommendationBuy, RecommendWith(th, 8.5))
	assert.Equal(t, RecommendationWatch, RecommendWith(th, 6.9))
}
