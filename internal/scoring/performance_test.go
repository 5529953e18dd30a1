package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailyHistory(n int, start time.Time, closeStart, step float64) PriceHistory {
	h := PriceHistory{Closes: linearSeries(n, closeStart, step)}
	for i := 0; i < n; i++ {
		h.Dates = append(h.Dates, start.AddDate(0, 0, i))
	}
	return h
}

func TestComputePerformance(t *testing.T) {
	start := time.Date(2024, 12, 22, 0, 0, 0, 0, time.UTC)

	t.Run("full year of history", func(t *testing.T) {
		h := dailyHistory(300, start, 100, 1)
		perf := ComputePerformance(h, 2025)
		last := 399.0

		require.NotNil(t, perf.OneDay)
		assert.InDelta(t, (last-398)/398, *perf.OneDay, 1e-12)
		require.NotNil(t, perf.OneWeek)
		assert.InDelta(t, (last-394)/394, *perf.OneWeek, 1e-12)
		require.NotNil(t, perf.OneMonth)
		assert.InDelta(t, (last-378)/378, *perf.OneMonth, 1e-12)
		require.NotNil(t, perf.OneYear)
		assert.InDelta(t, (last-147)/147, *perf.OneYear, 1e-12)
		// index 10 is 2025-01-01
		require.NotNil(t, perf.YTD)
		assert.InDelta(t, (last-110)/110, *perf.YTD, 1e-12)
	})

	t.Run("partial year uses oldest close", func(t *testing.T) {
		h := dailyHistory(150, start, 100, 1)
		perf := ComputePerformance(h, 2025)
		require.NotNil(t, perf.OneYear)
		assert.InDelta(t, (249.0-100)/100, *perf.OneYear, 1e-12)
	})

	t.Run("too short for a year", func(t *testing.T) {
		h := dailyHistory(50, start, 100, 1)
		perf := ComputePerformance(h, 2025)
		assert.Nil(t, perf.OneYear)
		assert.NotNil(t, perf.OneMonth)
	})

	t.Run("no data", func(t *testing.T) {
		assert.Equal(t, PricePerformance{}, ComputePerformance(PriceHistory{Closes: []float64{10}}, 2025))
	})

	t.Run("year not in history", func(t *testing.T) {
		h := dailyHistory(30, start, 100, 1)
		assert.Nil(t, ComputePerformance(h, 2030).YTD)
	})
}
