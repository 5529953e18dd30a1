package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang-garp-screener/internal/scoring"
	"golang-garp-screener/internal/screener/dto"

	"github.com/jszwec/csvutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func ptrFloat64(v float64) *float64 { return &v }

func sampleRun() *dto.ScreenerRun {
	return &dto.ScreenerRun{
		ID:           "run-1",
		ConfigName:   "garp default",
		TotalScanned: 3,
		TotalMatches: 2,
		Errors:       []string{"ZZZ: symbol not found"},
		CreatedAt:    time.Date(2025, 3, 4, 21, 5, 9, 0, time.UTC),
		Stocks: []dto.ScoredStock{
			{
				StockProfile:   scoring.StockProfile{Symbol: "ACME", Name: "Acme, Inc.", Sector: "Technology"},
				Metrics:        scoring.StockMetrics{Price: ptrFloat64(101.5), PE: ptrFloat64(18)},
				BasicScore:     scoring.BasicScore{Total: 6.5},
				AIScore:        &scoring.AIScoreBreakdown{TotalScore: 7.25, GrowthScore: 8, Flags: []string{scoring.FlagStrongGrowth, scoring.FlagHighDebt}},
				Recommendation: scoring.RecommendationBuy,
				Rank:           1,
			},
			{
				StockProfile:   scoring.StockProfile{Symbol: "BARE"},
				BasicScore:     scoring.BasicScore{Total: 5},
				Recommendation: scoring.RecommendationHold,
				Rank:           2,
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "json", want: FormatJSON},
		{in: " CSV ", want: FormatCSV},
		{in: "Xlsx", want: FormatXLSX},
		{in: "pdf", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileName(t *testing.T) {
	run := sampleRun()
	assert.Equal(t, "garp_default_20250304_210509.csv", FileName(run, FormatCSV))

	run.ConfigName = ""
	assert.Equal(t, "screener_20250304_210509.json", FileName(run, FormatJSON))
}

func TestExport_JSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	path, err := NewExporter(dir).Export(sampleRun(), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "garp_default_20250304_210509.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got dto.ScreenerRun
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "run-1", got.ID)
	require.Len(t, got.Stocks, 2)
	assert.Equal(t, 7.25, got.Stocks[0].AIScore.TotalScore)
}

func TestExport_CSV(t *testing.T) {
	path, err := NewExporter(t.TempDir()).Export(sampleRun(), FormatCSV)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rows []stockRow
	require.NoError(t, csvutil.Unmarshal(data, &rows))
	require.Len(t, rows, 2)

	assert.Equal(t, "Acme, Inc.", rows[0].Name)
	assert.Equal(t, 7.25, rows[0].TotalScore)
	require.NotNil(t, rows[0].GrowthScore)
	assert.Equal(t, 8.0, *rows[0].GrowthScore)
	assert.Equal(t, "Strong Growth; High Debt", rows[0].Flags)

	assert.Equal(t, "BARE", rows[1].Symbol)
	assert.Equal(t, 5.0, rows[1].TotalScore)
	assert.Nil(t, rows[1].GrowthScore)
	assert.Nil(t, rows[1].Price)
}

func TestExport_CSVEmptyRun(t *testing.T) {
	run := sampleRun()
	run.Stocks = nil
	path, err := NewExporter(t.TempDir()).Export(run, FormatCSV)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rank,symbol,name")
}

func TestExport_XLSX(t *testing.T) {
	path, err := NewExporter(t.TempDir()).Export(sampleRun(), FormatXLSX)
	require.NoError(t, err)

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	stocks, ok := f.Sheet[stocksSheet]
	require.True(t, ok)
	require.Len(t, stocks.Rows, 3)

	header, err := csvutil.Header(stockRow{}, "csv")
	require.NoError(t, err)
	require.Len(t, stocks.Rows[0].Cells, len(header))
	for i, h := range header {
		assert.Equal(t, h, stocks.Rows[0].Cells[i].String())
	}
	assert.Len(t, stocks.Rows[1].Cells, len(header), "values must line up with the header")
	assert.Equal(t, "ACME", stocks.Rows[1].Cells[1].String())
	assert.Equal(t, "BUY", stocks.Rows[1].Cells[6].String())

	errs, ok := f.Sheet[errorsSheet]
	require.True(t, ok)
	require.Len(t, errs.Rows, 2)
	assert.Equal(t, "ZZZ: symbol not found", errs.Rows[1].Cells[0].String())
}

func TestExport_UnsupportedFormat(t *testing.T) {
	_, err := NewExporter(t.TempDir()).Export(sampleRun(), Format("pdf"))
	assert.Error(t, err)
}
