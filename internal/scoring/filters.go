package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// Range bounds a single metric. A missing metric passes unless Required is set.
type Range struct {
	Min      *float64 `mapstructure:"min" json:"min,omitempty"`
	Max      *float64 `mapstructure:"max" json:"max,omitempty"`
	Required bool     `mapstructure:"required" json:"required,omitempty"`
}

// Operability holds the liquidity and universe filters applied before scoring.
type Operability struct {
	MinMarketCap      float64  `mapstructure:"min_market_cap"`
	MinPrice          float64  `mapstructure:"min_price"`
	MinAvgVolume      float64  `mapstructure:"min_avg_volume"`
	ExcludeSectors    []string `mapstructure:"exclude_sectors"`
	ExcludeIndustries []string `mapstructure:"exclude_industries"`
}

// FilterSet is the filter configuration of a screener.
type FilterSet struct {
	Metrics     map[string]Range `mapstructure:"metrics"`
	Operability Operability      `mapstructure:"operability"`
}

var metricAccessors = map[string]func(StockMetrics) *float64{
	"price":               func(m StockMetrics) *float64 { return m.Price },
	"market_cap":          func(m StockMetrics) *float64 { return m.MarketCap },
	"avg_volume":          func(m StockMetrics) *float64 { return m.AvgVolume },
	"pe":                  func(m StockMetrics) *float64 { return m.PE },
	"peg":                 func(m StockMetrics) *float64 { return m.PEG },
	"peg_alt":             func(m StockMetrics) *float64 { return m.PEGAlt },
	"forward_pe":          func(m StockMetrics) *float64 { return m.ForwardPE },
	"pb":                  func(m StockMetrics) *float64 { return m.PB },
	"ps":                  func(m StockMetrics) *float64 { return m.PS },
	"eps_growth_trailing": func(m StockMetrics) *float64 { return m.EPSGrowthTrailing },
	"eps_growth_forward":  func(m StockMetrics) *float64 { return m.EPSGrowthForward },
	"eps_growth_5y":       func(m StockMetrics) *float64 { return m.EPSGrowth5Y },
	"revenue_growth_5y":   func(m StockMetrics) *float64 { return m.RevenueGrowth5Y },
	"roe":                 func(m StockMetrics) *float64 { return m.ROE },
	"roa":                 func(m StockMetrics) *float64 { return m.ROA },
	"gross_margin":        func(m StockMetrics) *float64 { return m.GrossMargin },
	"operating_margin":    func(m StockMetrics) *float64 { return m.OperatingMargin },
	"net_margin":          func(m StockMetrics) *float64 { return m.NetMargin },
	"current_ratio":       func(m StockMetrics) *float64 { return m.CurrentRatio },
	"quick_ratio":         func(m StockMetrics) *float64 { return m.QuickRatio },
	"debt_to_equity":      func(m StockMetrics) *float64 { return m.DebtToEquity },
	"interest_coverage":   func(m StockMetrics) *float64 { return m.InterestCoverage },
	"revenue":             func(m StockMetrics) *float64 { return m.Revenue },
	"net_income":          func(m StockMetrics) *float64 { return m.NetIncome },
	"free_cash_flow":      func(m StockMetrics) *float64 { return m.FreeCashFlow },
	"cash":                func(m StockMetrics) *float64 { return m.Cash },
	"debt":                func(m StockMetrics) *float64 { return m.Debt },
}

// Filter names used for the operability checks in Evaluate results.
const (
	FilterMinMarketCap     = "operability.min_market_cap"
	FilterMinPrice         = "operability.min_price"
	FilterMinAvgVolume     = "operability.min_avg_volume"
	FilterExcludedSector   = "operability.exclude_sectors"
	FilterExcludedIndustry = "operability.exclude_industries"
)

type metricFilter struct {
	name   string
	get    func(StockMetrics) *float64
	bounds Range
}

// FilterEngine applies a FilterSet to stocks.
type FilterEngine struct {
	metrics []metricFilter
	op      Operability
}

// NewFilterEngine validates set and builds an engine. Unknown metric names
// and inverted ranges are configuration errors.
func NewFilterEngine(set FilterSet) (*FilterEngine, error) {
	engine := &FilterEngine{op: set.Operability}
	for name, r := range set.Metrics {
		key := strings.ToLower(strings.TrimSpace(name))
		get, ok := metricAccessors[key]
		if !ok {
			return nil, fmt.Errorf("unknown filter metric %q", name)
		}
		if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
			return nil, fmt.Errorf("filter %q has min %.4f above max %.4f", name, *r.Min, *r.Max)
		}
		engine.metrics = append(engine.metrics, metricFilter{name: key, get: get, bounds: r})
	}
	sort.Slice(engine.metrics, func(i, j int) bool { return engine.metrics[i].name < engine.metrics[j].name })
	return engine, nil
}

// Evaluate returns the pass/fail result of every configured filter.
func (f *FilterEngine) Evaluate(p StockProfile, m StockMetrics) map[string]bool {
	m = Sanitize(m)
	results := make(map[string]bool, len(f.metrics)+5)

	for _, mf := range f.metrics {
		results[mf.name] = mf.bounds.passes(mf.get(m))
	}

	if f.op.MinMarketCap > 0 {
		results[FilterMinMarketCap] = atLeast(m.MarketCap, f.op.MinMarketCap)
	}
	if f.op.MinPrice > 0 {
		results[FilterMinPrice] = atLeast(m.Price, f.op.MinPrice)
	}
	if f.op.MinAvgVolume > 0 {
		results[FilterMinAvgVolume] = atLeast(m.AvgVolume, f.op.MinAvgVolume)
	}
	if len(f.op.ExcludeSectors) > 0 {
		results[FilterExcludedSector] = !containsFold(f.op.ExcludeSectors, p.Sector)
	}
	if len(f.op.ExcludeIndustries) > 0 {
		results[FilterExcludedIndustry] = !containsFold(f.op.ExcludeIndustries, p.Industry)
	}
	return results
}

// Failing returns the sorted names of the filters that p/m does not pass.
func (f *FilterEngine) Failing(p StockProfile, m StockMetrics) []string {
	var failed []string
	for name, ok := range f.Evaluate(p, m) {
		if !ok {
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)
	return failed
}

// Passes reports whether every filter passes.
func (f *FilterEngine) Passes(p StockProfile, m StockMetrics) bool {
	return len(f.Failing(p, m)) == 0
}

func (r Range) passes(p *float64) bool {
	v, ok := value(p)
	if !ok {
		return !r.Required
	}
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// atLeast treats a missing value as passing, matching metric ranges.
func atLeast(p *float64, floor float64) bool {
	v, ok := value(p)
	return !ok || v >= floor
}

func containsFold(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), s) {
			return true
		}
	}
	return false
}
