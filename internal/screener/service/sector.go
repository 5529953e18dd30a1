package service

import (
	"strings"

	"golang-garp-screener/internal/scoring"
	"golang-garp-screener/internal/screener/dto"
	"golang-garp-screener/pkg/formulas"
)

// minSectorSamples is the number of positive P/E readings a sector needs
// before its average is used.
const minSectorSamples = 2

// SectorAverages maps a lower-cased sector name to its average P/E.
type SectorAverages map[string]float64

// BuildSectorAverages averages the positive, plausible P/E ratios of the
// fetched snapshots per sector.
func BuildSectorAverages(snapshots []*dto.Fundamentals) SectorAverages {
	samples := make(map[string][]float64)
	for _, f := range snapshots {
		if f == nil || f.Profile.Sector == "" {
			continue
		}
		m := scoring.Sanitize(f.Metrics)
		if m.PE == nil || *m.PE <= 0 {
			continue
		}
		key := strings.ToLower(f.Profile.Sector)
		samples[key] = append(samples[key], *m.PE)
	}

	averages := make(SectorAverages, len(samples))
	for sector, pes := range samples {
		if len(pes) < minSectorSamples {
			continue
		}
		averages[sector] = formulas.Mean(pes)
	}
	return averages
}

// PE returns the average P/E of sector, or nil when unknown.
func (s SectorAverages) PE(sector string) *float64 {
	v, ok := s[strings.ToLower(sector)]
	if !ok {
		return nil
	}
	return &v
}
