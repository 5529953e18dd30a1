package service

import (
	"context"

	"golang-garp-screener/internal/scoring"
	"golang-garp-screener/internal/screener/repository"
	"golang-garp-screener/pkg/formulas"
	"golang-garp-screener/pkg/logger"
	"golang-garp-screener/pkg/utils"
)

const (
	maxRelatedETFs    = 2
	maxRelatedIndices = 2
)

type relatedAssetGroup struct {
	commodities []string
	etfs        []string
	indices     []string
}

// relatedAssetTable is keyed by industry first, then sector.
var relatedAssetTable = map[string]relatedAssetGroup{
	"Basic Materials": {commodities: []string{"GC=F", "SI=F", "HG=F"}, etfs: []string{"GLD", "SLV", "XME"}, indices: []string{"^GSPC"}},
	"Gold":            {commodities: []string{"GC=F", "SI=F"}, etfs: []string{"GLD", "GDX", "GDXJ"}, indices: []string{"^HUI"}},
	"Technology":      {etfs: []string{"QQQ", "XLK", "SMH"}, indices: []string{"^IXIC", "^SOX"}},
	"Semiconductors":  {etfs: []string{"SMH", "SOXX"}, indices: []string{"^SOX"}},
	"Energy":          {commodities: []string{"CL=F", "NG=F"}, etfs: []string{"XLE", "USO"}, indices: []string{"^GSPC"}},
	"Financial":       {etfs: []string{"XLF", "KRE"}, indices: []string{"^GSPC", "^TNX"}},
}

var assetNames = map[string]string{
	"GC=F":  "Gold Futures",
	"SI=F":  "Silver Futures",
	"HG=F":  "Copper Futures",
	"CL=F":  "Crude Oil WTI",
	"NG=F":  "Natural Gas",
	"GLD":   "SPDR Gold Trust ETF",
	"SLV":   "iShares Silver Trust",
	"GDX":   "VanEck Gold Miners ETF",
	"GDXJ":  "VanEck Junior Gold Miners",
	"XME":   "SPDR Metals & Mining ETF",
	"QQQ":   "Invesco QQQ Trust",
	"XLK":   "Technology Select SPDR",
	"SMH":   "VanEck Semiconductor ETF",
	"SOXX":  "iShares Semiconductor ETF",
	"XLE":   "Energy Select SPDR",
	"USO":   "United States Oil Fund",
	"XLF":   "Financial Select SPDR",
	"KRE":   "SPDR Regional Banking ETF",
	"^GSPC": "S&P 500",
	"^IXIC": "Nasdaq Composite",
	"^SOX":  "Philadelphia Semiconductor",
	"^HUI":  "NYSE Arca Gold BUGS",
	"^TNX":  "10-Year Treasury Yield",
}

// RelatedAssetResolver prices the market context of a stock's sector.
type RelatedAssetResolver interface {
	Resolve(ctx context.Context, profile scoring.StockProfile) []scoring.RelatedAsset
}

type relatedAssetResolver struct {
	history repository.PriceHistoryRepository
	log     *logger.Logger
}

// NewRelatedAssetResolver creates a resolver that prices assets from history.
func NewRelatedAssetResolver(history repository.PriceHistoryRepository, log *logger.Logger) RelatedAssetResolver {
	return &relatedAssetResolver{history: history, log: log}
}

// Resolve returns the priced related assets. Assets that cannot be priced are skipped.
func (r *relatedAssetResolver) Resolve(ctx context.Context, profile scoring.StockProfile) []scoring.RelatedAsset {
	group, ok := relatedAssetTable[profile.Industry]
	if !ok {
		group, ok = relatedAssetTable[profile.Sector]
	}
	if !ok {
		return nil
	}

	type candidate struct {
		symbol string
		kind   scoring.AssetType
	}
	var candidates []candidate
	for _, s := range group.commodities {
		candidates = append(candidates, candidate{s, scoring.AssetTypeCommodity})
	}
	for _, s := range firstN(group.etfs, maxRelatedETFs) {
		candidates = append(candidates, candidate{s, scoring.AssetTypeETF})
	}
	for _, s := range firstN(group.indices, maxRelatedIndices) {
		candidates = append(candidates, candidate{s, scoring.AssetTypeIndex})
	}

	assets := make([]scoring.RelatedAsset, 0, len(candidates))
	for _, c := range candidates {
		if !utils.ShouldContinue(ctx, r.log) {
			break
		}
		h, err := r.history.GetPriceHistory(ctx, c.symbol, "5d")
		if err != nil || h.Len() == 0 {
			r.log.DebugContext(ctx, "Skipping related asset", logger.StringField("asset", c.symbol), logger.Field("error", err))
			continue
		}
		last := h.Closes[h.Len()-1]
		asset := scoring.RelatedAsset{
			Symbol: c.symbol,
			Name:   assetName(c.symbol),
			Price:  &last,
			Type:   c.kind,
		}
		if h.Len() > 1 {
			asset.PercentChange = formulas.PercentChange(h.Closes[h.Len()-2], last)
		}
		assets = append(assets, asset)
	}
	return assets
}

func assetName(symbol string) string {
	if name, ok := assetNames[symbol]; ok {
		return name
	}
	return symbol
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
