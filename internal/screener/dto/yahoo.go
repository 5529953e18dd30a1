package dto

// YahooValue is Yahoo's {"raw": ..., "fmt": ...} number wrapper. Missing
// values arrive as an empty object.
type YahooValue struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt,omitempty"`
}

// YahooError is the error object of Yahoo API responses.
type YahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// QuoteSummaryResponse is the v10 quoteSummary payload.
type QuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []QuoteSummaryResult `json:"result"`
		Error  *YahooError          `json:"error"`
	} `json:"quoteSummary"`
}

// QuoteSummaryResult holds the quoteSummary modules requested by the screener.
type QuoteSummaryResult struct {
	Price struct {
		RegularMarketPrice YahooValue `json:"regularMarketPrice"`
		MarketCap          YahooValue `json:"marketCap"`
		ShortName          string     `json:"shortName"`
		LongName           string     `json:"longName"`
		ExchangeName       string     `json:"exchangeName"`
		QuoteType          string     `json:"quoteType"`
	} `json:"price"`
	SummaryProfile struct {
		Sector   string `json:"sector"`
		Industry string `json:"industry"`
	} `json:"summaryProfile"`
	SummaryDetail struct {
		TrailingPE                   YahooValue `json:"trailingPE"`
		ForwardPE                    YahooValue `json:"forwardPE"`
		AverageVolume                YahooValue `json:"averageVolume"`
		PriceToSalesTrailing12Months YahooValue `json:"priceToSalesTrailing12Months"`
	} `json:"summaryDetail"`
	DefaultKeyStatistics struct {
		PegRatio                YahooValue `json:"pegRatio"`
		PriceToBook             YahooValue `json:"priceToBook"`
		ForwardPE               YahooValue `json:"forwardPE"`
		EarningsQuarterlyGrowth YahooValue `json:"earningsQuarterlyGrowth"`
	} `json:"defaultKeyStatistics"`
	FinancialData struct {
		CurrentPrice     YahooValue `json:"currentPrice"`
		ReturnOnEquity   YahooValue `json:"returnOnEquity"`
		ReturnOnAssets   YahooValue `json:"returnOnAssets"`
		GrossMargins     YahooValue `json:"grossMargins"`
		OperatingMargins YahooValue `json:"operatingMargins"`
		ProfitMargins    YahooValue `json:"profitMargins"`
		CurrentRatio     YahooValue `json:"currentRatio"`
		QuickRatio       YahooValue `json:"quickRatio"`
		DebtToEquity     YahooValue `json:"debtToEquity"`
		RevenueGrowth    YahooValue `json:"revenueGrowth"`
		EarningsGrowth   YahooValue `json:"earningsGrowth"`
		TotalRevenue     YahooValue `json:"totalRevenue"`
		FreeCashflow     YahooValue `json:"freeCashflow"`
		TotalCash        YahooValue `json:"totalCash"`
		TotalDebt        YahooValue `json:"totalDebt"`
	} `json:"financialData"`
	IncomeStatementHistory struct {
		IncomeStatementHistory []struct {
			NetIncome YahooValue `json:"netIncome"`
		} `json:"incomeStatementHistory"`
	} `json:"incomeStatementHistory"`
	EarningsTrend struct {
		Trend []struct {
			Period string     `json:"period"`
			Growth YahooValue `json:"growth"`
		} `json:"trend"`
	} `json:"earningsTrend"`
}

// ChartResponse is the v8 chart payload.
type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *YahooError   `json:"error"`
	} `json:"chart"`
}

// ChartResult holds the timestamps and quote series of one symbol.
type ChartResult struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}
