package yahoo

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client is a Yahoo Finance API client
type Client struct {
	client  *http.Client
	baseURL string
	log     zerolog.Logger
}

// NewClient creates a new Yahoo Finance client
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: "https://query1.finance.yahoo.com",
		log:     log.With().Str("client", "yahoo").Logger(),
	}
}

// GetQuotes fetches current quotes for a batch of symbols. FX pair
// symbols like "USDJPY=X" go through the same endpoint. Symbols the
// provider does not know are simply absent from the result.
func (c *Client) GetQuotes(symbols []string) (map[string]Quote, error) {
	if len(symbols) == 0 {
		return map[string]Quote{}, nil
	}

	params := url.Values{}
	params.Add("symbols", strings.Join(symbols, ","))
	params.Add("fields", "symbol,regularMarketPrice,currency")

	body, err := c.get("/v7/finance/quote", params)
	if err != nil {
		return nil, err
	}

	var result yahooQuoteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse quote response: %w", err)
	}
	if result.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("quote API error: %v", result.QuoteResponse.Error)
	}

	quotes := make(map[string]Quote, len(result.QuoteResponse.Result))
	for _, info := range result.QuoteResponse.Result {
		symbol := getString(info, "symbol", "")
		if symbol == "" {
			continue
		}
		quotes[symbol] = Quote{
			Symbol:   symbol,
			Price:    getFloat64OrZero(info, "regularMarketPrice"),
			Currency: getString(info, "currency", ""),
		}
	}

	c.log.Debug().Int("requested", len(symbols)).Int("returned", len(quotes)).Msg("Fetched quotes")

	return quotes, nil
}

// GetDailyCloses fetches up to days daily closing prices for a symbol,
// oldest first. Null closes (market holidays, gaps) are skipped.
func (c *Client) GetDailyCloses(symbol string, days int) ([]float64, error) {
	params := url.Values{}
	params.Add("interval", "1d")
	params.Add("range", rangeForDays(days))

	body, err := c.get("/v8/finance/chart/"+url.PathEscape(symbol), params)
	if err != nil {
		return nil, err
	}

	var result yahooChartResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse chart response: %w", err)
	}
	if result.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %v", result.Chart.Error)
	}
	if len(result.Chart.Result) == 0 || len(result.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no chart data returned for symbol %s", symbol)
	}

	raw := result.Chart.Result[0].Indicators.Quote[0].Close
	closes := make([]float64, 0, len(raw))
	for _, close := range raw {
		if close != nil && *close > 0 {
			closes = append(closes, *close)
		}
	}

	if len(closes) > days {
		closes = closes[len(closes)-days:]
	}

	return closes, nil
}

// GetCountry fetches the company's domicile country from the asset
// profile. Returns empty string when the provider has none.
func (c *Client) GetCountry(symbol string) (string, error) {
	params := url.Values{}
	params.Add("modules", "assetProfile")

	body, err := c.get("/v10/finance/quoteSummary/"+url.PathEscape(symbol), params)
	if err != nil {
		return "", err
	}

	var result yahooSummaryResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse quoteSummary response: %w", err)
	}
	if result.QuoteSummary.Error != nil {
		return "", fmt.Errorf("quoteSummary API error: %v", result.QuoteSummary.Error)
	}
	if len(result.QuoteSummary.Result) == 0 {
		return "", nil
	}

	return result.QuoteSummary.Result[0].AssetProfile.Country, nil
}

// get performs a GET request against the API with browser-like headers
func (c *Client) get(path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers to mimic browser
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Yahoo Finance API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

// rangeForDays picks the smallest chart range covering the window
func rangeForDays(days int) string {
	switch {
	case days <= 21:
		return "1mo"
	case days <= 63:
		return "3mo"
	case days <= 126:
		return "6mo"
	case days <= 252:
		return "1y"
	case days <= 504:
		return "2y"
	default:
		return "5y"
	}
}

// Helper functions to safely extract values from map

func getFloat64OrZero(m map[string]interface{}, key string) float64 {
	if val, ok := m[key]; ok && val != nil {
		switch v := val.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case int64:
			return float64(v)
		}
	}
	return 0
}

func getString(m map[string]interface{}, key, defaultValue string) string {
	if val, ok := m[key]; ok && val != nil {
		if s, ok := val.(string); ok && s != "" {
			return s
		}
	}
	return defaultValue
}
