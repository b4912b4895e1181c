package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/twquant/stock-sentinel/internal/entity"
	"github.com/twquant/stock-sentinel/internal/service/quote"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

var _ quote.Service = (*Service)(nil)

type Service struct {
	cli     *http.Client
	baseURL string
}

type Option func(s *Service)

func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.baseURL = baseURL
	}
}

func WithClient(cli *http.Client) Option {
	return func(s *Service) {
		s.cli = cli
	}
}

func NewService(opts ...Option) *Service {
	s := &Service{
		cli:     &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				PreviousClose      *float64 `json:"previousClose"`
				ChartPreviousClose *float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

func (s *Service) IntradayChart(ctx context.Context, sec entity.Security) (quote.Chart, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", s.baseURL, url.PathEscape(sec.Symbol()), url.Values{
		"interval": []string{"1m"},
		"range":    []string{"1d"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return quote.Chart{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	res, err := s.cli.Do(req)
	if err != nil {
		return quote.Chart{}, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return quote.Chart{}, fmt.Errorf("yahoo chart %s: unexpected status %d", sec.Symbol(), res.StatusCode)
	}

	var body chartResponse
	if err = json.NewDecoder(res.Body).Decode(&body); err != nil {
		return quote.Chart{}, fmt.Errorf("yahoo chart %s: decode: %w", sec.Symbol(), err)
	}
	if len(body.Chart.Result) == 0 {
		return quote.Chart{}, fmt.Errorf("yahoo chart %s: empty result", sec.Symbol())
	}

	result := body.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return quote.Chart{}, fmt.Errorf("yahoo chart %s: no quote data", sec.Symbol())
	}

	q := result.Indicators.Quote[0]
	chart := quote.Chart{}
	// 空档分钟会是 null, 分别过滤
	for _, c := range q.Close {
		if c != nil {
			chart.Closes = append(chart.Closes, decimal.NewFromFloat(*c))
		}
	}
	for _, v := range q.Volume {
		if v != nil {
			chart.Volumes = append(chart.Volumes, decimal.NewFromFloat(*v))
		}
	}

	switch {
	case result.Meta.PreviousClose != nil:
		chart.PrevClose = decimal.NewFromFloat(*result.Meta.PreviousClose)
	case result.Meta.ChartPreviousClose != nil:
		chart.PrevClose = decimal.NewFromFloat(*result.Meta.ChartPreviousClose)
	}
	return chart, nil
}
