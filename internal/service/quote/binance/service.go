package binance

import (
	"context"
	"fmt"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
	"github.com/twquant/stock-sentinel/internal/entity"
	"github.com/twquant/stock-sentinel/internal/service/quote"
)

var _ quote.Service = (*Service)(nil)

// Service 用币安现货行情实现 quote.Service, watchlist 代号视为 base 资产 (例如 BTC)
type Service struct {
	cli *binance.Client
}

func NewService(cli *binance.Client) *Service {
	return &Service{cli: cli}
}

func (s *Service) IntradayChart(ctx context.Context, sec entity.Security) (quote.Chart, error) {
	symbol := sec.Code + "USDT" // 币安API使用 BTCUSDT 格式

	klines, err := s.cli.NewKlinesService().
		Symbol(symbol).
		Interval("1m").
		Limit(390).
		Do(ctx)
	if err != nil {
		return quote.Chart{}, err
	}

	samples, err := convertSamples(klines)
	if err != nil {
		return quote.Chart{}, fmt.Errorf("binance klines %s: %w", symbol, err)
	}

	prevClose, err := s.previousDailyClose(ctx, symbol)
	if err != nil {
		// 没有参考收盘价时退化为 0% 涨跌幅, 不阻断行情
		prevClose = decimal.Zero
	}
	return quote.FromSamples(samples, prevClose), nil
}

func (s *Service) previousDailyClose(ctx context.Context, symbol string) (decimal.Decimal, error) {
	daily, err := s.cli.NewKlinesService().
		Symbol(symbol).
		Interval("1d").
		Limit(2).
		Do(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if len(daily) < 2 {
		return decimal.Zero, fmt.Errorf("binance daily klines %s: not enough data", symbol)
	}
	return decimal.NewFromString(daily[0].Close)
}

func convertSamples(klines []*binance.Kline) ([]quote.PriceSample, error) {
	samples := make([]quote.PriceSample, 0, len(klines))
	for _, k := range klines {
		klineClose, err := decimal.NewFromString(k.Close)
		if err != nil {
			return nil, err
		}
		klineVolume, err := decimal.NewFromString(k.Volume)
		if err != nil {
			return nil, err
		}
		samples = append(samples, quote.PriceSample{
			Time:   time.UnixMilli(k.CloseTime),
			Close:  klineClose,
			Volume: klineVolume,
		})
	}
	return samples, nil
}
