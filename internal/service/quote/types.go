package quote

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/twquant/stock-sentinel/internal/entity"
)

// PriceSample 单根一分钟行情采样
type PriceSample struct {
	Time   time.Time
	Close  decimal.Decimal
	Volume decimal.Decimal
}

// Chart 一个交易日的盘中序列. Closes 与 Volumes 各自过滤后长度可能不同,
// 数据源对没有成交的分钟会回传 null. 没有参考收盘价时 PrevClose 为零
type Chart struct {
	Closes    []decimal.Decimal
	Volumes   []decimal.Decimal
	PrevClose decimal.Decimal
}

func FromSamples(samples []PriceSample, prevClose decimal.Decimal) Chart {
	chart := Chart{
		Closes:    make([]decimal.Decimal, 0, len(samples)),
		Volumes:   make([]decimal.Decimal, 0, len(samples)),
		PrevClose: prevClose,
	}
	for _, s := range samples {
		chart.Closes = append(chart.Closes, s.Close)
		chart.Volumes = append(chart.Volumes, s.Volume)
	}
	return chart
}

// Service 行情数据服务接口
type Service interface {
	IntradayChart(ctx context.Context, sec entity.Security) (Chart, error)
}
