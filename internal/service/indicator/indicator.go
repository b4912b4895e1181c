package indicator

import (
	"github.com/shopspring/decimal"
	"github.com/twquant/stock-sentinel/internal/service/quote"
	"github.com/twquant/stock-sentinel/pkg/decimalx"
)

type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
	DirectionNone Direction = "NONE"
)

const (
	rsiPeriod    = 14
	volumeWindow = 20
	minVolumes   = 5

	defaultMinSamples = 20
)

type Config struct {
	UpPct   decimal.Decimal
	DownPct decimal.Decimal

	Overbought float64
	Oversold   float64

	VolumeSpikeMult    decimal.Decimal
	VolumeSpikeEnabled bool

	// MinSamples 最少K线数, 作为14周期RSI之上的安全余量, 预设20,
	// 实际下限不会低于 RSI 窗口所需的根数
	MinSamples int
}

type Evaluation struct {
	Price     decimal.Decimal
	Pct       decimal.Decimal
	RSI       float64
	Volume    decimal.Decimal
	Direction Direction

	// Insufficient 采样不足, 本轮跳过, 不算错误
	Insufficient bool
}

type Evaluator struct {
	cfg Config
}

func NewEvaluator(cfg Config) *Evaluator {
	if cfg.MinSamples <= 0 {
		cfg.MinSamples = defaultMinSamples
	}
	// RSI 种子要吃掉前 rsiPeriod 根差分, 下限压不到 rsiPeriod+1 以下
	if cfg.MinSamples < rsiPeriod+1 {
		cfg.MinSamples = rsiPeriod + 1
	}
	return &Evaluator{cfg: cfg}
}

func (e *Evaluator) Evaluate(chart quote.Chart) Evaluation {
	if len(chart.Closes) < e.cfg.MinSamples || len(chart.Volumes) < minVolumes {
		return Evaluation{Direction: DirectionNone, Insufficient: true}
	}

	lastPrice := chart.Closes[len(chart.Closes)-1]
	lastVolume := chart.Volumes[len(chart.Volumes)-1]

	prevClose := chart.PrevClose
	if prevClose.IsZero() {
		// 没有参考收盘价时以最新价代替, 涨跌幅为0
		prevClose = lastPrice
	}
	pct := lastPrice.Sub(prevClose).Div(prevClose).Mul(decimal.NewFromInt(100))

	rsi := relativeStrength(chart.Closes, rsiPeriod)

	result := Evaluation{
		Price:     lastPrice,
		Pct:       pct,
		RSI:       rsi,
		Volume:    lastVolume,
		Direction: DirectionNone,
	}

	volumeOK := e.volumeSpike(chart.Volumes)
	switch {
	case pct.GreaterThanOrEqual(e.cfg.UpPct) && rsi >= e.cfg.Overbought && volumeOK:
		result.Direction = DirectionUp
	case pct.LessThanOrEqual(e.cfg.DownPct) && rsi <= e.cfg.Oversold && volumeOK:
		result.Direction = DirectionDown
	}
	return result
}

func (e *Evaluator) volumeSpike(volumes []decimal.Decimal) bool {
	if !e.cfg.VolumeSpikeEnabled || e.cfg.VolumeSpikeMult.LessThanOrEqual(decimal.Zero) {
		return true
	}

	window := volumes
	if len(window) > volumeWindow {
		window = window[len(window)-volumeWindow:]
	}
	avg := decimalx.Mean(window)
	return volumes[len(volumes)-1].GreaterThanOrEqual(avg.Mul(e.cfg.VolumeSpikeMult))
}

// relativeStrength 14周期RSI, Wilder平滑, 前 period 根只用来做均值种子
func relativeStrength(closes []decimal.Decimal, period int) float64 {
	prices := make([]float64, len(closes))
	for i, c := range closes {
		prices[i] = c.InexactFloat64()
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgGain+avgLoss == 0 {
		return 50
	}
	return 100 * avgGain / (avgGain + avgLoss)
}
