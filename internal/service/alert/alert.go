package alert

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/twquant/stock-sentinel/internal/service/indicator"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const KindIntradaySignal = "intraday_signal"

type Alert struct {
	Kind    string          `json:"kind"`
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Status  string          `json:"status"`
	Price   decimal.Decimal `json:"price"`
	Pct     decimal.Decimal `json:"pct"`
	RSI     float64         `json:"rsi"`
	Volume  decimal.Decimal `json:"volume"`
	Message string          `json:"message"`
	Ts      int64           `json:"ts"`
}

var volumePrinter = message.NewPrinter(language.English)

// FormatMessage 推播用的人类可读讯息
func FormatMessage(code, name string, eval indicator.Evaluation) string {
	arrow := "📈"
	if eval.Direction == indicator.DirectionDown {
		arrow = "📉"
	}
	return fmt.Sprintf("%s 盤中訊號 %s %s\n價格: %s (%s%%)\nRSI: %.1f 量: %s\n條件: 價格變動 + RSI + 量能",
		arrow, code, name,
		eval.Price.StringFixed(2), eval.Pct.StringFixed(2),
		eval.RSI,
		volumePrinter.Sprintf("%d", eval.Volume.IntPart()),
	)
}
