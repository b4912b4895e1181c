package schedule

import (
	"fmt"
	"strconv"
	"time"
)

// TradingHours 固定的本地交易时段, 首尾皆含
type TradingHours struct {
	open  int
	close int
}

// NewTradingHours 以 HHMM 字符串建立交易时段, 例如 "0900", "1330"
func NewTradingHours(open, close string) (TradingHours, error) {
	o, err := parseHHMM(open)
	if err != nil {
		return TradingHours{}, err
	}
	c, err := parseHHMM(close)
	if err != nil {
		return TradingHours{}, err
	}
	if o > c {
		return TradingHours{}, fmt.Errorf("trading hours: open %s after close %s", open, close)
	}
	return TradingHours{open: o, close: c}, nil
}

func (h TradingHours) Open(t time.Time) bool {
	hhmm := t.Hour()*100 + t.Minute()
	return h.open <= hhmm && hhmm <= h.close
}

func parseHHMM(s string) (int, error) {
	if len(s) != 4 {
		return 0, fmt.Errorf("trading hours: invalid HHMM %q", s)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("trading hours: invalid HHMM %q", s)
	}
	if v/100 > 23 || v%100 > 59 {
		return 0, fmt.Errorf("trading hours: invalid HHMM %q", s)
	}
	return v, nil
}
