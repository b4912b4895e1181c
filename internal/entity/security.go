package entity

import (
	"time"
)

// Security 证券基本资料, 对应交易所的证券清单
type Security struct {
	Id        int64  `gorm:"primaryKey;autoIncrement"`
	Code      string `gorm:"uniqueIndex"`
	Name      string
	Market    string `gorm:"index"` // 上市 / 上柜
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	MarketListed = "上市"
	MarketOTC    = "上櫃"
)

// Symbol 行情查询用的完整代号, 例如 2330.TW / 6488.TWO
func (s Security) Symbol() string {
	if s.Market == MarketOTC {
		return s.Code + ".TWO"
	}
	return s.Code + ".TW"
}
