package repo

import (
	"github.com/twquant/stock-sentinel/internal/entity"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(&entity.Security{})
}
