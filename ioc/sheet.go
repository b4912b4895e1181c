package ioc

import (
	"context"

	"github.com/spf13/viper"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// InitSheets 未设定试算表镜像时回传 nil
func InitSheets() *sheets.Service {
	type Config struct {
		SpreadsheetID   string `mapstructure:"spreadsheet_id"`
		CredentialsFile string `mapstructure:"credentials_file"`
	}

	var cfg Config
	if err := viper.UnmarshalKey("watchlist", &cfg); err != nil {
		panic(err)
	}
	if cfg.SpreadsheetID == "" || cfg.CredentialsFile == "" {
		return nil
	}

	svc, err := sheets.NewService(context.Background(),
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		panic(err)
	}
	return svc
}
