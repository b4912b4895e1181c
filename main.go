package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/twquant/stock-sentinel/internal/entity"
	"github.com/twquant/stock-sentinel/internal/repo"
	"github.com/twquant/stock-sentinel/internal/schedule"
	"github.com/twquant/stock-sentinel/internal/service/alert"
	"github.com/twquant/stock-sentinel/internal/service/command"
	"github.com/twquant/stock-sentinel/internal/service/indicator"
	"github.com/twquant/stock-sentinel/internal/service/monitor"
	"github.com/twquant/stock-sentinel/internal/service/notify"
	"github.com/twquant/stock-sentinel/internal/service/quote"
	binancequote "github.com/twquant/stock-sentinel/internal/service/quote/binance"
	"github.com/twquant/stock-sentinel/internal/service/quote/yahoo"
	"github.com/twquant/stock-sentinel/internal/service/resolver"
	"github.com/twquant/stock-sentinel/internal/service/watchlist"
	"github.com/twquant/stock-sentinel/ioc"
	"github.com/twquant/stock-sentinel/pkg/decimalx"
)

var importFile = pflag.String("import-securities", "", "import securities reference json and exit")

func initViper() {

	// --config=./config/xxx.yaml
	file := pflag.String("config", "./config/config.yaml", "specify config file")
	pflag.Parse()

	viper.SetConfigFile(*file)
	viper.SetEnvPrefix("SENTINEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("monitor.check_interval_sec", 60)
	viper.SetDefault("monitor.up_pct", "2.0")
	viper.SetDefault("monitor.down_pct", "-2.0")
	viper.SetDefault("monitor.rsi_overbought", 70.0)
	viper.SetDefault("monitor.rsi_oversold", 30.0)
	viper.SetDefault("monitor.volume_spike_mult", "2.5")
	viper.SetDefault("monitor.volume_spike_enabled", true)
	viper.SetDefault("monitor.cooldown_min", 30)
	viper.SetDefault("monitor.min_samples", 20)
	viper.SetDefault("market.open", "0900")
	viper.SetDefault("market.close", "1330")
	viper.SetDefault("watchlist.file", "watchlist.json")
	viper.SetDefault("watchlist.sheet_name", "watchlist")
	viper.SetDefault("alerts.file", "alerts.jsonl")
	viper.SetDefault("telegram.poll_interval_sec", 10)

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("fatal error config file: %s \n", err))
	}
}

func initQuoteService() quote.Service {
	switch viper.GetString("quote.provider") {
	case "binance":
		return binancequote.NewService(ioc.InitBinanceCli())
	default:
		var opts []yahoo.Option
		if base := viper.GetString("quote.yahoo_base_url"); base != "" {
			opts = append(opts, yahoo.WithBaseURL(base))
		}
		return yahoo.NewService(opts...)
	}
}

// importSecurities 汇入证券基本资料, 作为指令验证与代号解析的已知清单
func importSecurities(ctx context.Context, securityRepo repo.SecurityRepo, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var items []struct {
		Code   string `json:"code"`
		Name   string `json:"name"`
		Market string `json:"market"`
	}
	if err = json.Unmarshal(data, &items); err != nil {
		return err
	}

	securities := make([]entity.Security, 0, len(items))
	for _, item := range items {
		securities = append(securities, entity.Security{Code: item.Code, Name: item.Name, Market: item.Market})
	}
	if err = securityRepo.Upsert(ctx, securities); err != nil {
		return err
	}
	slog.Info("securities imported", "count", len(securities))
	return nil
}

func seedCodes() []string {
	raw := strings.Split(viper.GetString("monitor.seed_codes"), ",")
	codes := make([]string, 0, len(raw))
	for _, code := range raw {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

func main() {
	// 秘钥走 .env, 没有也无妨
	_ = godotenv.Load()
	initViper()

	db := ioc.InitDB()
	if err := repo.InitTables(db); err != nil {
		panic(err)
	}
	securityRepo := repo.NewSecurityRepo(db)

	if *importFile != "" {
		if err := importSecurities(context.Background(), securityRepo, *importFile); err != nil {
			panic(err)
		}
		return
	}

	res, err := resolver.NewRepoResolver(context.Background(), securityRepo)
	if err != nil {
		panic(err)
	}

	var storeOpts []watchlist.Option
	if sheetSvc := ioc.InitSheets(); sheetSvc != nil {
		storeOpts = append(storeOpts, watchlist.WithMirror(watchlist.NewSheetMirror(
			sheetSvc,
			viper.GetString("watchlist.spreadsheet_id"),
			viper.GetString("watchlist.sheet_name"),
		)))
	}
	store := watchlist.NewFileStore(viper.GetString("watchlist.file"), storeOpts...)

	// 阈值按字串精确解析, 不经过 float64
	evaluator := indicator.NewEvaluator(indicator.Config{
		UpPct:              decimalx.MustFromString(viper.GetString("monitor.up_pct")),
		DownPct:            decimalx.MustFromString(viper.GetString("monitor.down_pct")),
		Overbought:         viper.GetFloat64("monitor.rsi_overbought"),
		Oversold:           viper.GetFloat64("monitor.rsi_oversold"),
		VolumeSpikeMult:    decimalx.MustFromString(viper.GetString("monitor.volume_spike_mult")),
		VolumeSpikeEnabled: viper.GetBool("monitor.volume_spike_enabled"),
		MinSamples:         viper.GetInt("monitor.min_samples"),
	})

	tgToken := viper.GetString("telegram.token")
	tgChatID := viper.GetString("telegram.chat_id")
	telegramNotifier := notify.NewTelegramNotifier(tgToken, tgChatID)
	fanout := notify.NewFanout(
		notify.NewLineNotifier(viper.GetString("line.token"), viper.GetString("line.target_id")),
		telegramNotifier,
	)

	mon := monitor.NewIntradayMonitor(
		initQuoteService(),
		evaluator,
		res,
		alert.NewFileSink(viper.GetString("alerts.file")),
		time.Duration(viper.GetInt("monitor.cooldown_min"))*time.Minute,
		monitor.WithNotifier(fanout),
	)

	scanTask := monitor.NewScanTask(mon, store, seedCodes())
	poller := command.NewPoller(command.NewHandler(store, res), store, telegramNotifier, tgToken, tgChatID)

	hours, err := schedule.NewTradingHours(viper.GetString("market.open"), viper.GetString("market.close"))
	if err != nil {
		panic(err)
	}
	runner := schedule.NewRunner(scanTask, poller, hours, schedule.RunnerConfig{
		ScanInterval: time.Duration(viper.GetInt("monitor.check_interval_sec")) * time.Second,
		PollInterval: time.Duration(viper.GetInt("telegram.poll_interval_sec")) * time.Second,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("intraday sentinel started",
		"check_interval_sec", viper.GetInt("monitor.check_interval_sec"),
		"cooldown_min", viper.GetInt("monitor.cooldown_min"),
	)
	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		panic(err)
	}
}
