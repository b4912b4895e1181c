package command

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/twquant/stock-sentinel/internal/schedule"
	"github.com/twquant/stock-sentinel/internal/service/notify"
	"github.com/twquant/stock-sentinel/internal/service/watchlist"
)

const defaultTelegramBaseURL = "https://api.telegram.org"

var _ schedule.Task = (*Poller)(nil)

// Poller 轮询 Telegram getUpdates, 只处理授权会话的指令
type Poller struct {
	cli     *http.Client
	baseURL string
	token   string
	chatID  string

	handler *Handler
	store   watchlist.Store
	replier notify.Notifier

	// lastUpdateID 已看过的最大 update id, 对所有 update 前进,
	// 包括被过滤掉的, 避免重复处理
	lastUpdateID int64
}

type PollerOption func(p *Poller)

func WithBaseURL(baseURL string) PollerOption {
	return func(p *Poller) {
		p.baseURL = baseURL
	}
}

func NewPoller(handler *Handler, store watchlist.Store, replier notify.Notifier, token, chatID string, opts ...PollerOption) *Poller {
	p := &Poller{
		cli:     &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultTelegramBaseURL,
		token:   token,
		chatID:  chatID,
		handler: handler,
		store:   store,
		replier: replier,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Poller) Name() string {
	return "telegram_poll"
}

type update struct {
	UpdateID int64 `json:"update_id"`
	Message  struct {
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		Text string `json:"text"`
	} `json:"message"`
}

type updatesResponse struct {
	OK     bool     `json:"ok"`
	Result []update `json:"result"`
}

func (p *Poller) Run(ctx context.Context) error {
	if p.token == "" || p.chatID == "" {
		return nil
	}

	updates, err := p.fetchUpdates(ctx)
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}

	// 每批重新读取清单, 不跨批缓存
	current, err := p.store.Load(ctx)
	if err != nil {
		return err
	}

	for _, upd := range updates {
		if upd.UpdateID > p.lastUpdateID {
			p.lastUpdateID = upd.UpdateID
		}
		if strconv.FormatInt(upd.Message.Chat.ID, 10) != p.chatID {
			continue
		}

		var reply string
		current, reply = p.handler.Handle(ctx, upd.Message.Text, current)
		if reply == "" {
			continue
		}
		if err := p.replier.Notify(ctx, reply); err != nil {
			slog.Error("failed to reply command", "error", err)
		}
	}
	return nil
}

func (p *Poller) fetchUpdates(ctx context.Context) ([]update, error) {
	u := fmt.Sprintf("%s/bot%s/getUpdates?offset=%d&timeout=0", p.baseURL, p.token, p.lastUpdateID+1)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := p.cli.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram getUpdates: unexpected status %d", res.StatusCode)
	}

	var body updatesResponse
	if err = json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body.Result, nil
}
