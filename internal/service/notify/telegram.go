package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTelegramBaseURL = "https://api.telegram.org"

var _ Notifier = (*TelegramNotifier)(nil)

// TelegramNotifier Telegram bot sendMessage, 同时用于告警推播和指令回复
type TelegramNotifier struct {
	cli     *http.Client
	baseURL string
	token   string
	chatID  string
}

type TelegramOption func(n *TelegramNotifier)

func WithTelegramBaseURL(baseURL string) TelegramOption {
	return func(n *TelegramNotifier) {
		n.baseURL = baseURL
	}
}

func NewTelegramNotifier(token, chatID string, opts ...TelegramOption) *TelegramNotifier {
	n := &TelegramNotifier{
		cli:     &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultTelegramBaseURL,
		token:   token,
		chatID:  chatID,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *TelegramNotifier) Name() string {
	return "telegram"
}

func (n *TelegramNotifier) Notify(ctx context.Context, text string) error {
	if n.token == "" || n.chatID == "" {
		return nil
	}

	payload, err := json.Marshal(map[string]any{
		"chat_id": n.chatID,
		"text":    text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.cli.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("telegram send: unexpected status %d", res.StatusCode)
	}
	return nil
}
