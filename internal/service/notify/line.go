package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultLineBaseURL = "https://api.line.me"

	// LINE 推播文字长度上限以内留余量
	lineTextLimit = 4500
)

var _ Notifier = (*LineNotifier)(nil)

// LineNotifier LINE Messaging API push
type LineNotifier struct {
	cli      *http.Client
	baseURL  string
	token    string
	targetID string
}

type LineOption func(n *LineNotifier)

func WithLineBaseURL(baseURL string) LineOption {
	return func(n *LineNotifier) {
		n.baseURL = baseURL
	}
}

func NewLineNotifier(token, targetID string, opts ...LineOption) *LineNotifier {
	n := &LineNotifier{
		cli:      &http.Client{Timeout: 10 * time.Second},
		baseURL:  defaultLineBaseURL,
		token:    token,
		targetID: targetID,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *LineNotifier) Name() string {
	return "line"
}

func (n *LineNotifier) Notify(ctx context.Context, text string) error {
	if n.token == "" || n.targetID == "" {
		return nil
	}

	if runes := []rune(text); len(runes) > lineTextLimit {
		text = string(runes[:lineTextLimit])
	}

	payload, err := json.Marshal(map[string]any{
		"to": n.targetID,
		"messages": []map[string]any{
			{"type": "text", "text": text},
		},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/v2/bot/message/push", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+n.token)
	req.Header.Set("Content-Type", "application/json")

	res, err := n.cli.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("line push: unexpected status %d", res.StatusCode)
	}
	return nil
}
