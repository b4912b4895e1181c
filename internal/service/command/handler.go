package command

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/twquant/stock-sentinel/internal/service/resolver"
	"github.com/twquant/stock-sentinel/internal/service/watchlist"
)

const (
	usageText  = "指令: /add 2330 /del 2330 /list"
	emptyText  = "目前清單為空。"
	addHint    = "格式: /add 2330,2317"
	delHint    = "格式: /del 2330"
	addedReply = "已加入: "
	delReply   = "已刪除: "
)

// Handler 解析操作指令并更新自选清单。未知指令保持沉默,
// 频道里可能有与机器人无关的聊天内容。
type Handler struct {
	store    watchlist.Store
	resolver resolver.Resolver
}

func NewHandler(store watchlist.Store, r resolver.Resolver) *Handler {
	return &Handler{
		store:    store,
		resolver: r,
	}
}

// Handle 处理单条讯息, 回传更新后的清单与回复文字, 回复为空代表不回应
func (h *Handler) Handle(ctx context.Context, text string, current []string) ([]string, string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return current, ""
	}

	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "/help", "/start":
		return current, usageText

	case "/list":
		if len(current) == 0 {
			return current, emptyText
		}
		return current, strings.Join(current, "\n")

	case "/add":
		codes := h.parseCodes(ctx, args)
		if len(codes) == 0 {
			return current, addHint
		}
		next := lo.Union(current, codes)
		sort.Strings(next)
		h.save(ctx, next)
		return next, addedReply + strings.Join(codes, ", ")

	case "/del":
		codes := h.parseCodes(ctx, args)
		if len(codes) == 0 {
			return current, delHint
		}
		next := lo.Without(current, codes...)
		h.save(ctx, next)
		return next, delReply + strings.Join(codes, ", ")
	}

	return current, ""
}

func (h *Handler) save(ctx context.Context, codes []string) {
	if err := h.store.Save(ctx, codes); err != nil {
		slog.Error("failed to save watchlist", "error", err)
	}
}

// parseCodes 逗号/空白分隔, 只留下纯数字且存在于证券清单的代号, 无效的丢弃
func (h *Handler) parseCodes(ctx context.Context, tokens []string) []string {
	raw := lo.FlatMap(tokens, func(token string, _ int) []string {
		return strings.Split(token, ",")
	})

	valid := lo.FilterMap(raw, func(code string, _ int) (string, bool) {
		code = strings.TrimSpace(code)
		return code, code != "" && isDigits(code) && h.resolver.Exists(ctx, code)
	})
	return lo.Uniq(valid)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
