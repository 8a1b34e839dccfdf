// Package telegram sends scenario ranking summaries through the Telegram
// Bot API. Messages use MarkdownV2 and delivery is retried with a linear
// backoff.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/psceval/internal/models"
)

// sender is the subset of *tgbotapi.BotAPI the client uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client handles Telegram notifications
type Client struct {
	bot            sender
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// Report is the content of one ranking notification.
type Report struct {
	Title          string
	GeneratedAt    time.Time
	Ranked         []models.RankedScenario
	Recommendation *models.Recommendation
	Summary        *models.SummaryStats
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	return newClient(bot, chatID, maxRetries, retryDelayBase)
}

func newClient(bot sender, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// Send delivers a ranking report
func (c *Client) Send(ctx context.Context, r Report) error {
	msg := tgbotapi.NewMessage(c.chatID, formatMessage(r))
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == c.maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelayBase * time.Duration(i+1)):
		}
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

// formatMessage renders a report as MarkdownV2
func formatMessage(r Report) string {
	var b strings.Builder

	title := r.Title
	if title == "" {
		title = "Scenario Ranking"
	}
	fmt.Fprintf(&b, "🛢 *%s*\n", escapeMarkdownV2(title))
	if !r.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "📅 %s\n", escapeMarkdownV2(r.GeneratedAt.Format("2006-01-02 15:04")))
	}
	b.WriteString("\n")

	for _, rs := range r.Ranked {
		m := rs.Metrics
		fmt.Fprintf(&b, "%d\\. %s\n", rs.Rank, escapeMarkdownV2(m.ScenarioName))
		fmt.Fprintf(&b, "   Score: *%s*  NPV: %s\n",
			escapeMarkdownV2(fmt.Sprintf("%.1f", rs.TotalScore)), escapeMarkdownV2(money(m.NPV)))
		fmt.Fprintf(&b, "   IRR: %s  Payback: %s  CAPEX: %s\n\n",
			escapeMarkdownV2(percent(m.IRR)), escapeMarkdownV2(years(m.PaybackYears)),
			escapeMarkdownV2(money(m.TotalCapex)))
	}

	if s := r.Summary; s != nil && s.Count > 0 {
		fmt.Fprintf(&b, "📊 %s\n\n", escapeMarkdownV2(fmt.Sprintf("%d scenarios, %d with positive NPV, average NPV %s",
			s.Count, s.PositiveNPVs, money(s.AvgNPV))))
	}

	if rec := r.Recommendation; rec != nil {
		fmt.Fprintf(&b, "✅ *Recommended:* %s\n", escapeMarkdownV2(rec.ScenarioName))
		for _, reason := range rec.Reasons {
			fmt.Fprintf(&b, "• %s\n", escapeMarkdownV2(reason))
		}
	}

	return b.String()
}

func money(v float64) string {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	if v >= 1e6 {
		return fmt.Sprintf("%s$%sM", sign, humanize.CommafWithDigits(v/1e6, 2))
	}
	return sign + "$" + humanize.Comma(int64(v+0.5))
}

func percent(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}

func years(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1fy", *v)
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
