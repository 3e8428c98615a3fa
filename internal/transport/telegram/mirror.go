// Package telegram mirrors channel announcements into a Telegram chat.
package telegram

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	messageDomain "github.com/reshetovitsme/channel-telltale/internal/modules/message/domain"
	"github.com/samber/oops"
)

// Sender is the part of *bot.Bot the mirror uses
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Mirror forwards announcements to a single Telegram chat
type Mirror struct {
	sender Sender
	chatID string
	logger *slog.Logger
}

// New creates a mirror backed by a go-telegram bot. The bot is not started;
// it is only used for outbound calls.
func New(token, chatID string, logger *slog.Logger) (*Mirror, error) {
	b, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		return nil, oops.In("telegram").With("context", "failed to create telegram bot").Wrap(err)
	}
	return NewWithSender(b, chatID, logger), nil
}

// NewWithSender creates a mirror on top of an existing sender
func NewWithSender(sender Sender, chatID string, logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mirror{sender: sender, chatID: chatID, logger: logger}
}

// Mirror sends a short HTML summary of a
func (m *Mirror) Mirror(ctx context.Context, a *messageDomain.Announcement) error {
	_, err := m.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    m.chatID,
		Text:      FormatAnnouncement(a),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return oops.In("telegram").With("chat_id", m.chatID, "channel_id", a.ChannelID).Wrap(err)
	}

	m.logger.Debug("Mirrored announcement", "chat_id", m.chatID, "channel_id", a.ChannelID)
	return nil
}

// FormatAnnouncement renders a as Telegram HTML
func FormatAnnouncement(a *messageDomain.Announcement) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>%s</b>\n", html.EscapeString(a.Headline())))
	sb.WriteString(fmt.Sprintf("#%s", html.EscapeString(a.ChannelName)))
	if a.CreatorName != "" {
		sb.WriteString(fmt.Sprintf(" by %s", html.EscapeString(a.CreatorName)))
	}
	if a.Purpose != "" {
		sb.WriteString("\n\n")
		sb.WriteString(html.EscapeString(a.Purpose))
	}
	return sb.String()
}
