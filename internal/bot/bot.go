// Package bot posts ingestion reports to a Telegram chat.
package bot

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"claimdesk/internal/model"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Reporter sends one message per ingestion pass. A nil *Reporter is valid
// and does nothing.
type Reporter struct {
	api    telegramAPI
	chatID int64
	log    *slog.Logger
}

// New creates a Reporter. It returns nil without error when token or chatID is unset.
func New(token string, chatID int64, log *slog.Logger) (*Reporter, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Reporter{api: api, chatID: chatID, log: log}, nil
}

// ReportIngest sends the outcome of an ingestion pass.
func (r *Reporter) ReportIngest(res model.IngestResult, err error) {
	if r == nil {
		return
	}
	r.SendMessage(FormatIngestReport(res, err))
}

// SendMessage sends a text message to the report chat.
func (r *Reporter) SendMessage(text string) {
	if r == nil {
		return
	}
	msg := tgbotapi.NewMessage(r.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := r.api.Send(msg); err != nil {
		r.log.Error("send message", "chat_id", r.chatID, "error", err)
	}
}
