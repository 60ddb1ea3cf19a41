package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"sor/internal/adapters/config"
	"sor/internal/domain/stage"
	"sor/pkg/errors"
	"sor/pkg/logger"
)

// TelegramNotifier pings the admin chat when a stage finishes and is
// waiting for human approval.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    *logger.Logger
}

// NewTelegramNotifier creates a notifier from config. Returns nil when the
// bot token or chat ID is not configured.
func NewTelegramNotifier(cfg config.TelegramConfig) (*TelegramNotifier, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create telegram bot")
	}

	return &TelegramNotifier{
		api:    api,
		chatID: cfg.AdminChatID,
		log:    logger.Get().With("component", "telegram_notifier"),
	}, nil
}

// NotifyStageAwaitingApproval sends an approval nudge for a completed stage.
func (n *TelegramNotifier) NotifyStageAwaitingApproval(projectName string, stageNumber int) {
	if n == nil {
		return
	}

	text := fmt.Sprintf(
		"Stage %d (%s) of %q finished and is awaiting approval.",
		stageNumber, stage.Name(stageNumber), projectName,
	)

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		n.log.Warnw("Failed to send approval notification",
			"project", projectName, "stage", stageNumber, "error", err)
	}
}
