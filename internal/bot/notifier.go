package bot

import (
	"encoding/json"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cleanbot/internal/domain"
)

// messageSender — минимальный срез Bot API, нужный нотификатору. Упрощает тесты.
type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier доставляет уведомления о смене статуса заявки в личный чат клиента.
// Реализует domain.OutboxPublisher: воркер outbox вызывает Publish для каждого
// pending-сообщения, и ошибка отправки оставляет сообщение в очереди на retry.
type Notifier struct {
	api    messageSender
	logger *log.Entry
}

// NewNotifier создаёт Telegram-нотификатор.
func NewNotifier(api messageSender, logger *log.Entry) *Notifier {
	if logger == nil {
		logger = log.WithField("component", "telegram-notifier")
	}
	return &Notifier{api: api, logger: logger}
}

// Publish декодирует payload и отправляет клиенту текст, соответствующий тегу.
func (n *Notifier) Publish(msg domain.OutboxMessage) error {
	var payload domain.NotificationPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("decode notification payload: %w", err)
	}

	chatID, err := strconv.ParseInt(payload.AuthorID, 10, 64)
	if err != nil {
		return fmt.Errorf("parse author id %q: %w", payload.AuthorID, err)
	}

	text := notificationText(payload)
	if text == "" {
		// Неизвестный тег не повод застрять в очереди.
		n.logger.WithFields(log.Fields{
			"outbox_id": msg.ID,
			"tag":       payload.Tag,
		}).Warn("unknown notification tag, skipping")
		return nil
	}

	out := tgbotapi.NewMessage(chatID, text)
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛒 Новый заказ", "start_order"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(buttonMainMenu, "to_main"),
		),
	)

	if _, err := n.api.Send(out); err != nil {
		return fmt.Errorf("send notification for order %d: %w", payload.OrderID, err)
	}

	n.logger.WithFields(log.Fields{
		"order_id": payload.OrderID,
		"tag":      payload.Tag,
	}).Info("notification delivered")

	return nil
}

var _ domain.OutboxPublisher = (*Notifier)(nil)
