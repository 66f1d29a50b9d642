package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cleanbot/internal/domain"
	"github.com/vladislavdragonenkov/cleanbot/internal/service/order"
)

// Bot обслуживает Telegram-чаты: мастер оформления заказа для клиентов
// и панель управления заявками для администраторов.
type Bot struct {
	api      *tgbotapi.BotAPI
	orders   order.Service
	users    domain.UserRepository
	idem     domain.IdempotencyRepository
	sessions *sessionStore
	admins   map[int64]struct{}
	logger   *log.Entry
}

// NewBot создаёт бота поверх подключённого Bot API.
// adminIDs получают флаг сотрудника при первом обращении.
func NewBot(
	api *tgbotapi.BotAPI,
	orders order.Service,
	users domain.UserRepository,
	idem domain.IdempotencyRepository,
	adminIDs []int64,
	logger *log.Entry,
) *Bot {
	if logger == nil {
		logger = log.WithField("component", "bot")
	}

	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}

	return &Bot{
		api:      api,
		orders:   orders,
		users:    users,
		idem:     idem,
		sessions: newSessionStore(),
		admins:   admins,
		logger:   logger,
	}
}

// Run запускает long-polling до отмены ctx.
func (b *Bot) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30

	updates := b.api.GetUpdatesChan(cfg)
	b.logger.WithField("username", b.api.Self.UserName).Info("bot started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.WithField("panic", r).Error("update handler panicked")
		}
	}()

	switch {
	case update.Message != nil:
		b.handleMessage(update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	user := b.ensureUser(msg.From, msg.Contact)
	chatID := msg.Chat.ID

	if msg.Contact != nil {
		b.send(chatID, "📱 Спасибо! Номер сохранён.", mainKeyboard(b.isAdmin(msg.From.ID, user)))
		return
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.showMainMenu(chatID, user, msg.From.ID)
		case "help":
			b.sendHelp(chatID, user, msg.From.ID)
		case "order":
			b.startOrderWizard(chatID)
		default:
			b.send(chatID, "Неизвестная команда. Наберите /help для справки.", nil)
		}
		return
	}

	switch msg.Text {
	case buttonMainMenu:
		b.showMainMenu(chatID, user, msg.From.ID)
	case buttonNewOrder:
		b.startOrderWizard(chatID)
	case buttonHelp:
		b.sendHelp(chatID, user, msg.From.ID)
	case buttonAdminPanel:
		if b.isAdmin(msg.From.ID, user) {
			b.showAdminPanel(chatID)
		}
	default:
		sess := b.sessions.Get(chatID)
		if sess.Step == stepAddress {
			b.processAddress(chatID, msg.Text)
			return
		}
	}
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.From == nil {
		return
	}

	user := b.ensureUser(cb.From, nil)
	data := cb.Data

	switch {
	case data == "ignore":
		b.answerCallback(cb.ID, "")
	case data == "to_main":
		b.sessions.Reset(cb.Message.Chat.ID)
		b.showMainMenu(cb.Message.Chat.ID, user, cb.From.ID)
		b.answerCallback(cb.ID, "")
	case data == "start_order", data == "back_to_address":
		b.startOrderWizard(cb.Message.Chat.ID)
		b.answerCallback(cb.ID, "")
	case data == "back_to_date":
		b.showDateStep(cb.Message.Chat.ID)
		b.answerCallback(cb.ID, "")
	case data == "back_to_time":
		b.showTimeStep(cb.Message.Chat.ID)
		b.answerCallback(cb.ID, "")
	case strings.HasPrefix(data, "date_"):
		b.processDateSelection(cb, strings.TrimPrefix(data, "date_"))
	case strings.HasPrefix(data, "time_"):
		b.processTimeSelection(cb, strings.TrimPrefix(data, "time_"))
	case data == "confirm_order":
		b.confirmOrder(cb)
	case data == "cancel_order":
		b.cancelWizard(cb)
	case data == "cancel_this_order":
		b.cancelLatestOrder(cb)
	case strings.HasPrefix(data, "admin_"):
		if !b.isAdmin(cb.From.ID, user) {
			b.answerCallback(cb.ID, "Недостаточно прав")
			return
		}
		b.handleAdminCallback(cb, data)
	default:
		b.answerCallback(cb.ID, "")
	}
}

// ensureUser регистрирует пользователя при каждом обращении.
// Telegram не даёт события "пользователь появился", поэтому upsert на каждый апдейт.
func (b *Bot) ensureUser(from *tgbotapi.User, contact *tgbotapi.Contact) domain.User {
	id := strconv.FormatInt(from.ID, 10)

	user := domain.User{
		ID:       id,
		Username: from.UserName,
	}
	if contact != nil && contact.UserID == from.ID {
		user.PhoneNumber = contact.PhoneNumber
	}

	if err := b.users.Upsert(user); err != nil {
		b.logger.WithError(err).WithField("user_id", id).Error("failed to upsert user")
	}

	if _, configured := b.admins[from.ID]; configured {
		if err := b.users.SetStaff(id, true); err != nil {
			b.logger.WithError(err).WithField("user_id", id).Warn("failed to set staff flag")
		}
	}

	stored, err := b.users.GetOne(id)
	if err != nil {
		b.logger.WithError(err).WithField("user_id", id).Warn("failed to load user")
		return user
	}
	return stored
}

func (b *Bot) isAdmin(telegramID int64, user domain.User) bool {
	if user.IsStaff {
		return true
	}
	_, ok := b.admins[telegramID]
	return ok
}

// send отправляет HTML-сообщение, ошибки уходят только в лог.
func (b *Bot) send(chatID int64, text string, keyboard interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.WithError(err).WithField("chat_id", chatID).Error("failed to send message")
	}
}

func (b *Bot) answerCallback(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.logger.WithError(err).Warn("failed to answer callback")
	}
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		b.logger.WithError(err).Debug("failed to delete message")
	}
}
