package bot

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladislavdragonenkov/cleanbot/internal/domain"
)

const minAddressLength = 10

// startOrderWizard начинает оформление: шаг 1, ввод адреса.
func (b *Bot) startOrderWizard(chatID int64) {
	sess := b.sessions.Get(chatID)
	sess.Step = stepAddress
	sess.Address = ""
	sess.Date = ""
	sess.Time = ""

	b.send(chatID, addressStepText, toMainMenuKeyboard())
}

// processAddress валидирует адрес и переводит диалог на выбор даты.
func (b *Bot) processAddress(chatID int64, text string) {
	address := strings.TrimSpace(text)
	if len([]rune(address)) < minAddressLength {
		b.send(chatID, addressTooShortText, nil)
		return
	}

	sess := b.sessions.Get(chatID)
	sess.Address = address
	sess.Step = stepDate

	b.send(chatID, dateStepText(address), calendarKeyboard(time.Now()))
}

func (b *Bot) showDateStep(chatID int64) {
	sess := b.sessions.Get(chatID)
	if sess.Address == "" {
		b.startOrderWizard(chatID)
		return
	}
	sess.Step = stepDate

	b.send(chatID, dateStepText(sess.Address), calendarKeyboard(time.Now()))
}

func (b *Bot) processDateSelection(cb *tgbotapi.CallbackQuery, rawDate string) {
	chatID := cb.Message.Chat.ID

	if _, err := time.Parse("2006-01-02", rawDate); err != nil {
		b.answerCallback(cb.ID, "Некорректная дата")
		return
	}

	sess := b.sessions.Get(chatID)
	if sess.Address == "" {
		b.answerCallback(cb.ID, "Сессия устарела, начните заново")
		b.startOrderWizard(chatID)
		return
	}
	sess.Date = rawDate
	sess.Step = stepTime

	b.send(chatID, timeStepText(sess.Address, formatDate(rawDate)), timeKeyboard())
	b.answerCallback(cb.ID, "")
}

func (b *Bot) showTimeStep(chatID int64) {
	sess := b.sessions.Get(chatID)
	if sess.Address == "" || sess.Date == "" {
		b.startOrderWizard(chatID)
		return
	}
	sess.Step = stepTime

	b.send(chatID, timeStepText(sess.Address, formatDate(sess.Date)), timeKeyboard())
}

func (b *Bot) processTimeSelection(cb *tgbotapi.CallbackQuery, slot string) {
	chatID := cb.Message.Chat.ID

	sess := b.sessions.Get(chatID)
	if sess.Address == "" || sess.Date == "" {
		b.answerCallback(cb.ID, "Сессия устарела, начните заново")
		b.startOrderWizard(chatID)
		return
	}
	sess.Time = slot
	sess.Step = stepConfirm

	b.send(chatID, confirmationText(sess.Address, formatDate(sess.Date), slot), confirmKeyboard())
	b.answerCallback(cb.ID, "")
}

// confirmOrder создаёт заявку. Повторное нажатие кнопки с теми же данными
// гасится idempotency-ключом и не порождает дубликат.
func (b *Bot) confirmOrder(cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	sess := b.sessions.Get(chatID)

	if sess.Step != stepConfirm || sess.Address == "" || sess.Date == "" || sess.Time == "" {
		b.answerCallback(cb.ID, "Сессия устарела, начните заново")
		b.startOrderWizard(chatID)
		return
	}

	requestHash := confirmRequestHash(chatID, sess.Address, sess.Date, sess.Time)
	idemKey := fmt.Sprintf("order-confirm:%d:%s", chatID, requestHash[:16])

	if b.idem != nil {
		_, err := b.idem.CreateProcessing(idemKey, requestHash, time.Now().Add(24*time.Hour))
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrIdempotencyKeyAlreadyExists),
			errors.Is(err, domain.ErrIdempotencyHashMismatch):
			b.answerCallback(cb.ID, "Заказ уже оформлен")
			return
		default:
			b.logger.WithError(err).WithField("chat_id", chatID).Warn("idempotency check failed, proceeding")
		}
	}

	scheduledAt, err := time.ParseInLocation("2006-01-02 15:04", sess.Date+" "+sess.Time, time.Local)
	if err != nil {
		b.answerCallback(cb.ID, "Некорректные дата или время")
		return
	}

	authorID := strconv.FormatInt(cb.From.ID, 10)
	created, err := b.orders.Create(authorID, sess.Address, scheduledAt)
	if err != nil {
		if b.idem != nil {
			if markErr := b.idem.MarkFailed(idemKey); markErr != nil {
				b.logger.WithError(markErr).Warn("failed to mark idempotency record failed")
			}
		}
		b.send(chatID,
			"❌ <b>Ошибка!</b>\n\nИзвините, произошла ошибка при создании заказа. Пожалуйста, попробуйте еще раз.",
			toMainOrOrderKeyboard())
		b.answerCallback(cb.ID, "")
		return
	}

	if b.idem != nil {
		if err := b.idem.MarkDone(idemKey, created.ID); err != nil {
			b.logger.WithError(err).Warn("failed to mark idempotency record done")
		}
	}

	b.send(chatID, orderCreatedText(sess.Address, formatDate(sess.Date), sess.Time), orderCreatedKeyboard())
	b.sessions.Reset(chatID)
	b.answerCallback(cb.ID, "Заказ успешно оформлен!")
}

// cancelWizard прерывает оформление до создания заявки.
func (b *Bot) cancelWizard(cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	b.sessions.Reset(chatID)

	b.send(chatID, orderCanceledText, toMainOrOrderKeyboard())
	b.answerCallback(cb.ID, "Заказ отменен")
}

// cancelLatestOrder отменяет последнюю pending-заявку клиента.
func (b *Bot) cancelLatestOrder(cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	authorID := strconv.FormatInt(cb.From.ID, 10)

	orders, err := b.orders.GetByAuthor(authorID)
	if err != nil {
		b.answerCallback(cb.ID, "❌ Ошибка, попробуйте позже")
		return
	}

	var target *domain.Order
	for i := len(orders) - 1; i >= 0; i-- {
		if orders[i].Status == domain.OrderStatusPending {
			target = &orders[i]
			break
		}
	}
	if target == nil {
		b.send(chatID, "У вас нет активных заказов.", toMainMenuKeyboard())
		b.answerCallback(cb.ID, "")
		return
	}

	if _, err := b.orders.UpdateStatus(target.ID, domain.OrderStatusCanceled, authorID); err != nil {
		b.answerCallback(cb.ID, "❌ Ошибка при отмене заказа")
		return
	}

	b.send(chatID, "❌ <b>Заказ отменен</b>\n\nВаш заказ успешно отменен.", toMainOrOrderKeyboard())
	b.answerCallback(cb.ID, "Заказ отменен")
}

// formatDate переводит YYYY-MM-DD в формат DD.MM.YYYY для сообщений.
func formatDate(raw string) string {
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return raw
	}
	return parsed.Format("02.01.2006")
}

func confirmRequestHash(chatID int64, address, date, slot string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%s|%s|%s", chatID, address, date, slot)))
	return hex.EncodeToString(sum[:])
}
