package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladislavdragonenkov/cleanbot/internal/domain"
)

const ordersPerPage = 5

func (b *Bot) showAdminPanel(chatID int64) {
	b.send(chatID, "👨‍💼 <b>Панель администратора</b>", toMainMenuKeyboard())
	b.send(chatID, "Выберите действие:", adminPanelKeyboard())
}

func (b *Bot) handleAdminCallback(cb *tgbotapi.CallbackQuery, data string) {
	chatID := cb.Message.Chat.ID
	sess := b.sessions.Get(chatID)

	switch {
	case data == "admin_panel":
		sess.FilterStatus = ""
		sess.Page = 0
		b.showAdminPanel(chatID)
		b.answerCallback(cb.ID, "")

	case data == "admin_new_orders":
		sess.FilterStatus = "pending"
		sess.Page = 0
		b.showOrdersPage(cb, true)

	case data == "admin_all_orders":
		sess.FilterStatus = ""
		sess.Page = 0
		b.showOrdersPage(cb, true)

	case strings.HasPrefix(data, "admin_page_"):
		page, err := strconv.Atoi(strings.TrimPrefix(data, "admin_page_"))
		if err != nil || page < 0 {
			b.answerCallback(cb.ID, "")
			return
		}
		sess.Page = page
		b.showOrdersPage(cb, true)

	case data == "admin_refresh":
		b.showOrdersPage(cb, true)

	case data == "admin_back_to_list":
		b.showOrdersPage(cb, false)

	case strings.HasPrefix(data, "admin_export_"):
		b.exportOrders(cb, strings.TrimPrefix(data, "admin_export_"))

	case strings.HasPrefix(data, "admin_order_"):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, "admin_order_"), 10, 64)
		if err != nil {
			b.answerCallback(cb.ID, "")
			return
		}
		b.showOrderDetails(cb, id, false, true)

	case strings.HasPrefix(data, "admin_accept_"):
		b.changeOrderStatus(cb, strings.TrimPrefix(data, "admin_accept_"), domain.OrderStatusAccepted, "✅ Заявка принята")

	case strings.HasPrefix(data, "admin_reject_"):
		b.changeOrderStatus(cb, strings.TrimPrefix(data, "admin_reject_"), domain.OrderStatusRejected, "❌ Заявка отклонена")

	case strings.HasPrefix(data, "admin_complete_"):
		b.changeOrderStatus(cb, strings.TrimPrefix(data, "admin_complete_"), domain.OrderStatusCompleted, "✅ Заказ выполнен")

	case strings.HasPrefix(data, "admin_reopen_"):
		b.changeOrderStatus(cb, strings.TrimPrefix(data, "admin_reopen_"), domain.OrderStatusPending, "🔄 Заказ возвращен в работу")

	default:
		b.answerCallback(cb.ID, "")
	}
}

// loadOrders возвращает заявки и заголовок списка по фильтру панели.
func (b *Bot) loadOrders(filter string) ([]domain.Order, string, error) {
	if filter == "pending" {
		orders, err := b.orders.GetPending()
		return orders, "📋 Новые заявки", err
	}
	orders, err := b.orders.GetAllWithAuthors()
	return orders, "📝 Все заявки", err
}

// showOrdersPage отображает страницу списка заявок из состояния сессии.
func (b *Bot) showOrdersPage(cb *tgbotapi.CallbackQuery, deleteOld bool) {
	chatID := cb.Message.Chat.ID
	sess := b.sessions.Get(chatID)

	if deleteOld {
		b.deleteMessage(chatID, cb.Message.MessageID)
	}

	orders, title, err := b.loadOrders(sess.FilterStatus)
	if err != nil {
		b.answerCallback(cb.ID, "❌ Ошибка загрузки заявок")
		return
	}

	if len(orders) == 0 {
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("◀️ Назад", "admin_panel"),
			),
		)
		b.send(chatID, title+"\n\n❌ Заявки не найдены.", kb)
		b.answerCallback(cb.ID, "")
		return
	}

	totalPages := (len(orders) + ordersPerPage - 1) / ordersPerPage
	if sess.Page >= totalPages {
		sess.Page = totalPages - 1
	}

	startIdx := sess.Page * ordersPerPage
	endIdx := startIdx + ordersPerPage
	if endIdx > len(orders) {
		endIdx = len(orders)
	}
	pageOrders := orders[startIdx:endIdx]

	text := ordersPageText(title, pageOrders, startIdx)
	b.send(chatID, text, ordersPageKeyboard(pageOrders, sess.Page, totalPages, sess.FilterStatus))
	b.answerCallback(cb.ID, "")
}

// ordersPageKeyboard строит кнопки страницы: заявки, навигация, действия.
func ordersPageKeyboard(pageOrders []domain.Order, page, totalPages int, filter string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for _, o := range pageOrders {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("📋 Заказ #%d", o.ID),
				fmt.Sprintf("admin_order_%d", o.ID),
			),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("◀️ Пред.", fmt.Sprintf("admin_page_%d", page-1)))
	}
	nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d/%d", page+1, totalPages), "ignore"))
	if page < totalPages-1 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("След. ▶️", fmt.Sprintf("admin_page_%d", page+1)))
	}
	rows = append(rows, nav)

	exportFilter := filter
	if exportFilter == "" {
		exportFilter = "all"
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📤 Экспорт", "admin_export_"+exportFilter),
		tgbotapi.NewInlineKeyboardButtonData("🔄 Обновить", "admin_refresh"),
		tgbotapi.NewInlineKeyboardButtonData("◀️ Назад", "admin_panel"),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// exportOrders выгружает заявки в CSV-файл.
func (b *Bot) exportOrders(cb *tgbotapi.CallbackQuery, filter string) {
	chatID := cb.Message.Chat.ID

	if filter == "all" {
		filter = ""
	}

	orders, _, err := b.loadOrders(filter)
	if err != nil {
		b.answerCallback(cb.ID, "❌ Ошибка загрузки заявок")
		return
	}

	data, err := ordersCSV(orders)
	if err != nil {
		b.logger.WithError(err).Error("failed to build csv export")
		b.answerCallback(cb.ID, "❌ Ошибка экспорта")
		return
	}

	prefix := "all_orders_"
	caption := "Экспорт заказов (все)"
	if filter == "pending" {
		prefix = "pending_orders_"
		caption = "Экспорт заказов (ожидают ответа)"
	}
	filename := prefix + time.Now().Format("02-01-2006") + ".csv"

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	doc.Caption = caption
	if _, err := b.api.Send(doc); err != nil {
		b.logger.WithError(err).WithField("chat_id", chatID).Error("failed to send export")
		b.answerCallback(cb.ID, "❌ Ошибка экспорта")
		return
	}

	b.answerCallback(cb.ID, "📤 Файл экспортирован")
}

// showOrderDetails отображает карточку заявки с действиями по её статусу.
// answer=false, когда callback уже отвечен вызывающим обработчиком.
func (b *Bot) showOrderDetails(cb *tgbotapi.CallbackQuery, orderID int64, deleteOld, answer bool) {
	chatID := cb.Message.Chat.ID

	if deleteOld {
		b.deleteMessage(chatID, cb.Message.MessageID)
	}

	order, err := b.orders.GetOne(orderID)
	if err != nil {
		if answer {
			b.answerCallback(cb.ID, "Заявка не найдена")
		}
		return
	}

	var author *domain.User
	if u, err := b.users.GetOne(order.AuthorID); err == nil {
		author = &u
	}

	b.send(chatID, orderDetailsText(order, author), orderDetailsKeyboard(order.Status, order.ID))
	if answer {
		b.answerCallback(cb.ID, "")
	}
}

// orderDetailsKeyboard подбирает действия по текущему статусу заявки.
func orderDetailsKeyboard(status domain.OrderStatus, orderID int64) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	switch status {
	case domain.OrderStatusPending:
		rows = append(rows,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Принять", fmt.Sprintf("admin_accept_%d", orderID)),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", fmt.Sprintf("admin_reject_%d", orderID)),
			),
		)
	case domain.OrderStatusAccepted:
		rows = append(rows,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Выполнено", fmt.Sprintf("admin_complete_%d", orderID)),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", fmt.Sprintf("admin_reject_%d", orderID)),
			),
		)
	case domain.OrderStatusCompleted, domain.OrderStatusRejected:
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Вернуть в работу", fmt.Sprintf("admin_reopen_%d", orderID)),
		))
	}

	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ К списку", "admin_back_to_list"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(buttonMainMenu, "to_main"),
		),
	)

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// changeOrderStatus применяет переход и показывает обновлённую карточку.
// Уведомление клиента ставится в outbox внутри сервиса.
func (b *Bot) changeOrderStatus(cb *tgbotapi.CallbackQuery, rawID string, to domain.OrderStatus, successMsg string) {
	orderID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		b.answerCallback(cb.ID, "")
		return
	}

	changedBy := "admin:" + strconv.FormatInt(cb.From.ID, 10)
	if _, err := b.orders.UpdateStatus(orderID, to, changedBy); err != nil {
		b.answerCallback(cb.ID, "❌ Ошибка при обновлении статуса")
		return
	}

	b.answerCallback(cb.ID, successMsg)
	b.showOrderDetails(cb, orderID, true, false)
}
