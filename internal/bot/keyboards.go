package bot

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Тексты reply-кнопок главного меню.
const (
	buttonNewOrder   = "🛒 Оформить заказ"
	buttonHelp       = "ℹ️ Помощь"
	buttonAdminPanel = "🔐 Панель администратора"
	buttonMainMenu   = "🏠 Главное меню"
)

// mainKeyboard — главное меню. Администраторам добавляется кнопка панели.
func mainKeyboard(isAdmin bool) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonNewOrder),
			tgbotapi.NewKeyboardButton(buttonHelp),
		),
	}
	if isAdmin {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonAdminPanel),
		))
	}
	return tgbotapi.NewReplyKeyboard(rows...)
}

func toMainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(buttonMainMenu)),
	)
}

func toMainOrOrderKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(buttonMainMenu)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(buttonNewOrder)),
	)
}

func requestPhoneKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonContact("📱 Поделиться номером")),
	)
	kb.OneTimeKeyboard = true
	return kb
}

// calendarKeyboard строит календарь текущего месяца.
// Прошедшие дни неактивны, доступные ведут на выбор времени.
func calendarKeyboard(now time.Time) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📅 "+now.Format("January 2006"), "ignore"),
	))

	weekdays := []string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}
	var header []tgbotapi.InlineKeyboardButton
	for _, day := range weekdays {
		header = append(header, tgbotapi.NewInlineKeyboardButtonData(day, "ignore"))
	}
	rows = append(rows, header)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	firstDay := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	daysInMonth := firstDay.AddDate(0, 1, -1).Day()

	// ISO-неделя начинается с понедельника.
	offset := (int(firstDay.Weekday()) + 6) % 7

	var week []tgbotapi.InlineKeyboardButton
	for i := 0; i < offset; i++ {
		week = append(week, tgbotapi.NewInlineKeyboardButtonData(" ", "ignore"))
	}

	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, now.Location())
		if date.Before(today) {
			week = append(week, tgbotapi.NewInlineKeyboardButtonData("❌", "ignore"))
		} else {
			week = append(week, tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%d", day),
				"date_"+date.Format("2006-01-02"),
			))
		}
		if len(week) == 7 {
			rows = append(rows, week)
			week = nil
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, tgbotapi.NewInlineKeyboardButtonData(" ", "ignore"))
		}
		rows = append(rows, week)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ Назад", "back_to_address"),
		tgbotapi.NewInlineKeyboardButtonData("❌ Отменить", "cancel_order"),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// timeSlots — рабочие часы, ежедневно с 08:00 до 22:00.
func timeSlots() []string {
	slots := make([]string, 0, 15)
	for hour := 8; hour <= 22; hour++ {
		slots = append(slots, fmt.Sprintf("%02d:00", hour))
	}
	return slots
}

// timeKeyboard — выбор времени, по 3 кнопки в ряд.
func timeKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, slot := range timeSlots() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(slot, "time_"+slot))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ Назад", "back_to_date"),
		tgbotapi.NewInlineKeyboardButtonData("❌ Отменить", "cancel_order"),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func confirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Подтвердить заказ", "confirm_order"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Изменить время", "back_to_time"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Отменить", "cancel_order"),
		),
	)
}

func orderCreatedKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(buttonMainMenu, "to_main"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Отменить заказ", "cancel_this_order"),
		),
	)
}

func adminPanelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Новые заявки", "admin_new_orders"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Все заявки", "admin_all_orders"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(buttonMainMenu, "to_main"),
		),
	)
}
