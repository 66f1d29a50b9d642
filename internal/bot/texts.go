package bot

import (
	"fmt"
	"strings"

	"github.com/vladislavdragonenkov/cleanbot/internal/domain"
)

const (
	welcomeText = "👋 <b>Добро пожаловать в нашего бота!</b>\n\n" +
		"🧹 Мы предоставляем качественные услуги уборки.\n" +
		"Оставьте заявку, и мы свяжемся с вами в ближайшее время!\n\n" +
		"Нажмите кнопку ниже, чтобы оформить заказ:"

	helpText = "ℹ️ <b>Помощь</b>\n\n" +
		"📝 <b>Как оформить заказ:</b>\n" +
		"1. Нажмите 'Оформить заказ'\n" +
		"2. Введите адрес уборки\n" +
		"3. Выберите удобную дату\n" +
		"4. Выберите время\n" +
		"5. Подтвердите заказ\n\n" +
		"💡 <b>Полезная информация:</b>\n" +
		"• Мы работаем ежедневно с 8:00 до 22:00\n" +
		"• Заказ можно отменить до начала работ\n" +
		"• Оплата производится после выполнения услуг"

	addressStepText = "📍 <b>Шаг 1 из 3: Адрес</b>\n\n" +
		"Пожалуйста, введите адрес, где необходимо выполнить уборку:\n\n" +
		"Например: <i>г. Москва, ул. Ленина, д. 10, кв. 25</i>"

	addressTooShortText = "❌ Пожалуйста, введите полный адрес (минимум 10 символов).\n" +
		"Например: г. Москва, ул. Ленина, д. 10, кв. 25"

	orderCanceledText = "❌ <b>Заказ отменен</b>\n\n" +
		"Вы можете оформить новый заказ в любое время.\n" +
		"Нажмите кнопку ниже, чтобы вернуться в главное меню:"
)

// statusEmoji возвращает эмодзи статуса для списков и карточек.
func statusEmoji(status domain.OrderStatus) string {
	switch status {
	case domain.OrderStatusPending:
		return "⏳"
	case domain.OrderStatusAccepted:
		return "✅"
	case domain.OrderStatusCompleted:
		return "🎉"
	case domain.OrderStatusRejected:
		return "❌"
	case domain.OrderStatusCanceled:
		return "🚫"
	default:
		return "❓"
	}
}

// statusText возвращает русское название статуса.
func statusText(status domain.OrderStatus) string {
	switch status {
	case domain.OrderStatusPending:
		return "В ожидании"
	case domain.OrderStatusAccepted:
		return "Принят"
	case domain.OrderStatusCompleted:
		return "Выполнен"
	case domain.OrderStatusRejected:
		return "Отклонён"
	case domain.OrderStatusCanceled:
		return "Отменён"
	default:
		return "Неизвестно"
	}
}

func dateStepText(address string) string {
	return fmt.Sprintf(
		"📅 <b>Шаг 2 из 3: Дата</b>\n\nАдрес: <i>%s</i>\n\nВыберите удобную дату для уборки:",
		address,
	)
}

func timeStepText(address, dateFormatted string) string {
	return fmt.Sprintf(
		"🕐 <b>Шаг 3 из 3: Время</b>\n\nАдрес: <i>%s</i>\nДата: <i>%s</i>\n\nВыберите удобное время для уборки:",
		address, dateFormatted,
	)
}

func confirmationText(address, dateFormatted, timeSlot string) string {
	return fmt.Sprintf(
		"✅ <b>Подтверждение заказа</b>\n\n"+
			"📍 <b>Адрес:</b> %s\n"+
			"📅 <b>Дата:</b> %s\n"+
			"🕐 <b>Время:</b> %s\n\n"+
			"Подтвердите заказ или вернитесь для изменения данных:",
		address, dateFormatted, timeSlot,
	)
}

func orderCreatedText(address, dateFormatted, timeSlot string) string {
	return fmt.Sprintf(
		"🎉 <b>Спасибо! Ваш заказ принят.</b>\n\n"+
			"📍 <b>Адрес:</b> %s\n"+
			"📅 <b>Дата:</b> %s\n"+
			"🕐 <b>Время:</b> %s\n\n"+
			"✅ Мы свяжемся с вами в ближайшее время для уточнения деталей.",
		address, dateFormatted, timeSlot,
	)
}

// authorLine форматирует информацию о клиенте для списков заявок.
func authorLine(o domain.Order) string {
	info := "ID: " + o.AuthorID
	if o.Author != nil {
		if o.Author.Username != "" {
			info += " (@" + o.Author.Username + ")"
		}
		if o.Author.PhoneNumber != "" {
			info += "\n📱 " + o.Author.PhoneNumber
		}
	}
	return info
}

// ordersPageText форматирует одну страницу списка заявок.
func ordersPageText(title string, orders []domain.Order, startIdx int) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")

	for i, o := range orders {
		address := o.Address
		if len([]rune(address)) > 50 {
			address = string([]rune(address)[:50]) + "..."
		}

		fmt.Fprintf(&b, "<b>%d. Заказ #%d</b> %s\n", startIdx+i+1, o.ID, statusEmoji(o.Status))
		fmt.Fprintf(&b, "👤 %s\n", authorLine(o))
		fmt.Fprintf(&b, "📍 %s\n", address)
		fmt.Fprintf(&b, "📅 %s\n", o.ScheduledAt.Format("02.01.2006 15:04"))
		fmt.Fprintf(&b, "📊 Статус: %s\n\n", statusText(o.Status))
	}

	return b.String()
}

// orderDetailsText форматирует карточку заявки.
func orderDetailsText(o domain.Order, author *domain.User) string {
	authorInfo := "ID: " + o.AuthorID
	if author != nil {
		if author.Username != "" {
			authorInfo += " (@" + author.Username + ")"
		}
		phone := author.PhoneNumber
		if phone == "" {
			phone = "Не указан"
		}
		authorInfo += "\n📱 " + phone
	}

	return fmt.Sprintf(
		"📋 <b>Заказ #%d</b> %s\n\n"+
			"👤 <b>Клиент:</b>\n%s\n\n"+
			"📍 <b>Адрес:</b>\n%s\n\n"+
			"📅 <b>Дата и время:</b> %s\n"+
			"📊 <b>Статус:</b> %s\n"+
			"🕐 <b>Создан:</b> %s\n\n"+
			"Выберите действие:",
		o.ID, statusEmoji(o.Status),
		authorInfo,
		o.Address,
		o.ScheduledAt.Format("02.01.2006 15:04"),
		statusText(o.Status),
		o.CreatedAt.Format("02.01.2006 15:04"),
	)
}

// notificationText строит текст уведомления клиента по тегу перехода.
// Пустая строка означает, что для тега текст не предусмотрен.
func notificationText(p domain.NotificationPayload) string {
	header := ""
	footer := ""

	switch p.Tag {
	case domain.NotificationAccepted:
		header = "✅ <b>Ваш заказ принят!</b>"
		footer = "Мы свяжемся с вами для уточнения деталей."
	case domain.NotificationCompleted:
		header = "🎉 <b>Ваш заказ выполнен!</b>"
		footer = "Спасибо за использование наших услуг!"
	case domain.NotificationRejected:
		header = "❌ <b>Ваш заказ отклонен</b>"
		footer = "К сожалению, мы не можем выполнить ваш заказ.\n" +
			"Вы можете оформить новый заказ с другими параметрами."
	case domain.NotificationReopen:
		header = "🔄 <b>Ваш заказ возвращен в работу</b>"
		footer = "Мы свяжемся с вами для уточнения деталей."
	default:
		return ""
	}

	return fmt.Sprintf(
		"%s\n\n📋 <b>Заказ #%d</b>\n📍 <b>Адрес:</b> %s\n📅 <b>Дата и время:</b> %s\n\n%s",
		header, p.OrderID, p.Address, p.ScheduledAt.Format("02.01.2006 15:04"), footer,
	)
}
