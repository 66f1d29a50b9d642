package bot

import "github.com/vladislavdragonenkov/cleanbot/internal/domain"

func (b *Bot) showMainMenu(chatID int64, user domain.User, telegramID int64) {
	b.sessions.Reset(chatID)
	b.send(chatID, welcomeText, mainKeyboard(b.isAdmin(telegramID, user)))

	// Просим контакт один раз, пока клиент не поделился номером.
	if user.PhoneNumber == "" {
		b.send(chatID, "📱 Поделитесь номером телефона, чтобы мы могли связаться с вами:", requestPhoneKeyboard())
	}
}

func (b *Bot) sendHelp(chatID int64, user domain.User, telegramID int64) {
	b.send(chatID, helpText, mainKeyboard(b.isAdmin(telegramID, user)))
}
