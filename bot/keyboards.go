package bot

import (
	tele "gopkg.in/telebot.v4"

	"kursbot/core/telegram/keyboard"
)

// Callback uniques used by inline keyboards.
const (
	cbCurrency    = "currency"
	cbCalcConfirm = "calc_confirm"
	cbCalcCancel  = "calc_cancel"
	cbOperation   = "op"
	cbAdminStats  = "admin_stats"
	cbAdminEdit   = "admin_edit"
)

func mainMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{menuRates, menuHelp},
		[]string{menuContacts, menuSupport},
	)
}

func currencyButtons() *tele.ReplyMarkup {
	return keyboard.InlineRows(
		[]keyboard.InlineBtn{
			{Text: "💵USD новий", Unique: cbCurrency, Data: "USD"},
			{Text: "🇺🇸USD старий", Unique: cbCurrency, Data: "USD White"},
		},
		[]keyboard.InlineBtn{
			{Text: "🇪🇺EUR", Unique: cbCurrency, Data: "EUR"},
			{Text: "🇵🇱PLN", Unique: cbCurrency, Data: "PLN"},
		},
		[]keyboard.InlineBtn{
			{Text: "🇬🇧GBP", Unique: cbCurrency, Data: "GBP"},
			{Text: "🇨🇦CAD", Unique: cbCurrency, Data: "CAD"},
		},
		[]keyboard.InlineBtn{
			{Text: "🇨🇿CZK", Unique: cbCurrency, Data: "CZK"},
			{Text: "🇸🇪SEK", Unique: cbCurrency, Data: "SEK"},
		},
		[]keyboard.InlineBtn{
			{Text: "🇨🇭CHF", Unique: cbCurrency, Data: "CHF"},
		},
	)
}

func calculationChoiceButtons() *tele.ReplyMarkup {
	return keyboard.InlineRows([]keyboard.InlineBtn{
		{Text: "🧮 Розрахувати суму", Unique: cbCalcConfirm},
		{Text: "❌ Відміна", Unique: cbCalcCancel},
	})
}

func operationTypeButtons() *tele.ReplyMarkup {
	return keyboard.InlineRows(
		[]keyboard.InlineBtn{
			{Text: "Купляємо валюту(ми беремо)", Unique: cbOperation, Data: "buy"},
			{Text: "Продаємо валюту(ми видаємо)", Unique: cbOperation, Data: "sell"},
		},
		[]keyboard.InlineBtn{
			{Text: "⬅️ Назад", Unique: cbCalcCancel},
		},
	)
}

func adminPanelButtons() *tele.ReplyMarkup {
	return keyboard.InlineRows(
		[]keyboard.InlineBtn{{Text: "📊 Статистика", Unique: cbAdminStats}},
		[]keyboard.InlineBtn{{Text: "✏️ Змінити курс", Unique: cbAdminEdit}},
	)
}
