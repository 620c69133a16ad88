package bot

// User-facing texts. The bot speaks Ukrainian; identifiers describe intent.
const (
	textWelcome = "👋 Вітаємо! Я допоможу вам дізнатися актуальний курс валют\n" +
		"Оберіть потрібний розділ меню нижче:"

	textHelp = "📖 **Як користуватися ботом:**\n" +
		"1. Оберіть валюту в розділі «Курс валют»\n" +
		"2. Бот покаже курс купівлі та продажу\n" +
		"3. Натисніть «Розрахувати», щоб конвертувати суму в грн\n\n" +
		"⚠️ **Важливо:** Курси динамічні та можуть змінюватися протягом дня(навіть пару разів на день)\n" +
		"Оновлення відбувається щогодини\n" +
		"Бот лише відображає офіційні дані, він не встановлює курси та не впливає на їх зміну\n" +
		"ℹ️ Якщо курс змінився — це рішення банку/обмінника, а бот просто показує актуальну інформацію"

	textContacts = "📞 **Наші контакти:**\n\n" +
		"Київстар: `+380 96 782 4474`\n" +
		"Vodafone: `+380 95 454 0922`\n" +
		" Написати в телеграм: +380 95 454 0922"

	textSupport = "🛠 З технічних питань напишіть у телеграм: +380 95 454 0922"

	textChooseCurrency = "Оберіть валюту для перегляду курсу:"
	textRateNotSet     = "❌ Курс ще не встановлено"
	textChooseOp       = "Оберіть тип операції:"
	textCancelled      = "🏠 Скасовано. Оберіть валюту в меню"

	textAmountTooLong = "⚠️ Число занадто велике"
	textAmountNotPos  = "⚠️ Введіть число більше нуля"
	textAmountNotNum  = "🔢 Будь ласка, введіть число"

	textLoginUsage   = "⚠️ `/login пароль`"
	textLoginDenied  = "⛔ Відмова"
	textLoginOK      = "🔓 Адмін-доступ активовано на 10 хв"
	textLogoutOK     = "🔒 Вихід виконано"
	textNeedLogin    = "⛔ Спочатку /login"
	textSessionOver  = "❌ Сесія завершена"
	textAdminPanel   = "⚙️ **Адмін-панель:**"
	textSetRateUsage = "⚠️ Формат: `/setrate USD 41.2 41.8`"
	textSetRateHint  = "Команда: `/setrate ВАЛЮТА КУПІВЛЯ ПРОДАЖ`"

	textGetRateUsage = "Використання: `/getrate USD`"
	textGetRateError = "⚠️ Помилка при отриманні курсу"

	textThrottled = "⏳ Занадто часто! Почекайте секунду."
	textApology   = "⚠️ Вибачте, сталася внутрішня помилка. " +
		"Спробуйте пізніше або зверніться до підтримки"
)

// Main menu labels. These double as router keys for plain-text presses.
const (
	menuRates    = "💱 Курс валют"
	menuHelp     = "ℹ️ Допомога"
	menuContacts = "📞 Контакти"
	menuSupport  = "Тех. підтримка"
	menuMenu     = "Меню"
)
