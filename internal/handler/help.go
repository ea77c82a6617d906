package handler

import (
	tele "gopkg.in/telebot.v3"
)

// helpText keeps the command listing in one place; registration lives in
// the bot package.
const helpText = `📖 Команды:

/dashboard — показать или обновить ваш дашборд
/dashboard new — пересоздать дашборд в этом чате
/activities [запрос] — список активностей или поиск по ним
/complete <id> — отметить активность выполненной
/uncomplete <id> — снять отметку с активности
/balance — текущий баланс и VIP статус
/total — итоги за сегодня
/setbalance <число> — установить баланс
/setvip on|off — переключить VIP статус
/eventstatus — статус события x2 BP
/help — эта справка

Для админов:
/toggleevent — включить или выключить событие x2 BP`

// HandleHelp handles the /help command. The reply is reference material,
// so it is not scheduled for deletion like the transient acks.
func HandleHelp(c tele.Context) error {
	return c.Reply(helpText)
}
