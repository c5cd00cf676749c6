package app

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"hotel_finder/internal/domain"
)

const (
	askLocation    = "Напиши город для поиска отелей"
	askCheckIn     = "Напиши дату заезда в формате: дд.мм.гггг\nПример: 17.12.2030"
	askCheckOut    = "Напиши дату выезда в формате: дд.мм.гггг\nПример: 24.12.2030"
	askResultCount = "Какое количество отелей грузить?"
	askPriceRange  = "Какой диапазон цен в долларах?\nПример: 100-150"
	askMaxDistance = "Какое максимальное расстояние до центра в километрах?"
	askLoadPhotos  = "Грузить фотки? Да/Нет"

	stopText       = "Остановились..."
	startText      = "Приветствую! Выберите интересующую Вас команду."
	nothingFound   = "По вашему запросу ничего не найдено."
	searchFailed   = "Что-то пошло не так. Попробуйте начать поиск заново."
	unknownCommand = "Неизвестная команда. /help - поддерживаемые команды"
	noHistory      = "История поиска пуста."
	historyOff     = "История поиска недоступна."

	helpText = "Все доступные команды:\n" +
		"/start - запустить бота\n" +
		"/stop - остановить бота\n" +
		"/help - поддерживаемые команды\n" +
		"/lowprice - топ дешёвых отелей\n" +
		"/highprice - топ дорогих отелей\n" +
		"/bestdeal - топ отелей, наиболее подходящих по цене и расположению от центра\n" +
		"/history - история поиска"
)

// MaxImages caps image references attached to one result.
const MaxImages = 3

var loadingTexts = []string{
	"🤖 Спрашиваем у отельеров...",
	"🤖 Переворачиваем весь интернет...",
	"🤖 Переходим по ссылкам...",
	"🤖 Дёргаем за ниточки...",
}

var prompts = map[domain.DialogState]string{
	domain.StateLocation:    askLocation,
	domain.StateCheckIn:     askCheckIn,
	domain.StateCheckOut:    askCheckOut,
	domain.StateResultCount: askResultCount,
	domain.StatePriceRange:  askPriceRange,
	domain.StateMaxDistance: askMaxDistance,
	domain.StateLoadPhotos:  askLoadPhotos,
}

func prompt(s domain.DialogState) domain.Message {
	return domain.Message{Kind: domain.MessagePrompt, Text: prompts[s]}
}

func info(text string) domain.Message {
	return domain.Message{Kind: domain.MessageInfo, Text: text}
}

func failure(text string) domain.Message {
	return domain.Message{Kind: domain.MessageError, Text: text}
}

func loadingMessage() domain.Message {
	return info(loadingTexts[rand.IntN(len(loadingTexts))])
}

// FormatProperty renders one enriched property. Images are attached only
// when withPhotos is set.
func FormatProperty(p domain.Property, nights int, withPhotos bool) domain.Message {
	addr := p.Address
	if addr == "" {
		addr = "-"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📛 Название отеля: %s\n", p.Name)
	fmt.Fprintf(&b, "🏨 Адрес отеля: %s\n", addr)
	fmt.Fprintf(&b, "🚶 Расстояние до центра: %s\n", p.Distance)
	fmt.Fprintf(&b, "💰 Цена отеля за все дни: %s\n", p.TotalPrice(nights))
	fmt.Fprintf(&b, "🔗 %s", p.Link())

	m := domain.Message{Kind: domain.MessageResult, Text: b.String()}
	if withPhotos && len(p.Images) > 0 {
		n := min(len(p.Images), MaxImages)
		m.Images = append([]string(nil), p.Images[:n]...)
	}
	return m
}

func formatHistory(recs []domain.SearchRecord) domain.Message {
	if len(recs) == 0 {
		return info(noHistory)
	}
	var b strings.Builder
	for i, r := range recs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "🕑 %s /%s %s (%s - %s)",
			r.CreatedAt.Format("02.01.2006 15:04"), r.Command, r.City,
			r.CheckIn.Format(DateLayout), r.CheckOut.Format(DateLayout))
		for _, h := range r.Hotels {
			fmt.Fprintf(&b, "\n  • %s, %s", h.Name, h.Price)
		}
	}
	return info(b.String())
}
