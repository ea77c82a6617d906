package catalog

// Activity categories in display order.
const (
	CategorySolo = "Одиночные"
	CategoryPair = "Парные"
)

// Categories returns the category names in display order.
func Categories() []string {
	return []string{CategorySolo, CategoryPair}
}

// activities is the static activity table, grouped by category.
// The map values preserve display order within each category.
var activities = map[string][]Activity{
	CategorySolo: {
		{ID: "browser", Name: "Посетить любой сайт в браузере", BasePoints: 1, VIPPoints: 2},
		{ID: "brawl", Name: "Зайти в любой канал в Brawl", BasePoints: 1, VIPPoints: 2},
		{ID: "match_like", Name: "Поставить лайк любой анкете в Match", BasePoints: 1, VIPPoints: 2},
		{ID: "dp_case", Name: "Прокрутить за DP серебрянный или золотой кейс", BasePoints: 10, VIPPoints: 20},
		{ID: "pet_ball", Name: "Кинуть мяч питомцу 15 раз", BasePoints: 2, VIPPoints: 4},
		{ID: "pet_commands", Name: "15 выполненных питомцем команд", BasePoints: 2, VIPPoints: 4},
		{ID: "casino_wheel", Name: "Ставка в колесе удачи в казино", BasePoints: 3, VIPPoints: 6},
		{ID: "metro", Name: "Проехать 1 станцию на метро", BasePoints: 2, VIPPoints: 4},
		{ID: "fishing", Name: "Поймать 20 рыб", BasePoints: 4, VIPPoints: 8},
		{ID: "club_quests", Name: "Выполнить 2 квеста любых клубов", BasePoints: 4, VIPPoints: 8},
		{ID: "car_repair", Name: "Починить деталь в автосервисе", BasePoints: 1, VIPPoints: 2},
		{ID: "basketball", Name: "Забросить 2 мяча в баскетболе", BasePoints: 1, VIPPoints: 2},
		{ID: "football", Name: "Забить 2 гола в футболе", BasePoints: 1, VIPPoints: 2},
		{ID: "darts", Name: "Победить в дартс", BasePoints: 1, VIPPoints: 2},
		{ID: "online_3h", Name: "3 часа в онлайне (многократно)", BasePoints: 2, VIPPoints: 4},
		{ID: "casino_zeros", Name: "Нули в казино", BasePoints: 2, VIPPoints: 4},
		{ID: "construction", Name: "25 действий на стройке", BasePoints: 2, VIPPoints: 4},
		{ID: "port", Name: "25 действий в порту", BasePoints: 2, VIPPoints: 4},
		{ID: "mine", Name: "25 действий в шахте", BasePoints: 2, VIPPoints: 4},
		{ID: "gym", Name: "20 подходов в тренажерном зале", BasePoints: 1, VIPPoints: 2},
		{ID: "shooting_range", Name: "Успешная тренировка в тире", BasePoints: 1, VIPPoints: 2},
		{ID: "post_office", Name: "10 посылок на почте", BasePoints: 1, VIPPoints: 2},
		{ID: "film_studio", Name: "Арендовать киностудию", BasePoints: 2, VIPPoints: 4},
		{ID: "lottery", Name: "Купить лотерейный билет", BasePoints: 1, VIPPoints: 2},
		{ID: "farm", Name: "10 действий на ферме", BasePoints: 1, VIPPoints: 2},
		{ID: "firefighter", Name: "Потушить 25 \"огоньков\" пожарным", BasePoints: 1, VIPPoints: 2},
		{ID: "treasure", Name: "Выкопать 1 сокровище(не мусор)", BasePoints: 1, VIPPoints: 2},
		{ID: "trucker", Name: "Выполнить 15 заказов дальнобойщиком в порт", BasePoints: 2, VIPPoints: 4},
		{ID: "surgeon", Name: "Два раза оплатить смену внешности у хирурга в EMS", BasePoints: 2, VIPPoints: 4},
		{ID: "cinema", Name: "Добавить 5 видео в кинотеатре", BasePoints: 1, VIPPoints: 2},
		{ID: "bus", Name: "2 круга на любом маршруте автобусника", BasePoints: 2, VIPPoints: 4},
		{ID: "hunting", Name: "5 раз снять 100% шкуру с животных", BasePoints: 2, VIPPoints: 4},
	},
	CategoryPair: {
		{ID: "table_tennis", Name: "Поиграть 1 минуту в настольный теннис", BasePoints: 1, VIPPoints: 2},
		{ID: "tennis", Name: "Поиграть 1 минуту в большой теннис", BasePoints: 1, VIPPoints: 2},
		{ID: "mafia", Name: "Сыграть в мафию в казино", BasePoints: 3, VIPPoints: 6},
		{ID: "dance_battle", Name: "3 победы в Дэнс Баттлах", BasePoints: 2, VIPPoints: 4},
		{ID: "karting_pair", Name: "Выиграть гонку в картинге", BasePoints: 1, VIPPoints: 2},
		{ID: "street_race", Name: "Проехать 1 уличную гонку составкой (от $1000)", BasePoints: 1, VIPPoints: 2},
		{ID: "training_complex", Name: "Выиграть 5 игр в тренировочном комплексе со ставкой (от 100$)", BasePoints: 1, VIPPoints: 2},
		{ID: "arena", Name: "Выиграть 3 любых игры на арене со ставкой (от $100)", BasePoints: 1, VIPPoints: 2},
	},
}
