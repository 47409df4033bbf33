// tagset.go определяет структуру результата разбора и классы частей речи.
// Его задача - превратить строку признаков словаря в структурированный
// объект `Parsed`, удобный как в Go, так и после сериализации в JSON.
package tokenizer

// PosSet - множество значений части речи.
type PosSet map[string]struct{}

// Category - грубый класс слова.
type Category string

const (
	Content  Category = "content"  // Знаменательные слова.
	Function Category = "function" // Служебные слова и аффиксы.
	Symbol   Category = "symbol"   // Знаки и пробелы.
	Other    Category = "other"    // Все остальное, в том числе пользовательские части речи.
)

// Parsed - полный разбор одного токена.
type Parsed struct {
	Surface         string   `json:"surface"`          // Поверхность
	Position        int      `json:"position"`         // Позиция в символах
	Offset          int      `json:"offset"`           // Смещение в байтах
	Type            string   `json:"type"`             // KNOWN, UNKNOWN, USER, INSERTED
	PartOfSpeech    []string `json:"part_of_speech"`   // Уровни части речи
	Category        Category `json:"category"`         // Класс слова
	ConjugationType string   `json:"conjugation_type"` // Тип спряжения
	ConjugationForm string   `json:"conjugation_form"` // Форма спряжения
	BaseForm        string   `json:"base_form"`        // Начальная форма
	Reading         string   `json:"reading"`          // Чтение
	Pronunciation   string   `json:"pronunciation"`    // Произношение
	Features        []string `json:"features"`         // Все признаки словаря
}

// Множества частей речи IPADIC и JUMANDIC для каждого класса.
var (
	contentTags = PosSet{
		"名詞":   {},
		"動詞":   {},
		"形容詞":  {},
		"形容動詞": {},
		"副詞":   {},
		"連体詞":  {},
		"感動詞":  {},
		"指示詞":  {}, // JUMANDIC
	}

	functionTags = PosSet{
		"助詞":   {},
		"助動詞":  {},
		"接続詞":  {},
		"接頭詞":  {}, // IPADIC
		"接頭辞":  {}, // JUMANDIC
		"接尾辞":  {}, // JUMANDIC
		"判定詞":  {}, // JUMANDIC
		"フィラー": {},
	}

	symbolTags = PosSet{
		"記号": {},
		"特殊": {}, // JUMANDIC
	}
)

// categoryOf определяет класс по верхнему уровню части речи.
func categoryOf(pos string) Category {
	if _, ok := contentTags[pos]; ok {
		return Content
	}
	if _, ok := functionTags[pos]; ok {
		return Function
	}
	if _, ok := symbolTags[pos]; ok {
		return Symbol
	}
	return Other
}
