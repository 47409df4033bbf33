// Пакет dict содержит словарь времени выполнения: таблицы атрибутов известных
// и неизвестных слов, матрицу стоимостей соединения, определения классов
// символов, пользовательский словарь и загрузчики ресурсов.
//
// Все структуры создаются один раз при загрузке (Load) и дальше только читаются,
// поэтому один Set можно разделять между любым количеством горутин.
package dict

import (
	"errors"
	"fmt"
)

// --- ИМЕНА РЕСУРСОВ ---

// Имена файлов скомпилированного словаря. Компилятор пишет, загрузчик читает
// ровно этот набор.
const (
	TokenInfoDictionaryFile   = "tokenInfoDictionary.bin"
	TokenInfoFeaturesFile     = "tokenInfoFeaturesMap.bin"
	TokenInfoPartOfSpeechFile = "tokenInfoPartOfSpeechMap.bin"
	TokenInfoTargetMapFile    = "tokenInfoTargetMap.bin"

	UnknownDictionaryFile   = "unknownDictionary.bin"
	UnknownFeaturesFile     = "unknownFeaturesMap.bin"
	UnknownPartOfSpeechFile = "unknownPartOfSpeechMap.bin"
	UnknownTargetMapFile    = "unknownTargetMap.bin"

	ConnectionCostsFile      = "connectionCosts.bin"
	FSTFile                  = "fst.bin"
	CharacterDefinitionsFile = "characterDefinitions.bin"
)

// TokenInfoFiles - четверка ресурсов одной таблицы слов.
type TokenInfoFiles struct {
	Dictionary, Features, PartOfSpeech, TargetMap string
}

var (
	// KnownFiles - ресурсы словаря известных слов.
	KnownFiles = TokenInfoFiles{TokenInfoDictionaryFile, TokenInfoFeaturesFile, TokenInfoPartOfSpeechFile, TokenInfoTargetMapFile}
	// UnknownFiles - ресурсы словаря неизвестных слов.
	UnknownFiles = TokenInfoFiles{UnknownDictionaryFile, UnknownFeaturesFile, UnknownPartOfSpeechFile, UnknownTargetMapFile}
)

// AllFiles возвращает полный набор имен ресурсов в порядке записи компилятором.
func AllFiles() []string {
	return []string{
		TokenInfoDictionaryFile, TokenInfoFeaturesFile, TokenInfoPartOfSpeechFile, TokenInfoTargetMapFile,
		ConnectionCostsFile, FSTFile, CharacterDefinitionsFile,
		UnknownDictionaryFile, UnknownFeaturesFile, UnknownPartOfSpeechFile, UnknownTargetMapFile,
	}
}

// ErrCorruptDictionary - ресурсы словаря не согласованы между собой
// (например, собраны разными запусками компилятора).
var ErrCorruptDictionary = errors.New("dict: поврежденный или несогласованный словарь")

// --- ИНТЕРФЕЙС СЛОВАРЯ ---

// Dictionary - общий интерфейс всех словарей, на которые ссылаются узлы решетки.
type Dictionary interface {
	// LeftID - левый класс соединения слова.
	LeftID(wordID int) int
	// RightID - правый класс соединения слова.
	RightID(wordID int) int
	// WordCost - стоимость слова.
	WordCost(wordID int) int
	// AllFeatures - все признаки, экранированные и объединенные через запятую.
	AllFeatures(wordID int) string
	// AllFeaturesArray - все признаки без экранирования.
	AllFeaturesArray(wordID int) []string
	// Feature - выбранные признаки. Без полей ведет себя как AllFeatures,
	// с одним полем возвращает значение без экранирования.
	Feature(wordID int, fields ...int) string
}

// --- ВАРИАНТЫ СЛОВАРЯ ---

// Variant описывает раскладку признаков конкретного словаря. Это обычное
// значение конфигурации: варианты отличаются только числами.
//
// TotalFeatures - признаков у каждой записи, первые PartOfSpeechFeatures из
// них - части речи, начиная с индекса PartOfSpeechFeature. Индексы
// необязательных признаков (базовая форма, чтение, произношение, тип и форма
// спряжения) равны -1, если в словаре такого признака нет. UserLeftID и
// UserRightID - классы соединения записей пользовательского словаря.
type Variant struct {
	Name string `yaml:"name"`

	TotalFeatures          int `yaml:"total_features"`
	PartOfSpeechFeatures   int `yaml:"part_of_speech_features"`
	PartOfSpeechFeature    int `yaml:"part_of_speech_feature"`
	BaseFormFeature        int `yaml:"base_form_feature"`
	ReadingFeature         int `yaml:"reading_feature"`
	PronunciationFeature   int `yaml:"pronunciation_feature"`
	ConjugationTypeFeature int `yaml:"conjugation_type_feature"`
	ConjugationFormFeature int `yaml:"conjugation_form_feature"`

	UserLeftID  int `yaml:"user_left_id"`
	UserRightID int `yaml:"user_right_id"`
}

// ErrInvalidVariant - индексы признаков или классы соединения варианта
// выходят за допустимые границы.
var ErrInvalidVariant = errors.New("dict: некорректный вариант словаря")

// Validate проверяет, что все индексы признаков попадают в [0, TotalFeatures),
// а классы пользовательских записей неотрицательны. Верхнюю границу классов
// проверяет Load по размеру матрицы.
func (v Variant) Validate() error {
	if v.TotalFeatures < 1 {
		return fmt.Errorf("%w: total_features = %d", ErrInvalidVariant, v.TotalFeatures)
	}
	if v.PartOfSpeechFeatures < 1 || v.PartOfSpeechFeatures > v.TotalFeatures {
		return fmt.Errorf("%w: part_of_speech_features = %d вне [1, %d]",
			ErrInvalidVariant, v.PartOfSpeechFeatures, v.TotalFeatures)
	}
	if v.PartOfSpeechFeature < 0 || v.PartOfSpeechFeature+v.PartOfSpeechFeatures > v.TotalFeatures {
		return fmt.Errorf("%w: части речи [%d, %d) не помещаются в %d признаков",
			ErrInvalidVariant, v.PartOfSpeechFeature, v.PartOfSpeechFeature+v.PartOfSpeechFeatures, v.TotalFeatures)
	}
	optional := []struct {
		name  string
		index int
	}{
		{"base_form_feature", v.BaseFormFeature},
		{"reading_feature", v.ReadingFeature},
		{"pronunciation_feature", v.PronunciationFeature},
		{"conjugation_type_feature", v.ConjugationTypeFeature},
		{"conjugation_form_feature", v.ConjugationFormFeature},
	}
	for _, f := range optional {
		if f.index < -1 || f.index >= v.TotalFeatures {
			return fmt.Errorf("%w: %s = %d вне [-1, %d)", ErrInvalidVariant, f.name, f.index, v.TotalFeatures)
		}
	}
	if v.UserLeftID < 0 || v.UserRightID < 0 {
		return fmt.Errorf("%w: отрицательный класс пользовательских записей (%d, %d)",
			ErrInvalidVariant, v.UserLeftID, v.UserRightID)
	}
	return nil
}

// validateUserIDs проверяет, что классы пользовательских записей есть в матрице.
func (v Variant) validateUserIDs(size int) error {
	if v.UserLeftID >= size || v.UserRightID >= size {
		return fmt.Errorf("%w: классы пользовательских записей (%d, %d) вне матрицы %dx%d",
			ErrInvalidVariant, v.UserLeftID, v.UserRightID, size, size)
	}
	return nil
}

var (
	// IPADIC: pos1,pos2,pos3,pos4,conjugationType,conjugationForm,baseForm,reading,pronunciation.
	IPADIC = Variant{
		Name:                   "ipadic",
		TotalFeatures:          9,
		PartOfSpeechFeatures:   6,
		PartOfSpeechFeature:    0,
		BaseFormFeature:        6,
		ReadingFeature:         7,
		PronunciationFeature:   8,
		ConjugationTypeFeature: 4,
		ConjugationFormFeature: 5,
		UserLeftID:             5,
		UserRightID:            5,
	}

	// JUMANDIC: pos1,pos2,pos3,pos4,baseForm,reading,semanticInformation.
	JUMANDIC = Variant{
		Name:                   "jumandic",
		TotalFeatures:          7,
		PartOfSpeechFeatures:   4,
		PartOfSpeechFeature:    0,
		BaseFormFeature:        4,
		ReadingFeature:         5,
		PronunciationFeature:   -1,
		ConjugationTypeFeature: -1,
		ConjugationFormFeature: -1,
		UserLeftID:             5,
		UserRightID:            5,
	}
)

// VariantByName возвращает встроенный вариант по имени.
func VariantByName(name string) (Variant, bool) {
	switch name {
	case IPADIC.Name:
		return IPADIC, true
	case JUMANDIC.Name:
		return JUMANDIC, true
	}
	return Variant{}, false
}
