package tokenizer

import (
	"github.com/steosofficial/steostokenizer/dict"
	"github.com/steosofficial/steostokenizer/viterbi"
)

// posLevels - глубина иерархии части речи (pos1..pos4) в обоих вариантах.
const posLevels = 4

// Token - одно слово результата разбора. Признаки читаются из словаря
// по требованию, сам токен хранит только позицию и word id.
type Token struct {
	WordID   int
	Surface  string
	Position int // Позиция в символах (rune) от начала текста.
	Offset   int // Смещение в байтах от начала текста.
	Type     viterbi.NodeType

	dict    dict.Dictionary
	variant Variant
}

// AllFeatures - все признаки через запятую, значения экранированы.
func (t Token) AllFeatures() string { return t.dict.AllFeatures(t.WordID) }

// AllFeaturesArray - все признаки без экранирования.
func (t Token) AllFeaturesArray() []string { return t.dict.AllFeaturesArray(t.WordID) }

// Feature - выбранные признаки (см. dict.Dictionary.Feature).
func (t Token) Feature(fields ...int) string { return t.dict.Feature(t.WordID, fields...) }

// feature возвращает признак по индексу варианта; отрицательный индекс - признака нет.
func (t Token) feature(field int) string {
	if field < 0 {
		return ""
	}
	return t.dict.Feature(t.WordID, field)
}

// PartOfSpeech - верхний уровень части речи (名詞, 動詞...).
func (t Token) PartOfSpeech() string { return t.feature(t.variant.PartOfSpeechFeature) }

// PartOfSpeechLevels - уровни части речи без пустых значений "*".
func (t Token) PartOfSpeechLevels() []string {
	n := min(posLevels, t.variant.PartOfSpeechFeatures)
	all := t.AllFeaturesArray()
	levels := make([]string, 0, n)
	for i := t.variant.PartOfSpeechFeature; i < t.variant.PartOfSpeechFeature+n && i < len(all); i++ {
		if all[i] == "" || all[i] == "*" {
			break
		}
		levels = append(levels, all[i])
	}
	return levels
}

// BaseForm - начальная форма.
func (t Token) BaseForm() string { return t.feature(t.variant.BaseFormFeature) }

// Reading - чтение катаканой.
func (t Token) Reading() string { return t.feature(t.variant.ReadingFeature) }

// Pronunciation - произношение; у вариантов без этого признака пустая строка.
func (t Token) Pronunciation() string { return t.feature(t.variant.PronunciationFeature) }

// ConjugationType - тип спряжения (一段, 五段・カ行促音便...).
func (t Token) ConjugationType() string { return t.feature(t.variant.ConjugationTypeFeature) }

// ConjugationForm - форма спряжения (連用形, 基本形...).
func (t Token) ConjugationForm() string { return t.feature(t.variant.ConjugationFormFeature) }

func (t Token) IsKnown() bool   { return t.Type == viterbi.Known }
func (t Token) IsUser() bool    { return t.Type == viterbi.User }
func (t Token) IsUnknown() bool { return t.Type == viterbi.Unknown }

// Category - класс слова по части речи (см. tagset.go).
func (t Token) Category() Category { return categoryOf(t.PartOfSpeech()) }

// Parsed собирает признаки токена в структуру для JSON.
func (t Token) Parsed() *Parsed {
	features := t.AllFeaturesArray()
	return &Parsed{
		Surface:         t.Surface,
		Position:        t.Position,
		Offset:          t.Offset,
		Type:            t.Type.String(),
		PartOfSpeech:    t.PartOfSpeechLevels(),
		Category:        t.Category(),
		ConjugationType: normalizeEmpty(t.ConjugationType()),
		ConjugationForm: normalizeEmpty(t.ConjugationForm()),
		BaseForm:        normalizeEmpty(t.BaseForm()),
		Reading:         normalizeEmpty(t.Reading()),
		Pronunciation:   normalizeEmpty(t.Pronunciation()),
		Features:        features,
	}
}

// normalizeEmpty заменяет словарный прочерк "*" пустой строкой.
func normalizeEmpty(s string) string {
	if s == "*" {
		return ""
	}
	return s
}
