package dict

import (
	"fmt"
	"strings"

	"github.com/steosofficial/steostokenizer/buffer"
)

// TokenInfoDictionary - словарь известных слов поверх четырех блоков:
// таблицы атрибутов, таблицы признаков, таблицы частей речи и таблицы омографов.
type TokenInfoDictionary struct {
	tokenInfo    *buffer.TokenInfoBuffer
	features     *buffer.StringValueMapBuffer
	partOfSpeech *buffer.StringValueMapBuffer
	targets      *buffer.WordIDMap
}

// NewTokenInfoDictionary собирает словарь из уже прочитанных блоков.
func NewTokenInfoDictionary(tokenInfo, features, partOfSpeech, targets []byte) (*TokenInfoDictionary, error) {
	d := &TokenInfoDictionary{}
	var err error
	if d.tokenInfo, err = buffer.NewTokenInfoBuffer(tokenInfo); err != nil {
		return nil, fmt.Errorf("таблица атрибутов: %w", err)
	}
	if d.features, err = buffer.NewStringValueMapBuffer(features); err != nil {
		return nil, fmt.Errorf("таблица признаков: %w", err)
	}
	if d.partOfSpeech, err = buffer.NewStringValueMapBuffer(partOfSpeech); err != nil {
		return nil, fmt.Errorf("таблица частей речи: %w", err)
	}
	if d.targets, err = buffer.NewWordIDMap(targets); err != nil {
		return nil, fmt.Errorf("таблица омографов: %w", err)
	}
	return d, nil
}

// LookupWordIDs возвращает word id источника (ранга в трансдьюсере) в порядке компиляции.
func (d *TokenInfoDictionary) LookupWordIDs(sourceID int) []int {
	return d.targets.LookUp(sourceID)
}

// EachWordID перечисляет word id источника без выделения памяти.
func (d *TokenInfoDictionary) EachWordID(sourceID int, fn func(wordID int)) {
	d.targets.Each(sourceID, fn)
}

// SourceCount - количество источников в таблице омографов.
func (d *TokenInfoDictionary) SourceCount() int { return d.targets.Len() }

// EntryCount - количество слов.
func (d *TokenInfoDictionary) EntryCount() int { return d.tokenInfo.EntryCount() }

// TotalFeatures - количество признаков в каждой записи.
func (d *TokenInfoDictionary) TotalFeatures() int { return d.tokenInfo.TotalFeatures() }

// Layout - раскладка частей речи, выбранная компилятором.
func (d *TokenInfoDictionary) Layout() buffer.Layout { return d.tokenInfo.Layout() }

func (d *TokenInfoDictionary) LeftID(wordID int) int {
	return d.tokenInfo.LookupTokenInfo(wordID, buffer.LeftID)
}

func (d *TokenInfoDictionary) RightID(wordID int) int {
	return d.tokenInfo.LookupTokenInfo(wordID, buffer.RightID)
}

func (d *TokenInfoDictionary) WordCost(wordID int) int {
	return d.tokenInfo.LookupTokenInfo(wordID, buffer.WordCost)
}

// AllFeaturesArray полностью декодирует запись.
func (d *TokenInfoDictionary) AllFeaturesArray(wordID int) []string {
	entry := d.tokenInfo.LookupEntry(wordID)
	pos := entry.PartOfSpeechIDs()

	result := make([]string, 0, len(pos)+len(entry.FeatureInfos))
	for _, id := range pos {
		result = append(result, d.partOfSpeech.Get(id))
	}
	for _, id := range entry.FeatureInfos {
		result = append(result, d.features.Get(int(id)))
	}
	return result
}

func (d *TokenInfoDictionary) AllFeatures(wordID int) string {
	return JoinFeatures(d.AllFeaturesArray(wordID))
}

// Feature выбирает самый дешевый путь: одно поле читается напрямую по смещению,
// несколько полей - одним полным декодированием записи.
func (d *TokenInfoDictionary) Feature(wordID int, fields ...int) string {
	switch len(fields) {
	case 0:
		return d.AllFeatures(wordID)
	case 1:
		return d.singleFeature(wordID, fields[0])
	}
	all := d.AllFeaturesArray(wordID)
	return selectFeatures(all, fields)
}

func (d *TokenInfoDictionary) singleFeature(wordID, field int) string {
	if d.tokenInfo.IsPartOfSpeechFeature(field) {
		return d.partOfSpeech.Get(d.tokenInfo.LookupPartOfSpeechFeature(wordID, field))
	}
	return d.features.Get(d.tokenInfo.LookupFeature(wordID, field))
}

// selectFeatures - общий для всех словарей путь "несколько полей".
func selectFeatures(all []string, fields []int) string {
	var sb strings.Builder
	for i, f := range fields {
		if f < 0 || f >= len(all) {
			panic(fmt.Sprintf("dict: признак %d вне диапазона [0, %d)", f, len(all)))
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(Escape(all[f]))
	}
	return sb.String()
}

// featureAt - общий для словарей без таблиц путь "одно поле".
func featureAt(all []string, field int) string {
	if field < 0 || field >= len(all) {
		panic(fmt.Sprintf("dict: признак %d вне диапазона [0, %d)", field, len(all)))
	}
	return all[field]
}

// connectionBounds возвращает наименьший и наибольший ID классов соединения среди всех слов.
func (d *TokenInfoDictionary) connectionBounds() (lo, hi int) {
	lo, hi = 0, -1
	for id := 0; id < d.EntryCount(); id++ {
		for _, c := range [2]int{d.LeftID(id), d.RightID(id)} {
			lo, hi = min(lo, c), max(hi, c)
		}
	}
	return lo, hi
}

// validateTargets проверяет, что таблица омографов ссылается только на существующие слова.
func (d *TokenInfoDictionary) validateTargets() error {
	for src := 0; src < d.targets.Len(); src++ {
		bad, found := 0, false
		d.targets.Each(src, func(wordID int) {
			if !found && (wordID < 0 || wordID >= d.EntryCount()) {
				bad, found = wordID, true
			}
		})
		if found {
			return fmt.Errorf("%w: источник %d ссылается на слово %d при %d словах", ErrCorruptDictionary, src, bad, d.EntryCount())
		}
	}
	return nil
}
