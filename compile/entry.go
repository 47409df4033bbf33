package compile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/steosofficial/steostokenizer/dict"
)

// --- ЗАПИСИ ИСХОДНОГО СЛОВАРЯ ---

// DictionaryEntry - одна запись словаря в общем для вариантов виде:
// поверхность, классы соединения, стоимость и признаки, из которых первые
// Variant.PartOfSpeechFeatures - части речи.
type DictionaryEntry struct {
	Surface  string
	LeftID   int
	RightID  int
	WordCost int
	Features []string
}

// PartOfSpeech возвращает признаки частей речи записи.
func (e DictionaryEntry) PartOfSpeech(v dict.Variant) []string {
	return e.Features[:v.PartOfSpeechFeatures]
}

// OtherFeatures возвращает остальные признаки записи.
func (e DictionaryEntry) OtherFeatures(v dict.Variant) []string {
	return e.Features[v.PartOfSpeechFeatures:]
}

// ParseEntry разбирает поля строки "surface,left,right,cost,features...".
// Недостающие признаки дополняются "*", лишние - ошибка.
// IPADIC: 9 признаков (pos1-4, тип и форма спряжения, базовая форма, чтение, произношение).
// JUMANDIC: 7 признаков (pos1-4, базовая форма, чтение, семантическая информация).
func ParseEntry(fields []string, v dict.Variant) (DictionaryEntry, error) {
	if len(fields) < 4 {
		return DictionaryEntry{}, fmt.Errorf("ожидалось не менее 4 полей, получено %d", len(fields))
	}
	if len(fields)-4 > v.TotalFeatures {
		return DictionaryEntry{}, fmt.Errorf("%d признаков, вариант %s допускает %d", len(fields)-4, v.Name, v.TotalFeatures)
	}
	e := DictionaryEntry{Surface: fields[0]}
	if e.Surface == "" {
		return DictionaryEntry{}, errors.New("пустая поверхностная форма")
	}
	if !utf8.ValidString(e.Surface) {
		return DictionaryEntry{}, fmt.Errorf("некорректная строка UTF-8 в поверхности %q", e.Surface)
	}

	var err error
	if e.LeftID, err = parseInt16(fields[1], "левый класс", 0); err != nil {
		return DictionaryEntry{}, err
	}
	if e.RightID, err = parseInt16(fields[2], "правый класс", 0); err != nil {
		return DictionaryEntry{}, err
	}
	if e.WordCost, err = parseInt16(fields[3], "стоимость", math.MinInt16); err != nil {
		return DictionaryEntry{}, err
	}

	e.Features = make([]string, v.TotalFeatures)
	for i := range e.Features {
		e.Features[i] = "*"
	}
	copy(e.Features, fields[4:])
	return e, nil
}

func parseInt16(s, what string, lo int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", what, err)
	}
	if n < lo || n > math.MaxInt16 {
		return 0, fmt.Errorf("%s %d вне диапазона [%d, %d]", what, n, lo, math.MaxInt16)
	}
	return n, nil
}

// ReadEntries читает CSV-файл словаря.
func ReadEntries(r io.Reader, v dict.Variant) ([]DictionaryEntry, error) {
	var entries []DictionaryEntry
	err := readCSV(r, func(line int, fields []string) error {
		e, err := ParseEntry(fields, v)
		if err != nil {
			return fmt.Errorf("строка %d: %w", line, err)
		}
		entries = append(entries, e)
		return nil
	})
	return entries, err
}

// ReadUnknownEntries читает unk.def: те же записи, но вместо поверхности - имя класса символов.
func ReadUnknownEntries(r io.Reader, v dict.Variant) ([]DictionaryEntry, error) {
	return ReadEntries(r, v)
}

func readCSV(r io.Reader, fn func(line int, fields []string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		line, _ := cr.FieldPos(0)
		if err := fn(line, rec); err != nil {
			return err
		}
	}
}
