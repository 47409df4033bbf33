package dict

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/steosofficial/steostokenizer/fst"
)

// UserWordCost - стоимость каждого сегмента пользовательской записи. Она настолько
// мала, что путь через пользовательские слова почти всегда оказывается лучшим.
const UserWordCost = -100000

// UserEntry - одна строка пользовательского словаря:
//
//	поверхность,сегменты через пробел,чтения через пробел,часть речи
//	関西国際空港,関西 国際 空港,カンサイ コクサイ クウコウ,カスタム名詞
type UserEntry struct {
	Surface      string
	Segments     []string
	Readings     []string
	PartOfSpeech string
}

// UserMatch - сегмент пользовательской записи, найденный в тексте.
// Позиции и длины - в символах (rune).
type UserMatch struct {
	WordID int
	Start  int
	Length int
}

type userWord struct {
	surface  string
	features []string
}

// UserDictionary - словарь пользовательских сегментаций.
type UserDictionary struct {
	variant  Variant
	words    []userWord
	segments [][]int // Ранг поверхности в surfaces -> word id ее сегментов.
	surfaces *fst.FST
}

// ReadUserDictionary разбирает пользовательский словарь. Пустые строки и строки,
// начинающиеся с '#', пропускаются. При повторе поверхности действует последняя запись.
func ReadUserDictionary(r io.Reader, v Variant) (*UserDictionary, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = 4
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	bySurface := make(map[string]UserEntry)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("пользовательский словарь: %w", err)
		}
		line, _ := cr.FieldPos(0)
		entry := UserEntry{
			Surface:      strings.TrimSpace(rec[0]),
			Segments:     strings.Fields(rec[1]),
			Readings:     strings.Fields(rec[2]),
			PartOfSpeech: strings.TrimSpace(rec[3]),
		}
		if err := entry.validate(); err != nil {
			return nil, fmt.Errorf("пользовательский словарь, строка %d: %w", line, err)
		}
		bySurface[entry.Surface] = entry
	}

	entries := make([]UserEntry, 0, len(bySurface))
	for _, e := range bySurface {
		entries = append(entries, e)
	}
	return NewUserDictionary(entries, v)
}

func (e UserEntry) validate() error {
	if e.Surface == "" {
		return errors.New("пустая поверхностная форма")
	}
	if !utf8.ValidString(e.Surface) {
		return fmt.Errorf("некорректная строка UTF-8 в %q", e.Surface)
	}
	if len(e.Segments) == 0 || len(e.Segments) != len(e.Readings) {
		return fmt.Errorf("%d сегментов и %d чтений", len(e.Segments), len(e.Readings))
	}
	if strings.Join(e.Segments, "") != e.Surface {
		return fmt.Errorf("сегменты %q не составляют %q", e.Segments, e.Surface)
	}
	return nil
}

// NewUserDictionary строит словарь из записей. Порядок записей не важен:
// word id назначаются в порядке поверхностей.
func NewUserDictionary(entries []UserEntry, v Variant) (*UserDictionary, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	sorted := append([]UserEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Surface < sorted[j].Surface })

	d := &UserDictionary{variant: v}
	b := fst.NewBuilder()
	for _, e := range sorted {
		if err := e.validate(); err != nil {
			return nil, fmt.Errorf("пользовательский словарь, %q: %w", e.Surface, err)
		}
		if err := b.Add(e.Surface); err != nil {
			return nil, fmt.Errorf("пользовательский словарь: %w", err)
		}
		ids := make([]int, len(e.Segments))
		for i, seg := range e.Segments {
			ids[i] = len(d.words)
			d.words = append(d.words, userWord{surface: seg, features: d.features(e.PartOfSpeech, e.Readings[i])})
		}
		d.segments = append(d.segments, ids)
	}

	var err error
	if d.surfaces, err = fst.New(b.Compile()); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *UserDictionary) features(pos, reading string) []string {
	f := make([]string, d.variant.TotalFeatures)
	for i := range f {
		f[i] = "*"
	}
	f[d.variant.PartOfSpeechFeature] = pos
	if d.variant.ReadingFeature >= 0 {
		f[d.variant.ReadingFeature] = reading
	}
	return f
}

// Len - количество сегментов (слов) в словаре.
func (d *UserDictionary) Len() int { return len(d.words) }

// Surface возвращает текст сегмента.
func (d *UserDictionary) Surface(wordID int) string { return d.words[wordID].surface }

// FindMatches ищет в тексте самые длинные записи, начинающиеся в каждой позиции,
// и возвращает их сегменты по возрастанию позиции. Совпадения могут перекрываться.
func (d *UserDictionary) FindMatches(text []rune) []UserMatch {
	var matches []UserMatch
	for start := range text {
		best := -1
		d.surfaces.PrefixMatches(text, start, func(_, rank int) { best = rank })
		if best < 0 {
			continue
		}
		pos := start
		for _, id := range d.segments[best] {
			n := len([]rune(d.words[id].surface))
			matches = append(matches, UserMatch{WordID: id, Start: pos, Length: n})
			pos += n
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Start < matches[j].Start })
	return matches
}

func (d *UserDictionary) LeftID(int) int   { return d.variant.UserLeftID }
func (d *UserDictionary) RightID(int) int  { return d.variant.UserRightID }
func (d *UserDictionary) WordCost(int) int { return UserWordCost }

func (d *UserDictionary) AllFeaturesArray(wordID int) []string {
	return append([]string(nil), d.words[wordID].features...)
}

func (d *UserDictionary) AllFeatures(wordID int) string {
	return JoinFeatures(d.words[wordID].features)
}

func (d *UserDictionary) Feature(wordID int, fields ...int) string {
	switch len(fields) {
	case 0:
		return d.AllFeatures(wordID)
	case 1:
		return featureAt(d.words[wordID].features, fields[0])
	}
	return selectFeatures(d.words[wordID].features, fields)
}

// --- ВСТАВЛЕННЫЕ УЗЛЫ ---

// InsertedDictionary обслуживает узлы, которые вставляются для восстановления
// связности решетки: нулевые классы и стоимость, все признаки "*".
type InsertedDictionary struct {
	features []string
}

// NewInsertedDictionary создает словарь с totalFeatures признаками "*".
func NewInsertedDictionary(totalFeatures int) *InsertedDictionary {
	f := make([]string, totalFeatures)
	for i := range f {
		f[i] = "*"
	}
	return &InsertedDictionary{features: f}
}

func (d *InsertedDictionary) LeftID(int) int   { return 0 }
func (d *InsertedDictionary) RightID(int) int  { return 0 }
func (d *InsertedDictionary) WordCost(int) int { return 0 }

func (d *InsertedDictionary) AllFeaturesArray(int) []string {
	return append([]string(nil), d.features...)
}

func (d *InsertedDictionary) AllFeatures(int) string { return JoinFeatures(d.features) }

func (d *InsertedDictionary) Feature(_ int, fields ...int) string {
	switch len(fields) {
	case 0:
		return d.AllFeatures(0)
	case 1:
		return featureAt(d.features, fields[0])
	}
	return selectFeatures(d.features, fields)
}
