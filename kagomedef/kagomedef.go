// Пакет kagomedef переносит таблицы словарей kagome (матрицу соединений,
// классы символов и записи неизвестных слов) в исходные данные компилятора.
// Так словарь можно собрать из одних CSV-файлов лексикона, без matrix.def,
// char.def и unk.def.
//
// Словарь kagome хранит для символа только основной класс, поэтому
// дополнительные классы char.def (например, KANJINUMERIC у 一) теряются.
package kagomedef

import (
	"fmt"
	"sort"
	"strconv"

	kagome "github.com/ikawaha/kagome-dict/dict"
	"github.com/ikawaha/kagome-dict/ipa"

	"github.com/steosofficial/steostokenizer/compile"
	"github.com/steosofficial/steostokenizer/dict"
)

// classLengths - длины неизвестных слов по классам из char.def mecab-ipadic.
// В словаре kagome этого столбца нет; неупомянутые классы получают 0.
var classLengths = map[string]int{
	"KANJI":    2,
	"HIRAGANA": 2,
	"KATAKANA": 2,
}

// Sources - исходные данные, извлеченные из словаря kagome.
type Sources struct {
	Matrix  *compile.ConnectionCostsCompiler
	Chars   *compile.CharacterDefinitionsCompiler
	Unknown []compile.DictionaryEntry
}

// IPA извлекает таблицы встроенного словаря IPADIC пакета kagome-dict/ipa.
func IPA() (*Sources, error) {
	return FromDict(ipa.Dict(), dict.IPADIC)
}

// FromDict извлекает таблицы из загруженного словаря kagome.
func FromDict(d *kagome.Dict, v dict.Variant) (*Sources, error) {
	if d == nil {
		return nil, fmt.Errorf("словарь kagome не загружен")
	}
	matrix, err := connectionCosts(d)
	if err != nil {
		return nil, err
	}
	chars, err := characterDefinitions(d)
	if err != nil {
		return nil, err
	}
	unknown, err := unknownEntries(d, v)
	if err != nil {
		return nil, err
	}
	return &Sources{Matrix: matrix, Chars: chars, Unknown: unknown}, nil
}

// Compiler собирает компилятор словаря из записей лексикона и извлеченных таблиц.
func (s *Sources) Compiler(entries []compile.DictionaryEntry, v dict.Variant) *compile.DictionaryCompiler {
	return &compile.DictionaryCompiler{
		Variant: v,
		Entries: entries,
		Matrix:  s.Matrix,
		Chars:   s.Chars,
		Unknown: s.Unknown,
	}
}

// connectionCosts переносит матрицу. Строка таблицы kagome - правый класс
// предыдущего слова, столбец - левый класс следующего.
func connectionCosts(d *kagome.Dict) (*compile.ConnectionCostsCompiler, error) {
	rows, cols := int(d.Connection.Row), int(d.Connection.Col)
	if rows != cols || rows <= 0 {
		return nil, fmt.Errorf("%w: матрица kagome %dx%d не квадратная", dict.ErrCorruptDictionary, rows, cols)
	}
	if len(d.Connection.Vec) != rows*cols {
		return nil, fmt.Errorf("%w: в матрице kagome %d значений, ожидалось %d", dict.ErrCorruptDictionary, len(d.Connection.Vec), rows*cols)
	}
	c := compile.NewConnectionCostsCompiler(rows)
	for f := 0; f < rows; f++ {
		for b := 0; b < cols; b++ {
			if err := c.Set(f, b, int(d.Connection.Vec[f*cols+b])); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

// characterDefinitions переносит классы символов и таблицу категорий BMP.
func characterDefinitions(d *kagome.Dict) (*compile.CharacterDefinitionsCompiler, error) {
	if len(d.InvokeList) < len(d.CharClass) || len(d.GroupList) < len(d.CharClass) {
		return nil, fmt.Errorf("%w: таблицы invoke/group короче списка классов", dict.ErrCorruptDictionary)
	}
	c := compile.NewCharacterDefinitionsCompiler(dict.CharacterDefinitionsData{})
	for i, name := range d.CharClass {
		err := c.AddClass(dict.CharacterClass{
			Name:   name,
			Invoke: d.InvokeList[i],
			Group:  d.GroupList[i],
			Length: classLengths[name],
		})
		if err != nil {
			return nil, err
		}
	}

	// Категории хранятся по одной на кодовую точку; склеиваем серии в диапазоны.
	// Символы DEFAULT не описываются: это класс по умолчанию.
	emit := func(lo, hi rune, class int) error {
		if class >= len(d.CharClass) {
			return fmt.Errorf("%w: категория %d символа %U вне списка классов", dict.ErrCorruptDictionary, class, lo)
		}
		name := d.CharClass[class]
		if name == dict.DefaultClass {
			return nil
		}
		return c.AddRange(lo, hi, name)
	}
	n := min(len(d.CharCategory), 0x10000)
	start := 0
	for r := 1; r <= n; r++ {
		if r < n && d.CharCategory[r] == d.CharCategory[start] {
			continue
		}
		if err := emit(rune(start), rune(r-1), int(d.CharCategory[start])); err != nil {
			return nil, err
		}
		start = r
	}
	return c, nil
}

// unknownEntries переносит записи неизвестных слов в порядке номеров классов.
// Записи класса лежат подряд: Index - первая, IndexDup - число дополнительных.
func unknownEntries(d *kagome.Dict, v dict.Variant) ([]compile.DictionaryEntry, error) {
	first := make(map[int]int, len(d.UnkDict.Index))
	for class, idx := range d.UnkDict.Index {
		first[int(class)] = int(idx)
	}
	dups := make(map[int]int, len(d.UnkDict.IndexDup))
	for class, n := range d.UnkDict.IndexDup {
		dups[int(class)] = int(n)
	}
	classes := make([]int, 0, len(first))
	for class := range first {
		classes = append(classes, class)
	}
	sort.Ints(classes)

	var entries []compile.DictionaryEntry
	for _, class := range classes {
		if class >= len(d.CharClass) {
			return nil, fmt.Errorf("%w: неизвестные слова для класса %d вне списка классов", dict.ErrCorruptDictionary, class)
		}
		for k := first[class]; k <= first[class]+dups[class]; k++ {
			if k >= len(d.UnkDict.Morphs) || k >= len(d.UnkDict.Contents) {
				return nil, fmt.Errorf("%w: запись неизвестного слова %d вне таблицы", dict.ErrCorruptDictionary, k)
			}
			m := d.UnkDict.Morphs[k]
			fields := []string{
				d.CharClass[class],
				strconv.Itoa(int(m.LeftID)),
				strconv.Itoa(int(m.RightID)),
				strconv.Itoa(int(m.Weight)),
			}
			e, err := compile.ParseEntry(append(fields, d.UnkDict.Contents[k]...), v)
			if err != nil {
				return nil, fmt.Errorf("неизвестное слово %s: %w", d.CharClass[class], err)
			}
			entries = append(entries, e)
		}
	}
	return entries, nil
}
