package dict

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/steosofficial/steostokenizer/buffer"
)

// --- КЛАССЫ СИМВОЛОВ ---

// DefaultClass - класс, к которому относится любой символ без явного описания.
const DefaultClass = "DEFAULT"

// CharacterClass - описание класса символов для обработки неизвестных слов.
type CharacterClass struct {
	Name   string
	Invoke bool // Строить неизвестные слова даже при наличии словарного совпадения.
	Group  bool // Объединять подряд идущие символы класса в одно слово.
	Length int  // Дополнительно строить слова длиной 1..Length.
}

// CharacterRange - диапазон кодовых точек [Lo, Hi] и его классы.
// Первый класс - основной.
type CharacterRange struct {
	Lo, Hi  rune
	Classes []int
}

// CharacterDefinitionsData - сериализуемая форма определений. Хранится в ресурсе
// как gob, сжатый gzip, внутри одного блока buffer.Write.
type CharacterDefinitionsData struct {
	Classes []CharacterClass
	Ranges  []CharacterRange // Поздние диапазоны перекрывают ранние.
}

// CharacterDefinitions - классы символов, развернутые в таблицу для плоскости BMP.
type CharacterDefinitions struct {
	classes      []CharacterClass
	byName       map[string]int
	defaultClass int

	table []uint16 // Кодовая точка -> индекс в lists.
	lists [][]int  // Уникальные списки классов; lists[0] - только DEFAULT.
}

// NewCharacterDefinitions проверяет данные и строит таблицу поиска.
func NewCharacterDefinitions(data CharacterDefinitionsData) (*CharacterDefinitions, error) {
	cd := &CharacterDefinitions{
		classes:      data.Classes,
		byName:       make(map[string]int, len(data.Classes)),
		defaultClass: -1,
	}
	for i, c := range data.Classes {
		if _, dup := cd.byName[c.Name]; dup {
			return nil, fmt.Errorf("%w: класс символов %s описан дважды", ErrCorruptDictionary, c.Name)
		}
		cd.byName[c.Name] = i
		if c.Name == DefaultClass {
			cd.defaultClass = i
		}
	}
	if cd.defaultClass < 0 {
		return nil, fmt.Errorf("%w: нет класса %s", ErrCorruptDictionary, DefaultClass)
	}

	cd.lists = [][]int{{cd.defaultClass}}
	cd.table = make([]uint16, 0x10000)
	seen := map[string]uint16{fmt.Sprint(cd.lists[0]): 0}

	for _, rg := range data.Ranges {
		if rg.Lo < 0 || rg.Hi > 0xFFFF || rg.Lo > rg.Hi || len(rg.Classes) == 0 {
			return nil, fmt.Errorf("%w: недопустимый диапазон %#x..%#x", ErrCorruptDictionary, rg.Lo, rg.Hi)
		}
		for _, c := range rg.Classes {
			if c < 0 || c >= len(cd.classes) {
				return nil, fmt.Errorf("%w: диапазон %#x..%#x ссылается на класс %d", ErrCorruptDictionary, rg.Lo, rg.Hi, c)
			}
		}
		key := fmt.Sprint(rg.Classes)
		idx, ok := seen[key]
		if !ok {
			idx = uint16(len(cd.lists))
			cd.lists = append(cd.lists, rg.Classes)
			seen[key] = idx
		}
		for r := rg.Lo; r <= rg.Hi; r++ {
			cd.table[r] = idx
		}
	}
	return cd, nil
}

// ReadCharacterDefinitions читает ресурс characterDefinitions.bin.
func ReadCharacterDefinitions(r io.Reader) (*CharacterDefinitions, error) {
	block, err := buffer.Read(r)
	if err != nil {
		return nil, err
	}
	gz, err := gzip.NewReader(bytes.NewReader(block))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания gzip.Reader: %w", err)
	}
	var data CharacterDefinitionsData
	if err := gob.NewDecoder(gz).Decode(&data); err != nil {
		return nil, fmt.Errorf("ошибка gob-декодирования: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("ошибка закрытия gzip.Reader: %w", err)
	}
	return NewCharacterDefinitions(data)
}

// WriteCharacterDefinitions записывает определения в формате ReadCharacterDefinitions.
func WriteCharacterDefinitions(w io.Writer, data CharacterDefinitionsData) error {
	var compressed bytes.Buffer
	gz := gzip.NewWriter(&compressed)
	if err := gob.NewEncoder(gz).Encode(data); err != nil {
		return fmt.Errorf("ошибка gob-кодирования: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("ошибка сжатия: %w", err)
	}
	return buffer.Write(w, compressed.Bytes())
}

// ClassCount - количество классов.
func (cd *CharacterDefinitions) ClassCount() int { return len(cd.classes) }

// Class возвращает описание класса по номеру.
func (cd *CharacterDefinitions) Class(id int) CharacterClass { return cd.classes[id] }

// ClassID возвращает номер класса по имени.
func (cd *CharacterDefinitions) ClassID(name string) (int, bool) {
	id, ok := cd.byName[name]
	return id, ok
}

// DefaultClassID - номер класса DEFAULT.
func (cd *CharacterDefinitions) DefaultClassID() int { return cd.defaultClass }

// Lookup возвращает классы символа, основной - первый. Символы вне BMP
// относятся к DEFAULT. Срез принадлежит таблице, изменять его нельзя.
func (cd *CharacterDefinitions) Lookup(r rune) []int {
	if r < 0 || r > 0xFFFF {
		return cd.lists[0]
	}
	return cd.lists[cd.table[r]]
}

// HasClass сообщает, относится ли символ к классу.
func (cd *CharacterDefinitions) HasClass(r rune, class int) bool {
	for _, c := range cd.Lookup(r) {
		if c == class {
			return true
		}
	}
	return false
}

// Classes возвращает копию описаний классов.
func (cd *CharacterDefinitions) Classes() []CharacterClass {
	return append([]CharacterClass(nil), cd.classes...)
}
