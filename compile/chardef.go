package compile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/steosofficial/steostokenizer/dict"
)

// CharacterDefinitionsCompiler собирает классы символов из char.def.
type CharacterDefinitionsCompiler struct {
	data dict.CharacterDefinitionsData
	ids  map[string]int
}

// NewCharacterDefinitionsCompiler создает компилятор из готовых классов и диапазонов.
func NewCharacterDefinitionsCompiler(data dict.CharacterDefinitionsData) *CharacterDefinitionsCompiler {
	c := &CharacterDefinitionsCompiler{data: data, ids: make(map[string]int)}
	for i, cl := range data.Classes {
		c.ids[cl.Name] = i
	}
	return c
}

// ParseCharDef читает char.def в формате MeCab:
//
//	DEFAULT 0 1 0          # имя invoke group length
//	0x3041..0x309F HIRAGANA
//	0x3007 SYMBOL KANJINUMERIC
//
// Строка диапазона может ссылаться на классы, описанные ниже по файлу.
// Диапазоны вне BMP обрезаются: такие символы всегда относятся к DEFAULT.
func ParseCharDef(r io.Reader) (*CharacterDefinitionsCompiler, error) {
	type pending struct {
		line    int
		lo, hi  rune
		classes []string
	}
	c := NewCharacterDefinitionsCompiler(dict.CharacterDefinitionsData{})
	var ranges []pending

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		if strings.HasPrefix(fields[0], "0x") {
			lo, hi, err := parseCodeRange(fields[0])
			if err != nil {
				return nil, fmt.Errorf("char.def, строка %d: %w", line, err)
			}
			if len(fields) < 2 {
				return nil, fmt.Errorf("char.def, строка %d: у диапазона нет классов", line)
			}
			ranges = append(ranges, pending{line, lo, hi, fields[1:]})
			continue
		}

		if len(fields) < 4 {
			return nil, fmt.Errorf("char.def, строка %d: ожидалось \"ИМЯ invoke group length\"", line)
		}
		var flags [3]int
		for i := range flags {
			n, err := strconv.Atoi(fields[i+1])
			if err != nil {
				return nil, fmt.Errorf("char.def, строка %d: %w", line, err)
			}
			flags[i] = n
		}
		if err := c.AddClass(dict.CharacterClass{
			Name:   fields[0],
			Invoke: flags[0] == 1,
			Group:  flags[1] == 1,
			Length: flags[2],
		}); err != nil {
			return nil, fmt.Errorf("char.def, строка %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("char.def: %w", err)
	}

	for _, p := range ranges {
		if err := c.AddRange(p.lo, p.hi, p.classes...); err != nil {
			return nil, fmt.Errorf("char.def, строка %d: %w", p.line, err)
		}
	}
	return c, nil
}

func parseCodeRange(s string) (lo, hi rune, err error) {
	loText, hiText, isRange := strings.Cut(s, "..")
	l, err := strconv.ParseUint(loText, 0, 32)
	if err != nil {
		return 0, 0, err
	}
	h := l
	if isRange {
		if h, err = strconv.ParseUint(hiText, 0, 32); err != nil {
			return 0, 0, err
		}
	}
	if h < l {
		return 0, 0, fmt.Errorf("пустой диапазон %s", s)
	}
	return rune(l), rune(h), nil
}

// AddClass описывает новый класс символов.
func (c *CharacterDefinitionsCompiler) AddClass(class dict.CharacterClass) error {
	if _, dup := c.ids[class.Name]; dup {
		return fmt.Errorf("класс %s описан дважды", class.Name)
	}
	if class.Length < 0 {
		return fmt.Errorf("класс %s: отрицательная длина %d", class.Name, class.Length)
	}
	c.ids[class.Name] = len(c.data.Classes)
	c.data.Classes = append(c.data.Classes, class)
	return nil
}

// AddRange относит диапазон кодовых точек к классам; первый класс - основной.
func (c *CharacterDefinitionsCompiler) AddRange(lo, hi rune, classes ...string) error {
	if lo > 0xFFFF {
		return nil
	}
	hi = min(hi, 0xFFFF)
	ids := make([]int, 0, len(classes))
	for _, name := range classes {
		id, ok := c.ids[name]
		if !ok {
			return fmt.Errorf("неизвестный класс символов %s", name)
		}
		ids = append(ids, id)
	}
	c.data.Ranges = append(c.data.Ranges, dict.CharacterRange{Lo: lo, Hi: hi, Classes: ids})
	return nil
}

// ClassID возвращает номер класса по имени.
func (c *CharacterDefinitionsCompiler) ClassID(name string) (int, bool) {
	id, ok := c.ids[name]
	return id, ok
}

// ClassCount - количество классов.
func (c *CharacterDefinitionsCompiler) ClassCount() int { return len(c.data.Classes) }

// Data возвращает собранные определения.
func (c *CharacterDefinitionsCompiler) Data() dict.CharacterDefinitionsData { return c.data }

// Compile проверяет определения (наличие DEFAULT, корректность диапазонов)
// и пишет ресурс characterDefinitions.bin.
func (c *CharacterDefinitionsCompiler) Compile(w io.Writer) error {
	if _, err := dict.NewCharacterDefinitions(c.data); err != nil {
		return err
	}
	return dict.WriteCharacterDefinitions(w, c.data)
}
