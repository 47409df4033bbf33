// Пакет fst реализует минимальный ациклический трансдьюсер, отображающий
// поверхностные формы словаря в их ранг (0-based) в отсортированном списке.
//
// Построение идет в два этапа. Builder принимает слова строго по возрастанию
// и сразу минимизирует граф: готовые узлы сверяются с реестром эквивалентных
// состояний, поэтому общие суффиксы хранятся один раз. Compile превращает граф
// в "плоские" массивы узлов и ребер, которые FST читает без копирования.
package fst

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrOutOfOrder - слова поданы в Builder не в строго возрастающем порядке.
var ErrOutOfOrder = errors.New("fst: слова должны добавляться в строго возрастающем порядке")

// ErrEmptyWord - пустая строка не может быть словом автомата.
var ErrEmptyWord = errors.New("fst: пустое слово")

// ErrInvalidUTF8 - слово не является корректной строкой UTF-8. Разные
// некорректные байты декодируются в один и тот же U+FFFD и склеили бы пути.
var ErrInvalidUTF8 = errors.New("fst: некорректная строка UTF-8")

// state - узел графа во время построения.
type state struct {
	final bool
	arcs  []arc // Отсортированы по символу, так как вход отсортирован.
	id    int   // Номер в реестре; -1, пока узел не "заморожен".
	count int   // Количество слов, принимаемых из этого узла (0 - не вычислено).
}

type arc struct {
	label rune
	to    *state
}

// Builder строит минимальный автомат по отсортированному списку слов.
// Не предназначен для конкурентного использования.
type Builder struct {
	root     *state
	path     []*state // Узлы вдоль последнего добавленного слова; path[0] - корень.
	prev     []rune
	prevWord string
	words    int
	register map[string]*state
	nextID   int
}

// NewBuilder создает пустой построитель.
func NewBuilder() *Builder {
	root := &state{id: -1}
	return &Builder{
		root:     root,
		path:     []*state{root},
		register: make(map[string]*state),
	}
}

// Len возвращает количество добавленных слов.
func (b *Builder) Len() int { return b.words }

// Add добавляет слово. Слова сравниваются побайтово, что для UTF-8
// совпадает с порядком кодовых точек, а значит и с порядком ребер.
func (b *Builder) Add(word string) error {
	if word == "" {
		return ErrEmptyWord
	}
	if !utf8.ValidString(word) {
		return fmt.Errorf("%w: %q", ErrInvalidUTF8, word)
	}
	if b.words > 0 && word <= b.prevWord {
		return fmt.Errorf("%w: %q после %q", ErrOutOfOrder, word, b.prevWord)
	}
	runes := []rune(word)

	common := 0
	for common < len(runes) && common < len(b.prev) && runes[common] == b.prev[common] {
		common++
	}
	b.freeze(common)

	for _, r := range runes[common:] {
		s := &state{id: -1}
		parent := b.path[len(b.path)-1]
		parent.arcs = append(parent.arcs, arc{label: r, to: s})
		b.path = append(b.path, s)
	}
	b.path[len(b.path)-1].final = true

	b.prev = runes
	b.prevWord = word
	b.words++
	return nil
}

// freeze регистрирует (или заменяет эквивалентными) все узлы пути глубже depth.
// Идем от самого глубокого узла: к моменту проверки узла все его потомки уже заморожены.
func (b *Builder) freeze(depth int) {
	for i := len(b.path) - 1; i > depth; i-- {
		child := b.path[i]
		parent := b.path[i-1]
		key := child.signature()
		if existing, ok := b.register[key]; ok {
			parent.arcs[len(parent.arcs)-1].to = existing
			continue
		}
		child.id = b.nextID
		b.nextID++
		b.register[key] = child
	}
	b.path = b.path[:depth+1]
}

// signature - ключ эквивалентности: финальность и ребра с номерами потомков.
func (s *state) signature() string {
	var sb strings.Builder
	if s.final {
		sb.WriteByte('F')
	} else {
		sb.WriteByte('N')
	}
	for _, a := range s.arcs {
		sb.WriteByte('|')
		sb.WriteString(strconv.FormatInt(int64(a.label), 36))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(a.to.id))
	}
	return sb.String()
}

// words считает количество слов, принимаемых из узла (с мемоизацией).
func (s *state) words() int {
	if s.count > 0 {
		return s.count
	}
	n := 0
	if s.final {
		n = 1
	}
	for _, a := range s.arcs {
		n += a.to.words()
	}
	s.count = n
	return n
}

// Compile завершает построение и возвращает плоское представление автомата.
// После вызова Builder использовать нельзя.
func (b *Builder) Compile() []byte {
	b.freeze(0)

	// Обход в ширину дает детерминированную нумерацию: корень - узел 0.
	index := map[*state]uint32{b.root: 0}
	order := []*state{b.root}
	var edgeCount int
	for i := 0; i < len(order); i++ {
		for _, a := range order[i].arcs {
			if _, ok := index[a.to]; !ok {
				index[a.to] = uint32(len(order))
				order = append(order, a.to)
			}
			edgeCount++
		}
	}

	out := make([]byte, 0, headerSize+len(order)*nodeSize+edgeCount*edgeSize)
	out = append(out, magic...)
	out = appendUint32(out, uint32(len(order)))
	out = appendUint32(out, uint32(edgeCount))
	out = appendUint32(out, uint32(b.root.words()))

	edgesStart := uint32(0)
	for _, s := range order {
		var flags uint32
		if s.final {
			flags |= flagFinal
		}
		out = appendUint32(out, edgesStart)
		out = appendUint32(out, uint32(len(s.arcs)))
		out = appendUint32(out, flags)
		edgesStart += uint32(len(s.arcs))
	}

	for _, s := range order {
		// Выход ребра - количество слов, которые лексикографически идут раньше
		// любого слова, проходящего через это ребро.
		before := 0
		if s.final {
			before = 1
		}
		for _, a := range s.arcs {
			out = appendUint32(out, uint32(a.label))
			out = appendUint32(out, index[a.to])
			out = appendUint32(out, uint32(before))
			before += a.to.words()
		}
	}
	return out
}

// Build - удобная обертка: строит автомат по уже отсортированному списку без повторов.
func Build(sorted []string) ([]byte, error) {
	b := NewBuilder()
	for _, w := range sorted {
		if err := b.Add(w); err != nil {
			return nil, err
		}
	}
	return b.Compile(), nil
}
