// Пакет viterbi строит решетку слов над входным текстом и находит в ней путь
// минимальной стоимости.
//
// Позиции в решетке - индексы символов (rune) текста. Узел BOS заканчивается
// в позиции 0, узел EOS начинается в позиции len(text). Стоимость перехода
// u -> v равна wordCost(v) + cost(rightId(u), leftId(v)).
package viterbi

import (
	"fmt"
	"strings"

	"github.com/steosofficial/steostokenizer/dict"
)

// NodeType - происхождение узла решетки.
type NodeType uint8

const (
	Known    NodeType = iota // Слово из словаря.
	Unknown                  // Слово, построенное по классам символов.
	User                     // Сегмент пользовательского словаря.
	Inserted                 // Вставлен для восстановления связности перед пользовательским словом.
	BOS
	EOS
)

func (t NodeType) String() string {
	switch t {
	case Known:
		return "KNOWN"
	case Unknown:
		return "UNKNOWN"
	case User:
		return "USER"
	case Inserted:
		return "INSERTED"
	case BOS:
		return "BOS"
	case EOS:
		return "EOS"
	}
	return fmt.Sprintf("NodeType(%d)", t)
}

// Node - узел решетки.
type Node struct {
	WordID  int
	Surface string
	Start   int // Позиция первого символа.
	Length  int // Длина в символах.
	Type    NodeType
	Dict    dict.Dictionary

	LeftID, RightID, WordCost int

	index    int // Порядковый номер в решетке.
	pathCost int
	prev     *Node
	reached  bool
}

// End - позиция сразу после последнего символа.
func (n *Node) End() int { return n.Start + n.Length }

// PathCost - стоимость лучшего пути от BOS до узла включительно (после поиска).
func (n *Node) PathCost() int { return n.pathCost }

func (n *Node) String() string {
	return fmt.Sprintf("%s[%d:%d]%s#%d", n.Type, n.Start, n.End(), n.Surface, n.WordID)
}

// Lattice - решетка слов над текстом. Узлы, начинающиеся и заканчивающиеся
// в позиции, доступны за O(1). Решетка создается на каждый вызов и не разделяется.
type Lattice struct {
	text   []rune
	starts [][]*Node
	ends   [][]*Node
	nodes  []*Node
	bos    *Node
	eos    *Node
}

// NewLattice создает решетку с узлом BOS.
func NewLattice(text []rune) *Lattice {
	l := &Lattice{
		text:   text,
		starts: make([][]*Node, len(text)+1),
		ends:   make([][]*Node, len(text)+1),
	}
	l.bos = &Node{Type: BOS, Surface: "BOS"}
	l.nodes = append(l.nodes, l.bos)
	l.ends[0] = append(l.ends[0], l.bos)
	return l
}

// Add добавляет узел; классы и стоимость берутся из словаря узла.
func (l *Lattice) Add(n *Node) {
	if n.Length <= 0 || n.Start < 0 || n.End() > len(l.text) {
		panic(fmt.Sprintf("viterbi: узел %v вне текста длиной %d", n, len(l.text)))
	}
	n.LeftID = n.Dict.LeftID(n.WordID)
	n.RightID = n.Dict.RightID(n.WordID)
	n.WordCost = n.Dict.WordCost(n.WordID)
	n.index = len(l.nodes)
	l.nodes = append(l.nodes, n)
	l.starts[n.Start] = append(l.starts[n.Start], n)
	l.ends[n.End()] = append(l.ends[n.End()], n)
}

// Close добавляет узел EOS; после этого решетку можно передавать в поиск.
func (l *Lattice) Close() {
	if l.eos != nil {
		return
	}
	l.eos = &Node{Type: EOS, Surface: "EOS", Start: len(l.text)}
	l.eos.index = len(l.nodes)
	l.nodes = append(l.nodes, l.eos)
	l.starts[len(l.text)] = append(l.starts[len(l.text)], l.eos)
}

// Text возвращает текст решетки.
func (l *Lattice) Text() []rune { return l.text }

// Len - длина текста в символах.
func (l *Lattice) Len() int { return len(l.text) }

// BOS и EOS - служебные узлы.
func (l *Lattice) BOS() *Node { return l.bos }
func (l *Lattice) EOS() *Node { return l.eos }

// StartingAt возвращает узлы, начинающиеся в позиции, в порядке добавления.
func (l *Lattice) StartingAt(pos int) []*Node { return l.starts[pos] }

// EndingAt возвращает узлы, заканчивающиеся в позиции, в порядке добавления.
func (l *Lattice) EndingAt(pos int) []*Node { return l.ends[pos] }

// Reachable сообщает, заканчивается ли в позиции хотя бы один узел.
func (l *Lattice) Reachable(pos int) bool { return len(l.ends[pos]) > 0 }

// NodeCount - количество узлов вместе с BOS и EOS.
func (l *Lattice) NodeCount() int { return len(l.nodes) }

// Dump - компактное текстовое представление решетки для отладки.
func (l *Lattice) Dump() string {
	var sb strings.Builder
	for pos := range l.starts {
		for _, n := range l.starts[pos] {
			fmt.Fprintf(&sb, "%v cost=%d\n", n, n.WordCost)
		}
	}
	return sb.String()
}
