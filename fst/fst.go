package fst

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
)

// --- ФОРМАТ ---

// Плоское представление автомата:
//
//	header: magic "SFST", uint32 nodeCount, uint32 edgeCount, uint32 wordCount
//	nodes:  nodeCount * (uint32 edgesIdx, uint32 edgesLen, uint32 flags)
//	edges:  edgeCount * (uint32 label, uint32 target, uint32 output)
//
// Ребра одного узла лежат непрерывным блоком и отсортированы по символу.
// Корень - узел 0. Сумма выходов вдоль пути слова равна его рангу.
const (
	headerSize = 16
	nodeSize   = 12
	edgeSize   = 12

	flagFinal = 1
)

var magic = []byte("SFST")

// ErrCorrupt - блок не является корректным автоматом.
var ErrCorrupt = errors.New("fst: поврежденный автомат")

func appendUint32(dst []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, v)
}

// --- АВТОМАТ ---

// FST - минимальный автомат поверх плоского блока байт. Блок не копируется,
// поэтому FST можно строить прямо над отображенной в память областью.
// Безопасен для конкурентного чтения.
type FST struct {
	nodes     []byte
	edges     []byte
	nodeCount uint32
	words     int
}

// New проверяет блок один раз: границы ребер, номера целевых узлов и порядок
// символов. После этого обход не делает проверок.
func New(b []byte) (*FST, error) {
	if len(b) < headerSize || string(b[:4]) != string(magic) {
		return nil, fmt.Errorf("%w: неверная сигнатура", ErrCorrupt)
	}
	nodeCount := binary.LittleEndian.Uint32(b[4:])
	edgeCount := binary.LittleEndian.Uint32(b[8:])
	words := binary.LittleEndian.Uint32(b[12:])

	want := uint64(headerSize) + uint64(nodeCount)*nodeSize + uint64(edgeCount)*edgeSize
	if nodeCount == 0 || uint64(len(b)) != want {
		return nil, fmt.Errorf("%w: размер %d байт, ожидалось %d", ErrCorrupt, len(b), want)
	}
	nodesEnd := headerSize + int(nodeCount)*nodeSize
	f := &FST{
		nodes:     b[headerSize:nodesEnd],
		edges:     b[nodesEnd:],
		nodeCount: nodeCount,
		words:     int(words),
	}

	for n := uint32(0); n < nodeCount; n++ {
		start, length := f.edgeRange(n)
		if uint64(start)+uint64(length) > uint64(edgeCount) {
			return nil, fmt.Errorf("%w: ребра узла %d вне массива", ErrCorrupt, n)
		}
		prev := int64(-1)
		for e := start; e < start+length; e++ {
			label, target, _ := f.edge(e)
			if int64(label) <= prev {
				return nil, fmt.Errorf("%w: ребра узла %d не отсортированы", ErrCorrupt, n)
			}
			if target >= nodeCount {
				return nil, fmt.Errorf("%w: ребро %d ведет в несуществующий узел %d", ErrCorrupt, e, target)
			}
			prev = int64(label)
		}
	}
	return f, nil
}

// Len возвращает количество слов в автомате.
func (f *FST) Len() int { return f.words }

func (f *FST) edgeRange(n uint32) (start, length uint32) {
	p := int(n) * nodeSize
	return binary.LittleEndian.Uint32(f.nodes[p:]), binary.LittleEndian.Uint32(f.nodes[p+4:])
}

func (f *FST) isFinal(n uint32) bool {
	return binary.LittleEndian.Uint32(f.nodes[int(n)*nodeSize+8:])&flagFinal != 0
}

func (f *FST) edge(e uint32) (label rune, target, output uint32) {
	p := int(e) * edgeSize
	return rune(binary.LittleEndian.Uint32(f.edges[p:])),
		binary.LittleEndian.Uint32(f.edges[p+4:]),
		binary.LittleEndian.Uint32(f.edges[p+8:])
}

// child ищет переход из узла по символу. Ребра узла лежат непрерывным блоком
// и отсортированы, поэтому используется бинарный поиск.
func (f *FST) child(n uint32, r rune) (target, output uint32, ok bool) {
	start, length := f.edgeRange(n)
	if length == 0 {
		return 0, 0, false
	}
	i := sort.Search(int(length), func(i int) bool {
		label, _, _ := f.edge(start + uint32(i))
		return label >= r
	})
	if i == int(length) {
		return 0, 0, false
	}
	label, target, output := f.edge(start + uint32(i))
	if label != r {
		return 0, 0, false
	}
	return target, output, true
}

// Lookup возвращает ранг слова или false, если слова в автомате нет.
func (f *FST) Lookup(word string) (int, bool) {
	if word == "" {
		return 0, false
	}
	node, rank := uint32(0), 0
	for _, r := range word {
		next, out, ok := f.child(node, r)
		if !ok {
			return 0, false
		}
		node = next
		rank += int(out)
	}
	if !f.isFinal(node) {
		return 0, false
	}
	return rank, true
}

// PrefixMatches перечисляет все слова автомата, являющиеся префиксами text[start:],
// в порядке возрастания длины. fn получает длину совпадения в символах и ранг слова.
func (f *FST) PrefixMatches(text []rune, start int, fn func(length, rank int)) {
	node, rank := uint32(0), 0
	for i := start; i < len(text); i++ {
		next, out, ok := f.child(node, text[i])
		if !ok {
			return
		}
		node = next
		rank += int(out)
		if f.isFinal(node) {
			fn(i-start+1, rank)
		}
	}
}

// Each обходит автомат в глубину и перечисляет слова в лексикографическом
// порядке вместе с их рангами.
func (f *FST) Each(fn func(word string, rank int)) {
	var walk func(n uint32, prefix []rune, rank int)
	walk = func(n uint32, prefix []rune, rank int) {
		if f.isFinal(n) && len(prefix) > 0 {
			fn(string(prefix), rank)
		}
		start, length := f.edgeRange(n)
		for e := start; e < start+length; e++ {
			label, target, out := f.edge(e)
			walk(target, append(prefix, label), rank+int(out))
		}
	}
	walk(0, nil, 0)
}
